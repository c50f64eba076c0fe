package dashboardconversion

import (
	"testing"
	"time"

	"dashboardconversion/pkg/core"
)

func TestBuildDashboardFullMode(t *testing.T) {
	settings := testSettings(core.ModeFull)
	document := core.Document{Key: "main.json", JSON: `{"title": "Main"}`, Title: "Main"}

	dashboard := buildDashboard("monitoring", "src", "src-main", "Platform", document, settings)

	if dashboard.Spec.Json != document.JSON {
		t.Fatalf("full mode must embed content, got %q", dashboard.Spec.Json)
	}
	if dashboard.Spec.ConfigMapRef != nil {
		t.Fatalf("full mode must not reference the source ConfigMap")
	}
	if dashboard.Spec.ResyncPeriod != "" {
		t.Fatalf("full mode must not set a resync period")
	}

	if dashboard.Labels[core.ManagedByLabel] != core.ManagedByLabelValue {
		t.Fatalf("missing managed-by label")
	}
	if dashboard.Labels[core.SourceNameLabel] != "src" || dashboard.Labels[core.SourceKeyLabel] != "main.json" {
		t.Fatalf("wrong source labels: %v", dashboard.Labels)
	}
	if dashboard.Labels[core.ModeLabel] != core.ModeFull {
		t.Fatalf("wrong mode label: %q", dashboard.Labels[core.ModeLabel])
	}
	if dashboard.Annotations[core.ContentHashAnnotation] != core.HashContent(document.JSON) {
		t.Fatalf("wrong content-hash annotation")
	}

	if dashboard.Spec.FolderTitle != "Platform" {
		t.Fatalf("wrong folder: %q", dashboard.Spec.FolderTitle)
	}
	if dashboard.Spec.InstanceSelector == nil || dashboard.Spec.InstanceSelector.MatchLabels["dashboards"] != "grafana" {
		t.Fatalf("wrong instance selector: %+v", dashboard.Spec.InstanceSelector)
	}
}

func TestBuildDashboardReferenceMode(t *testing.T) {
	settings := testSettings(core.ModeReference)
	settings.ResyncInterval = 10 * time.Minute
	document := core.Document{Key: "main.json", JSON: `{"title": "Main"}`, Title: "Main"}

	dashboard := buildDashboard("monitoring", "src", "src-main", "", document, settings)

	if dashboard.Spec.Json != "" {
		t.Fatalf("reference mode must not embed content")
	}
	if dashboard.Spec.ConfigMapRef == nil {
		t.Fatalf("reference mode must point at the source ConfigMap")
	}
	if dashboard.Spec.ConfigMapRef.Name != "src" || dashboard.Spec.ConfigMapRef.Key != "main.json" {
		t.Fatalf("wrong reference: %+v", dashboard.Spec.ConfigMapRef)
	}
	if dashboard.Spec.ResyncPeriod != "10m0s" {
		t.Fatalf("wrong resync period: %q", dashboard.Spec.ResyncPeriod)
	}
	if dashboard.Labels[core.ModeLabel] != core.ModeReference {
		t.Fatalf("wrong mode label: %q", dashboard.Labels[core.ModeLabel])
	}
}

func TestSpecModeFollowsShape(t *testing.T) {
	settings := testSettings(core.ModeFull)
	document := core.Document{Key: "main.json", JSON: `{"title": "Main"}`}

	full := buildDashboard("monitoring", "src", "src-main", "", document, settings)
	if specMode(full.Spec) != core.ModeFull {
		t.Fatalf("expected full shape")
	}

	settings.Mode = core.ModeReference
	reference := buildDashboard("monitoring", "src", "src-main", "", document, settings)
	if specMode(reference.Spec) != core.ModeReference {
		t.Fatalf("expected reference shape")
	}
}
