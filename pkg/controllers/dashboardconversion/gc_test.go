package dashboardconversion

import (
	"context"
	"testing"

	"dashboardconversion/pkg/core"
)

func TestIsLiveTarget(t *testing.T) {
	data := map[string]string{
		"present.json": `{"title": "P"}`,
		"notes.txt":    "irrelevant",
	}

	cases := []struct {
		name           string
		sourceKey      string
		candidateCount int
		dashboardName  string
		want           bool
	}{
		{"live multi-document pair", "present.json", 2, "src-present", true},
		{"live single-document pair", "present.json", 1, "src", true},
		{"missing source-key label", "", 2, "src-present", false},
		{"non-dashboard key", "notes.txt", 2, "src-notes", false},
		{"key removed from source", "removed.json", 2, "src-removed", false},
		{"name from previous count", "present.json", 2, "src", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := isLiveTarget("src", tc.sourceKey, data, tc.candidateCount, tc.dashboardName)
			if got != tc.want {
				t.Fatalf("isLiveTarget(%q, name %q) = %v, want %v", tc.sourceKey, tc.dashboardName, got, tc.want)
			}
		})
	}
}

func TestManagedSourcesReplayCollectsMissedDeletes(t *testing.T) {
	client := newFakeKubeClient()
	client.setConfigMap("monitoring", "alive", map[string]string{"dashboard.json": `{"title": "Alive"}`}, discoveryLabels(nil))
	client.setConfigMap("monitoring", "doomed", map[string]string{"dashboard.json": `{"title": "Doomed"}`}, discoveryLabels(nil))

	converter := newTestConverter(client, testSettings(core.ModeFull))

	for _, name := range []string{"alive", "doomed"} {
		if _, _, err := converter.Convert(context.Background(), Key{Namespace: "monitoring", Name: name}); err != nil {
			t.Fatalf("convert %s: %v", name, err)
		}
	}

	// The source disappears without the converter observing a delete event.
	client.removeConfigMap("monitoring", "doomed")
	writesBefore := client.writeCount()

	sources, err := converter.ManagedSources(context.Background())
	if err != nil {
		t.Fatalf("managed sources: %v", err)
	}

	want := []Key{{Namespace: "monitoring", Name: "alive"}, {Namespace: "monitoring", Name: "doomed"}}
	if len(sources) != len(want) || sources[0] != want[0] || sources[1] != want[1] {
		t.Fatalf("managed sources = %v, want %v", sources, want)
	}

	// Replaying the listed sources through Convert prunes the dead one and
	// leaves the healthy one write-free.
	for _, source := range sources {
		if _, _, err := converter.Convert(context.Background(), source); err != nil {
			t.Fatalf("replay %s/%s: %v", source.Namespace, source.Name, err)
		}
	}

	if _, exists := client.dashboards["monitoring/doomed"]; exists {
		t.Fatalf("dashboard of deleted source survived the replay")
	}
	if _, exists := client.dashboards["monitoring/alive"]; !exists {
		t.Fatalf("healthy source's dashboard was removed")
	}
	if client.writeCount() != writesBefore+1 {
		t.Fatalf("replay of healthy sources must be write-free, ops: %v", client.ops)
	}
}

func TestManagedSourcesScopesToConfiguredNamespace(t *testing.T) {
	client := newFakeKubeClient()
	client.setConfigMap("monitoring", "in-scope", map[string]string{"dashboard.json": `{"title": "In"}`}, discoveryLabels(nil))

	converter := newTestConverter(client, testSettings(core.ModeFull))
	if _, _, err := converter.Convert(context.Background(), Key{Namespace: "monitoring", Name: "in-scope"}); err != nil {
		t.Fatalf("convert: %v", err)
	}

	// A managed dashboard in another namespace, left over from a different
	// deployment, is outside a namespace-scoped sweep.
	other := buildDashboard("elsewhere", "other", "other", "", core.Document{Key: "dashboard.json", JSON: `{"title": "Out"}`}, converter.settings)
	client.dashboards["elsewhere/other"] = other

	sources, err := converter.ManagedSources(context.Background())
	if err != nil {
		t.Fatalf("managed sources: %v", err)
	}

	if len(sources) != 1 || sources[0] != (Key{Namespace: "monitoring", Name: "in-scope"}) {
		t.Fatalf("managed sources = %v, want only the in-scope source", sources)
	}
}

func TestManagedSourcesDeduplicatesMultiDocumentSources(t *testing.T) {
	client := newFakeKubeClient()
	client.setConfigMap("monitoring", "multi", map[string]string{
		"a.json": `{"title": "A"}`,
		"b.json": `{"title": "B"}`,
	}, discoveryLabels(nil))

	converter := newTestConverter(client, testSettings(core.ModeFull))
	if _, _, err := converter.Convert(context.Background(), Key{Namespace: "monitoring", Name: "multi"}); err != nil {
		t.Fatalf("convert: %v", err)
	}

	sources, err := converter.ManagedSources(context.Background())
	if err != nil {
		t.Fatalf("managed sources: %v", err)
	}

	if len(sources) != 1 {
		t.Fatalf("two dashboards of one source must list once, got %v", sources)
	}
}
