package core_test

import (
	"strings"
	"testing"

	core "dashboardconversion/pkg/core"
)

const validDashboard = `{"title": "CPU Usage", "panels": [{"type": "graph"}], "schemaVersion": 16}`

func TestParseDocumentsExtractsValidDashboards(t *testing.T) {
	data := map[string]string{
		"loki-chunks.json": validDashboard,
		"loki-logs.json":   `{"dashboard": {"title": "Logs"}}`,
	}

	documents, failures := core.ParseDocuments(data)
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %+v", failures)
	}
	if len(documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(documents))
	}
	// Sorted key order.
	if documents[0].Key != "loki-chunks.json" || documents[1].Key != "loki-logs.json" {
		t.Fatalf("unexpected order: %q, %q", documents[0].Key, documents[1].Key)
	}
	if documents[0].Title != "CPU Usage" {
		t.Fatalf("expected direct-format title, got %q", documents[0].Title)
	}
	if documents[1].Title != "Logs" {
		t.Fatalf("expected wrapped-format title, got %q", documents[1].Title)
	}
}

func TestParseDocumentsIgnoresNonDashboardKeys(t *testing.T) {
	data := map[string]string{
		"readme.txt":     "not a dashboard",
		"config.yaml":    "key: value",
		"dashboard.json": validDashboard,
	}

	documents, failures := core.ParseDocuments(data)
	if len(failures) != 0 {
		t.Fatalf("non-candidate keys must not produce failures: %+v", failures)
	}
	if len(documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(documents))
	}
}

func TestParseDocumentsIsolatesInvalidSiblings(t *testing.T) {
	data := map[string]string{
		"bad.json":  `{not json`,
		"good.json": validDashboard,
		"notitle.json": `{"panels": []}`,
	}

	documents, failures := core.ParseDocuments(data)
	if len(documents) != 1 || documents[0].Key != "good.json" {
		t.Fatalf("expected only the valid document, got %+v", documents)
	}
	if len(failures) != 2 {
		t.Fatalf("expected 2 failures, got %+v", failures)
	}
	for _, failure := range failures {
		if failure.Err == nil {
			t.Fatalf("failure for %q missing error", failure.Key)
		}
	}
}

func TestParseDocumentsRejectsStructuralViolations(t *testing.T) {
	cases := map[string]string{
		"empty title":      `{"title": ""}`,
		"long title":       `{"title": "` + strings.Repeat("x", 201) + `"}`,
		"non-string title": `{"title": 5}`,
		"bad schema":       `{"title": "ok", "schemaVersion": "sixteen"}`,
		"bad panels":       `{"title": "ok", "panels": {"a": 1}}`,
		"bad refresh":      `{"title": "ok", "refresh": 30}`,
		"bad tags":         `{"title": "ok", "tags": "prod"}`,
		"non-object":       `[1, 2, 3]`,
		"wrapped non-object": `{"dashboard": "text"}`,
	}

	for name, raw := range cases {
		documents, failures := core.ParseDocuments(map[string]string{"d.json": raw})
		if len(documents) != 0 {
			t.Fatalf("%s: expected rejection, got document", name)
		}
		if len(failures) != 1 {
			t.Fatalf("%s: expected 1 failure, got %d", name, len(failures))
		}
	}
}

func TestParseDocumentsAcceptsLargePanelAndTagCounts(t *testing.T) {
	tags := `["` + strings.Repeat(`a", "`, 49) + `a"]`
	raw := `{"title": "ok", "tags": ` + tags + `, "refresh": "30s"}`

	documents, failures := core.ParseDocuments(map[string]string{"d.json": raw})
	if len(failures) != 0 {
		t.Fatalf("expected success, got %+v", failures)
	}
	if len(documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(documents))
	}
}
