package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Document is one dashboard extracted from a source ConfigMap key. Documents
// are derived transiently during reconciliation and never persisted.
type Document struct {
	// Key is the ConfigMap data key the document came from.
	Key string
	// JSON is the raw dashboard text, passed through unmodified.
	JSON string
	// Title is extracted best-effort for logging and events.
	Title string
}

// KeyError records a per-key validation failure. Failures never abort the
// siblings of the same ConfigMap.
type KeyError struct {
	Key string
	Err error
}

// ParseDocuments extracts dashboard documents from a ConfigMap payload.
// Keys are processed in sorted order so downstream naming decisions are
// deterministic. Keys without the dashboard suffix are ignored entirely;
// candidate keys that fail validation are reported in the second return
// value and skipped.
func ParseDocuments(data map[string]string) ([]Document, []KeyError) {
	keys := make([]string, 0, len(data))
	for key := range data {
		if strings.HasSuffix(key, DashboardKeySuffix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var documents []Document
	var failures []KeyError

	for _, key := range keys {
		title, err := validateDashboard(data[key])
		if err != nil {
			failures = append(failures, KeyError{Key: key, Err: err})
			continue
		}

		documents = append(documents, Document{Key: key, JSON: data[key], Title: title})
	}

	return documents, failures
}

// validateDashboard checks the structural rules for a single dashboard and
// returns the extracted title. Both the wrapped form {"dashboard": {...}} and
// the direct form {"title": ...} are accepted.
func validateDashboard(raw string) (string, error) {
	var parsed map[string]json.RawMessage

	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	body := parsed

	if wrapped, ok := parsed["dashboard"]; ok {
		if err := json.Unmarshal(wrapped, &body); err != nil {
			return "", fmt.Errorf("dashboard key must be an object: %w", err)
		}
	}

	title, err := requireTitle(body)
	if err != nil {
		return "", err
	}

	if raw, ok := body["schemaVersion"]; ok {
		var schemaVersion float64
		if err := json.Unmarshal(raw, &schemaVersion); err != nil {
			return "", fmt.Errorf("schemaVersion must be a number")
		}
	}

	if raw, ok := body["panels"]; ok {
		var panels []json.RawMessage
		if err := json.Unmarshal(raw, &panels); err != nil {
			return "", fmt.Errorf("panels must be an array")
		}
		if len(panels) > 1000 {
			return "", fmt.Errorf("dashboard cannot have more than 1000 panels")
		}
	}

	if raw, ok := body["refresh"]; ok {
		var refresh string
		if err := json.Unmarshal(raw, &refresh); err != nil {
			return "", fmt.Errorf("refresh must be a string")
		}
		if len(refresh) > 50 {
			return "", fmt.Errorf("refresh value is too long")
		}
	}

	if raw, ok := body["tags"]; ok {
		var tags []string
		if err := json.Unmarshal(raw, &tags); err != nil {
			return "", fmt.Errorf("tags must be an array of strings")
		}
		if len(tags) > 50 {
			return "", fmt.Errorf("dashboard cannot have more than 50 tags")
		}
		for _, tag := range tags {
			if len(tag) > 50 {
				return "", fmt.Errorf("dashboard tag is too long: %q", tag)
			}
		}
	}

	return title, nil
}

func requireTitle(body map[string]json.RawMessage) (string, error) {
	raw, ok := body["title"]
	if !ok {
		return "", fmt.Errorf("dashboard must have a title")
	}

	var title string

	if err := json.Unmarshal(raw, &title); err != nil {
		return "", fmt.Errorf("title must be a string")
	}

	if title == "" {
		return "", fmt.Errorf("title must not be empty")
	}

	if len(title) > 200 {
		return "", fmt.Errorf("title must be 200 characters or less")
	}

	return title, nil
}
