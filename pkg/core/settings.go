package core

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variable names understood by LoadSettings.
const (
	EnvNamespace                 = "NAMESPACE"
	EnvWatchAllNamespaces        = "WATCH_ALL_NAMESPACES"
	EnvInstanceSelector          = "GRAFANA_INSTANCE_SELECTOR"
	EnvConversionMode            = "CONVERSION_MODE"
	EnvAllowCrossNamespaceImport = "ALLOW_CROSS_NAMESPACE_IMPORT"
	EnvResyncInterval            = "RESYNC_INTERVAL"
)

// DefaultNamespace is watched when no namespace is configured and the
// all-namespaces flag is off.
const DefaultNamespace = "default"

// DefaultInstanceSelector is applied when no selector is configured.
var DefaultInstanceSelector = map[string]string{"dashboards": "grafana"}

// Settings is the immutable configuration value threaded into every component
// at construction time. Nothing reads ambient process state after startup.
type Settings struct {
	// Namespace scopes the watch to a single namespace. Ignored when
	// WatchAllNamespaces is set.
	Namespace          string
	WatchAllNamespaces bool

	// Mode selects the target representation: ModeFull embeds dashboard
	// content, ModeReference points back at the source ConfigMap.
	Mode string

	// InstanceSelector is copied verbatim into every created dashboard's
	// instanceSelector matchLabels.
	InstanceSelector map[string]string

	AllowCrossNamespaceImport bool

	// ResyncInterval drives both the periodic garbage-collection sweep and,
	// in reference mode, the resyncPeriod written into the dashboard spec.
	ResyncInterval time.Duration
}

// ValidateSettings enforces basic guardrails before the controller starts.
func ValidateSettings(settings *Settings) error {
	if settings == nil {
		return fmt.Errorf("settings are required")
	}

	if settings.Mode != ModeFull && settings.Mode != ModeReference {
		return fmt.Errorf("invalid conversion mode: %s", settings.Mode)
	}

	if !settings.WatchAllNamespaces && settings.Namespace == "" {
		return fmt.Errorf("namespace is required unless watching all namespaces")
	}

	if settings.ResyncInterval < 10*time.Second {
		return fmt.Errorf("resync interval must be >= 10s")
	}

	return nil
}

// DefaultSettings fills unset fields with safe defaults.
func DefaultSettings(settings *Settings) {
	if settings.Mode == "" {
		settings.Mode = ModeFull
	}

	if !settings.WatchAllNamespaces && settings.Namespace == "" {
		settings.Namespace = DefaultNamespace
	}

	if len(settings.InstanceSelector) == 0 {
		settings.InstanceSelector = copySelector(DefaultInstanceSelector)
	}

	if settings.ResyncInterval == 0 {
		settings.ResyncInterval = 5 * time.Minute
	}
}

// LoadSettings builds Settings from the process environment, then defaults and
// validates them. Parse failures on optional values fall back to defaults;
// only structurally invalid settings produce an error.
func LoadSettings() (Settings, error) {
	settings := Settings{
		Namespace: os.Getenv(EnvNamespace),
		Mode:      os.Getenv(EnvConversionMode),
	}

	if raw := os.Getenv(EnvWatchAllNamespaces); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid %s: %w", EnvWatchAllNamespaces, err)
		}
		settings.WatchAllNamespaces = parsed
	}

	if raw := os.Getenv(EnvAllowCrossNamespaceImport); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid %s: %w", EnvAllowCrossNamespaceImport, err)
		}
		settings.AllowCrossNamespaceImport = parsed
	}

	if raw := os.Getenv(EnvResyncInterval); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid %s: %w", EnvResyncInterval, err)
		}
		settings.ResyncInterval = parsed
	}

	if raw := os.Getenv(EnvInstanceSelector); raw != "" {
		selector, err := parseInstanceSelector(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid %s: %w", EnvInstanceSelector, err)
		}
		settings.InstanceSelector = selector
	}

	DefaultSettings(&settings)

	if err := ValidateSettings(&settings); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

// parseInstanceSelector accepts either a bare matchLabels map or the wrapped
// {"matchLabels": {...}} form the original deployment manifests used.
func parseInstanceSelector(raw string) (map[string]string, error) {
	var wrapped struct {
		MatchLabels map[string]string `json:"matchLabels"`
	}

	if err := json.Unmarshal([]byte(raw), &wrapped); err == nil && len(wrapped.MatchLabels) > 0 {
		return wrapped.MatchLabels, nil
	}

	var flat map[string]string

	if err := json.Unmarshal([]byte(raw), &flat); err != nil {
		return nil, err
	}

	if len(flat) == 0 {
		return nil, fmt.Errorf("selector must contain at least one label")
	}

	return flat, nil
}

func copySelector(selector map[string]string) map[string]string {
	out := make(map[string]string, len(selector))
	for key, value := range selector {
		out[key] = value
	}
	return out
}
