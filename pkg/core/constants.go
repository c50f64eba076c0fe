package core

// Discovery metadata on source ConfigMaps. These names are the public contract
// teams use to opt dashboards into conversion, so they stay underscore-style.
const (
	DiscoveryLabel      = "grafana_dashboard"
	DiscoveryLabelValue = "1"
	FolderLabel         = "grafana_folder"
)

// Managed metadata on created GrafanaDashboard resources
const (
	ManagedByLabel      = "app.kubernetes.io/managed-by"
	ManagedByLabelValue = "grafana-dashboard-converter"

	SourceNameLabel = "dashboardconverter.platform.example.com/source-name"
	SourceKeyLabel  = "dashboardconverter.platform.example.com/source-key"
	ModeLabel       = "dashboardconverter.platform.example.com/mode"

	ContentHashAnnotation = "dashboardconverter.platform.example.com/content-hash"
)

// Conversion mode enums, recorded verbatim in the ModeLabel.
const (
	ModeFull      = "full"
	ModeReference = "reference"
)

// DashboardKeySuffix is the only payload key suffix considered a dashboard candidate.
const DashboardKeySuffix = ".json"
