package adapters

import (
	"context"

	v1beta1 "dashboardconversion/pkg/api/v1beta1"
)

// KubeClient is the narrow API surface the converter needs: read source
// ConfigMaps, and create/update/delete/list the GrafanaDashboard resources it
// owns. Implementations must never touch dashboards lacking the managed label.
type KubeClient interface {
	// GetSourceConfigMap returns the payload and labels of a source ConfigMap,
	// with found=false (and nil error) when it does not exist.
	GetSourceConfigMap(ctx context.Context, namespace, name string) (data map[string]string, labels map[string]string, found bool, err error)

	// GetDashboard returns a managed dashboard, with found=false (and nil
	// error) when it does not exist.
	GetDashboard(ctx context.Context, namespace, name string) (*v1beta1.GrafanaDashboard, bool, error)

	CreateDashboard(ctx context.Context, dashboard *v1beta1.GrafanaDashboard) error

	// UpdateDashboard replaces the full spec and metadata of an existing dashboard.
	UpdateDashboard(ctx context.Context, dashboard *v1beta1.GrafanaDashboard) error

	// DeleteDashboard removes a dashboard, ignoring not-found.
	DeleteDashboard(ctx context.Context, namespace, name string) error

	// ListManagedDashboards enumerates dashboards carrying the managed-by
	// label. A non-empty sourceName narrows the list to dashboards tracking
	// that source ConfigMap. An empty namespace lists across all namespaces.
	ListManagedDashboards(ctx context.Context, namespace, sourceName string) ([]v1beta1.GrafanaDashboard, error)
}
