package adapters

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	v1beta1 "dashboardconversion/pkg/api/v1beta1"
	"dashboardconversion/pkg/core"
)

type controllerRuntimeClient struct {
	client client.Client
}

// NewControllerRuntimeClient returns a KubeClient backed by a controller-runtime client.Client.
func NewControllerRuntimeClient(kubeClient client.Client) KubeClient {
	return &controllerRuntimeClient{client: kubeClient}
}

// GetSourceConfigMap retrieves the payload and labels of a source ConfigMap.
func (clientAdapter *controllerRuntimeClient) GetSourceConfigMap(ctx context.Context, namespace, name string) (map[string]string, map[string]string, bool, error) {
	var configMap corev1.ConfigMap

	if err := clientAdapter.client.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, &configMap); err != nil {
		if apierrors.IsNotFound(err) {
			return nil, nil, false, nil
		}

		return nil, nil, false, err
	}

	return copyStringMap(configMap.Data), copyStringMap(configMap.Labels), true, nil
}

// GetDashboard returns an existing GrafanaDashboard and whether it was found.
func (clientAdapter *controllerRuntimeClient) GetDashboard(ctx context.Context, namespace, name string) (*v1beta1.GrafanaDashboard, bool, error) {
	var dashboard v1beta1.GrafanaDashboard

	if err := clientAdapter.client.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, &dashboard); err != nil {
		if apierrors.IsNotFound(err) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return &dashboard, true, nil
}

// CreateDashboard creates a new GrafanaDashboard resource.
func (clientAdapter *controllerRuntimeClient) CreateDashboard(ctx context.Context, dashboard *v1beta1.GrafanaDashboard) error {
	return clientAdapter.client.Create(ctx, dashboard)
}

// UpdateDashboard rewrites the spec and managed metadata of an existing dashboard.
func (clientAdapter *controllerRuntimeClient) UpdateDashboard(ctx context.Context, dashboard *v1beta1.GrafanaDashboard) error {
	var existing v1beta1.GrafanaDashboard

	key := types.NamespacedName{Namespace: dashboard.Namespace, Name: dashboard.Name}

	if err := clientAdapter.client.Get(ctx, key, &existing); err != nil {
		return err
	}

	existing.Labels = copyStringMap(dashboard.Labels)
	existing.Annotations = copyStringMap(dashboard.Annotations)
	existing.Spec = dashboard.Spec

	return clientAdapter.client.Update(ctx, &existing)
}

// DeleteDashboard removes a dashboard, ignoring not found errors.
func (clientAdapter *controllerRuntimeClient) DeleteDashboard(ctx context.Context, namespace, name string) error {
	dashboard := v1beta1.GrafanaDashboard{ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name}}

	return client.IgnoreNotFound(clientAdapter.client.Delete(ctx, &dashboard))
}

// ListManagedDashboards enumerates dashboards owned by this converter,
// optionally narrowed to those tracking one source ConfigMap.
func (clientAdapter *controllerRuntimeClient) ListManagedDashboards(ctx context.Context, namespace, sourceName string) ([]v1beta1.GrafanaDashboard, error) {
	matching := client.MatchingLabels{core.ManagedByLabel: core.ManagedByLabelValue}
	if sourceName != "" {
		matching[core.SourceNameLabel] = sourceName
	}

	options := []client.ListOption{matching}
	if namespace != "" {
		options = append(options, client.InNamespace(namespace))
	}

	var dashboardList v1beta1.GrafanaDashboardList

	if err := clientAdapter.client.List(ctx, &dashboardList, options...); err != nil {
		return nil, err
	}

	return dashboardList.Items, nil
}

func copyStringMap(source map[string]string) map[string]string {
	if source == nil {
		return nil
	}

	out := make(map[string]string, len(source))

	for key, value := range source {
		out[key] = value
	}

	return out
}
