package dashboardconversion

import (
	"context"
	"fmt"

	v1beta1 "dashboardconversion/pkg/api/v1beta1"
	"dashboardconversion/pkg/core"
)

// fakeKubeClient is an in-memory adapters.KubeClient recording every write
// for verification.
type fakeKubeClient struct {
	// namespace/name -> payload and labels
	configMapData   map[string]map[string]string
	configMapLabels map[string]map[string]string

	// namespace/name -> dashboard
	dashboards map[string]*v1beta1.GrafanaDashboard

	// lingerAfterDelete makes Get keep reporting a deleted dashboard for N
	// further calls, simulating an object stuck terminating.
	lingerAfterDelete map[string]int
	lingering         map[string]int

	// ops is the ordered write log: "create ns/name", "update ns/name", "delete ns/name".
	ops []string
}

func newFakeKubeClient() *fakeKubeClient {
	return &fakeKubeClient{
		configMapData:     map[string]map[string]string{},
		configMapLabels:   map[string]map[string]string{},
		dashboards:        map[string]*v1beta1.GrafanaDashboard{},
		lingerAfterDelete: map[string]int{},
		lingering:         map[string]int{},
	}
}

func objectKey(namespace, name string) string { return namespace + "/" + name }

func (f *fakeKubeClient) setConfigMap(namespace, name string, data, labels map[string]string) {
	f.configMapData[objectKey(namespace, name)] = data
	f.configMapLabels[objectKey(namespace, name)] = labels
}

func (f *fakeKubeClient) removeConfigMap(namespace, name string) {
	delete(f.configMapData, objectKey(namespace, name))
	delete(f.configMapLabels, objectKey(namespace, name))
}

func (f *fakeKubeClient) writeCount() int { return len(f.ops) }

func (f *fakeKubeClient) GetSourceConfigMap(_ context.Context, namespace, name string) (map[string]string, map[string]string, bool, error) {
	data, ok := f.configMapData[objectKey(namespace, name)]
	if !ok {
		return nil, nil, false, nil
	}
	return data, f.configMapLabels[objectKey(namespace, name)], true, nil
}

func (f *fakeKubeClient) GetDashboard(_ context.Context, namespace, name string) (*v1beta1.GrafanaDashboard, bool, error) {
	key := objectKey(namespace, name)

	if remaining, ok := f.lingering[key]; ok && remaining > 0 {
		f.lingering[key] = remaining - 1
		return &v1beta1.GrafanaDashboard{}, true, nil
	}

	dashboard, ok := f.dashboards[key]
	if !ok {
		return nil, false, nil
	}
	return dashboard.DeepCopy(), true, nil
}

func (f *fakeKubeClient) CreateDashboard(_ context.Context, dashboard *v1beta1.GrafanaDashboard) error {
	key := objectKey(dashboard.Namespace, dashboard.Name)
	if _, exists := f.dashboards[key]; exists {
		return fmt.Errorf("dashboard %s already exists", key)
	}
	f.dashboards[key] = dashboard.DeepCopy()
	f.ops = append(f.ops, "create "+key)
	return nil
}

func (f *fakeKubeClient) UpdateDashboard(_ context.Context, dashboard *v1beta1.GrafanaDashboard) error {
	key := objectKey(dashboard.Namespace, dashboard.Name)
	if _, exists := f.dashboards[key]; !exists {
		return fmt.Errorf("dashboard %s does not exist", key)
	}
	f.dashboards[key] = dashboard.DeepCopy()
	f.ops = append(f.ops, "update "+key)
	return nil
}

func (f *fakeKubeClient) DeleteDashboard(_ context.Context, namespace, name string) error {
	key := objectKey(namespace, name)
	if _, exists := f.dashboards[key]; exists {
		delete(f.dashboards, key)
		f.ops = append(f.ops, "delete "+key)

		if linger := f.lingerAfterDelete[key]; linger > 0 {
			f.lingering[key] = linger
		}
	}
	return nil
}

func (f *fakeKubeClient) ListManagedDashboards(_ context.Context, namespace, sourceName string) ([]v1beta1.GrafanaDashboard, error) {
	var out []v1beta1.GrafanaDashboard

	for _, dashboard := range f.dashboards {
		if dashboard.Labels[core.ManagedByLabel] != core.ManagedByLabelValue {
			continue
		}
		if namespace != "" && dashboard.Namespace != namespace {
			continue
		}
		if sourceName != "" && dashboard.Labels[core.SourceNameLabel] != sourceName {
			continue
		}
		out = append(out, *dashboard.DeepCopy())
	}

	return out, nil
}
