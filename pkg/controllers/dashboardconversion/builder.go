package dashboardconversion

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	v1beta1 "dashboardconversion/pkg/api/v1beta1"
	"dashboardconversion/pkg/core"
)

// buildDashboard produces the complete desired GrafanaDashboard for one
// document. The spec shape follows the configured mode exactly: full mode
// embeds the document, reference mode points back at the source ConfigMap,
// and the two shapes never mix.
func buildDashboard(namespace, sourceName, targetName, folder string, document core.Document, settings core.Settings) *v1beta1.GrafanaDashboard {
	dashboard := &v1beta1.GrafanaDashboard{
		ObjectMeta: metav1.ObjectMeta{
			Namespace: namespace,
			Name:      targetName,
			Labels: map[string]string{
				core.ManagedByLabel:  core.ManagedByLabelValue,
				core.SourceNameLabel: sourceName,
				core.SourceKeyLabel:  document.Key,
				core.ModeLabel:       settings.Mode,
			},
			Annotations: map[string]string{
				core.ContentHashAnnotation: core.HashContent(document.JSON),
			},
		},
		Spec: v1beta1.GrafanaDashboardSpec{
			InstanceSelector: &metav1.LabelSelector{
				MatchLabels: settings.InstanceSelector,
			},
			AllowCrossNamespaceImport: settings.AllowCrossNamespaceImport,
			FolderTitle:               folder,
		},
	}

	if settings.Mode == core.ModeReference {
		dashboard.Spec.ConfigMapRef = &v1beta1.ConfigMapSourceRef{Name: sourceName, Key: document.Key}
		dashboard.Spec.ResyncPeriod = settings.ResyncInterval.String()
		return dashboard
	}

	dashboard.Spec.Json = document.JSON
	return dashboard
}

// specMode infers the representation a dashboard spec actually carries, used
// to detect resources whose mode label disagrees with their shape.
func specMode(spec v1beta1.GrafanaDashboardSpec) string {
	if spec.ConfigMapRef != nil {
		return core.ModeReference
	}

	return core.ModeFull
}
