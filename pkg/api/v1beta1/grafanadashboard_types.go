package v1beta1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ConfigMapSourceRef points a dashboard at a key inside a ConfigMap instead of
// embedding the content. It is the reference-mode counterpart of the Json field.
type ConfigMapSourceRef struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// GrafanaDashboardSpec defines the desired state of a converted dashboard.
// Exactly one of Json or ConfigMapRef is set; the two representations never mix.
type GrafanaDashboardSpec struct {
	// Json holds the dashboard model verbatim (full mode).
	Json string `json:"json,omitempty"`

	// ConfigMapRef points at the source ConfigMap key (reference mode).
	ConfigMapRef *ConfigMapSourceRef `json:"configMapRef,omitempty"`

	// ResyncPeriod tells the Grafana operator how often to re-read a referenced
	// source. Only meaningful in reference mode.
	ResyncPeriod string `json:"resyncPeriod,omitempty"`

	// InstanceSelector chooses which Grafana instances pick up the dashboard.
	InstanceSelector *metav1.LabelSelector `json:"instanceSelector"`

	// AllowCrossNamespaceImport lets Grafana instances in other namespaces
	// import this dashboard.
	AllowCrossNamespaceImport bool `json:"allowCrossNamespaceImport,omitempty"`

	// FolderTitle places the dashboard into a named Grafana folder.
	FolderTitle string `json:"folder,omitempty"`
}

// GrafanaDashboardStatus reports what the Grafana operator observed. This
// controller never writes it.
type GrafanaDashboardStatus struct {
	Hash string `json:"hash,omitempty"`
	UID  string `json:"uid,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced

// GrafanaDashboard is the custom resource consumed by the Grafana operator.
type GrafanaDashboard struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   GrafanaDashboardSpec   `json:"spec,omitempty"`
	Status GrafanaDashboardStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// GrafanaDashboardList contains a list of GrafanaDashboard.
type GrafanaDashboardList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []GrafanaDashboard `json:"items"`
}

func init() {
	SchemeBuilder.Register(&GrafanaDashboard{}, &GrafanaDashboardList{})
}
