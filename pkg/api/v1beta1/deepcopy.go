package v1beta1

import (
	"k8s.io/apimachinery/pkg/runtime"
)

var _ runtime.Object = &GrafanaDashboard{}
var _ runtime.Object = &GrafanaDashboardList{}

// DeepCopyInto copies the receiver into out.
func (grafanaDashboard *GrafanaDashboard) DeepCopyInto(out *GrafanaDashboard) {
	if grafanaDashboard == nil || out == nil {
		return
	}
	*out = *grafanaDashboard
	grafanaDashboard.ObjectMeta.DeepCopyInto(&out.ObjectMeta)

	out.Spec = deepCopySpec(&grafanaDashboard.Spec)
	out.Status = grafanaDashboard.Status
}

// DeepCopy creates a new deep copy of the receiver.
func (grafanaDashboard *GrafanaDashboard) DeepCopy() *GrafanaDashboard {
	if grafanaDashboard == nil {
		return nil
	}

	out := new(GrafanaDashboard)

	grafanaDashboard.DeepCopyInto(out)
	return out
}

// DeepCopyObject returns a deep copy as a runtime.Object.
func (grafanaDashboard *GrafanaDashboard) DeepCopyObject() runtime.Object {
	if grafanaDashboard == nil {
		return nil
	}

	return grafanaDashboard.DeepCopy()
}

// DeepCopyInto copies the receiver into out.
func (grafanaDashboardList *GrafanaDashboardList) DeepCopyInto(out *GrafanaDashboardList) {
	if grafanaDashboardList == nil || out == nil {
		return
	}
	*out = *grafanaDashboardList
	grafanaDashboardList.ListMeta.DeepCopyInto(&out.ListMeta)

	if grafanaDashboardList.Items != nil {
		out.Items = make([]GrafanaDashboard, len(grafanaDashboardList.Items))

		for index := range grafanaDashboardList.Items {
			grafanaDashboardList.Items[index].DeepCopyInto(&out.Items[index])
		}
	}
}

// DeepCopy creates a new deep copy of the list.
func (grafanaDashboardList *GrafanaDashboardList) DeepCopy() *GrafanaDashboardList {
	if grafanaDashboardList == nil {
		return nil
	}

	out := new(GrafanaDashboardList)

	grafanaDashboardList.DeepCopyInto(out)
	return out
}

// DeepCopyObject returns a deep copy of the list as a runtime.Object.
func (grafanaDashboardList *GrafanaDashboardList) DeepCopyObject() runtime.Object {
	if grafanaDashboardList == nil {
		return nil
	}

	return grafanaDashboardList.DeepCopy()
}

func deepCopySpec(source *GrafanaDashboardSpec) GrafanaDashboardSpec {
	if source == nil {
		return GrafanaDashboardSpec{}
	}
	copiedSpec := *source

	if source.ConfigMapRef != nil {
		refCopy := *source.ConfigMapRef
		copiedSpec.ConfigMapRef = &refCopy
	} else {
		copiedSpec.ConfigMapRef = nil
	}

	if source.InstanceSelector != nil {
		copiedSpec.InstanceSelector = source.InstanceSelector.DeepCopy()
	} else {
		copiedSpec.InstanceSelector = nil
	}

	return copiedSpec
}
