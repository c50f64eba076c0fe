package adapters

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"dashboardconversion/pkg/agents/summary"
)

// EventEmitter wraps a Kubernetes EventRecorder to provide high level helpers.
// Events are recorded against the source ConfigMap so dashboard owners see
// conversion outcomes in their own namespace.
type EventEmitter struct {
	recorder record.EventRecorder
}

// NewEventEmitter constructs an EventEmitter.
func NewEventEmitter(r record.EventRecorder) *EventEmitter {
	return &EventEmitter{recorder: r}
}

// EmitSummary emits events for each action in the summary.
func (e *EventEmitter) EmitSummary(obj client.Object, sum *summary.Summary) {
	if e == nil || e.recorder == nil || obj == nil || sum == nil {
		return
	}
	for _, action := range sum.Actions {
		switch action.Action {
		case summary.ActionCreated:
			e.recorder.Eventf(obj, corev1.EventTypeNormal, "DashboardCreated", "Created GrafanaDashboard %s from key %s", action.Dashboard, action.Key)
		case summary.ActionUpdated:
			e.recorder.Eventf(obj, corev1.EventTypeNormal, "DashboardUpdated", "Updated GrafanaDashboard %s from key %s", action.Dashboard, action.Key)
		case summary.ActionMigrated:
			e.recorder.Eventf(obj, corev1.EventTypeNormal, "DashboardMigrated", "Recreated GrafanaDashboard %s in the configured mode", action.Dashboard)
		case summary.ActionPruned:
			e.recorder.Eventf(obj, corev1.EventTypeNormal, "DashboardPruned", "Deleted GrafanaDashboard %s (%s)", action.Dashboard, action.Reason)
		case summary.ActionSkipped:
			if action.Reason == summary.ReasonAlreadyConverted {
				continue
			}
			e.recorder.Eventf(obj, corev1.EventTypeWarning, "DashboardSkipped", "Skipped key %s: %s", action.Key, action.Reason)
		}
	}
}

// EmitError emits a warning event for conversion errors.
func (e *EventEmitter) EmitError(obj client.Object, err error) {
	if e == nil || e.recorder == nil || obj == nil || err == nil {
		return
	}
	e.recorder.Eventf(obj, corev1.EventTypeWarning, "ConversionError", "Conversion failed: %v", err)
}
