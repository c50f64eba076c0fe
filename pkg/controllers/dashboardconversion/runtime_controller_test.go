package dashboardconversion

import (
	"context"
	"testing"
	"time"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/event"

	"dashboardconversion/pkg/core"
	"dashboardconversion/pkg/health"
)

func TestResyncRunnerEnqueuesInsteadOfConverting(t *testing.T) {
	client := newFakeKubeClient()
	client.setConfigMap("monitoring", "alive", map[string]string{"dashboard.json": `{"title": "Alive"}`}, discoveryLabels(nil))
	client.setConfigMap("monitoring", "doomed", map[string]string{"dashboard.json": `{"title": "Doomed"}`}, discoveryLabels(nil))

	converter := newTestConverter(client, testSettings(core.ModeFull))

	for _, name := range []string{"alive", "doomed"} {
		if _, _, err := converter.Convert(context.Background(), Key{Namespace: "monitoring", Name: name}); err != nil {
			t.Fatalf("convert %s: %v", name, err)
		}
	}

	client.removeConfigMap("monitoring", "doomed")
	writesBefore := client.writeCount()

	events := make(chan event.GenericEvent)
	runner := &resyncRunner{
		converter:   converter,
		healthState: health.NewState(),
		interval:    time.Millisecond,
		logger:      logr.Discard(),
		events:      events,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = runner.Start(ctx)
	}()

	seen := map[string]bool{}
	deadline := time.After(5 * time.Second)

	for len(seen) < 2 {
		select {
		case emitted := <-events:
			seen[emitted.Object.GetNamespace()+"/"+emitted.Object.GetName()] = true
		case <-deadline:
			t.Fatalf("timed out waiting for resync events, saw %v", seen)
		}
	}

	cancel()
	<-done

	if !seen["monitoring/alive"] || !seen["monitoring/doomed"] {
		t.Fatalf("expected both sources enqueued, saw %v", seen)
	}

	// The runner only enqueues; conversion stays on the reconcile path.
	if client.writeCount() != writesBefore {
		t.Fatalf("resync runner must not write directly, ops: %v", client.ops)
	}
	if _, exists := client.dashboards["monitoring/doomed"]; !exists {
		t.Fatalf("pruning must wait for the reconcile pass")
	}
}

func TestDiscoveryPredicateAdmitsLabelTransitions(t *testing.T) {
	labeled := &corev1.ConfigMap{}
	labeled.Labels = map[string]string{core.DiscoveryLabel: core.DiscoveryLabelValue}
	unlabeled := &corev1.ConfigMap{}

	admit := discoveryPredicate()

	if !admit.Create(event.CreateEvent{Object: labeled}) {
		t.Fatalf("labeled create must be admitted")
	}
	if admit.Create(event.CreateEvent{Object: unlabeled}) {
		t.Fatalf("unlabeled create must be filtered")
	}

	// An unlabel event carries the label only on the old object; it must
	// still reach the reconciler so the dashboards get collected.
	if !admit.Update(event.UpdateEvent{ObjectOld: labeled, ObjectNew: unlabeled}) {
		t.Fatalf("unlabel update must be admitted")
	}
	if admit.Update(event.UpdateEvent{ObjectOld: unlabeled, ObjectNew: unlabeled}) {
		t.Fatalf("unrelated update must be filtered")
	}

	if !admit.Delete(event.DeleteEvent{Object: labeled}) {
		t.Fatalf("labeled delete must be admitted")
	}
	if admit.Generic(event.GenericEvent{Object: unlabeled}) {
		t.Fatalf("unlabeled generic event must be filtered")
	}
}
