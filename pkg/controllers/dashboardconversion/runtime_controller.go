package dashboardconversion

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/event"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
	"sigs.k8s.io/controller-runtime/pkg/source"

	"dashboardconversion/pkg/adapters"
	"dashboardconversion/pkg/core"
	"dashboardconversion/pkg/health"
	observabilitymetrics "dashboardconversion/pkg/observability/metrics"
)

// ConfigMapController feeds source ConfigMap events into the Converter
// through a controller-runtime manager. The workqueue serializes events per
// source identity, which also serializes writes per target dashboard since
// target names are derived from the source.
type ConfigMapController struct {
	client.Client
	logger        logr.Logger
	converter     *Converter
	eventEmitter  *adapters.EventEmitter
	eventRecorder record.EventRecorder
	healthState   *health.State
	resync        time.Duration
}

var _ reconcile.Reconciler = &ConfigMapController{}

// NewController constructs a ConfigMapController wired with the manager's client.
func NewController(manager ctrl.Manager, settings core.Settings, healthState *health.State) *ConfigMapController {
	kubeClient := adapters.NewControllerRuntimeClient(manager.GetClient())
	logger := ctrl.Log.WithName("controllers").WithName("DashboardConversion")
	recorder := manager.GetEventRecorderFor("grafana-dashboard-converter")

	return &ConfigMapController{
		Client:        manager.GetClient(),
		logger:        logger,
		converter:     NewConverter(kubeClient, settings, logger),
		eventEmitter:  adapters.NewEventEmitter(recorder),
		eventRecorder: recorder,
		healthState:   healthState,
		resync:        settings.ResyncInterval,
	}
}

// Reconcile runs one conversion pass for a source ConfigMap.
func (configMapController *ConfigMapController) Reconcile(requestContext context.Context, reconcileRequest ctrl.Request) (ctrl.Result, error) {
	requestLogger := configMapController.logger.WithValues("configmap", reconcileRequest.NamespacedName)

	start := time.Now()
	result, conversionSummary, err := configMapController.converter.Convert(requestContext, Key{
		Namespace: reconcileRequest.Namespace,
		Name:      reconcileRequest.Name,
	})
	duration := time.Since(start)

	observabilitymetrics.RecordConversion(result, duration, err)
	configMapController.healthState.RecordPass(err)

	var sourceConfigMap corev1.ConfigMap
	sourceExists := true

	if getErr := configMapController.Get(requestContext, reconcileRequest.NamespacedName, &sourceConfigMap); getErr != nil {
		if !apierrors.IsNotFound(getErr) && err == nil {
			return ctrl.Result{}, getErr
		}

		sourceExists = false
	}

	if err != nil {
		requestLogger.Error(err, "conversion pass failed")

		if sourceExists {
			configMapController.eventEmitter.EmitError(&sourceConfigMap, err)
		}

		return ctrl.Result{}, err
	}

	if sourceExists {
		configMapController.eventEmitter.EmitSummary(&sourceConfigMap, conversionSummary)

		// Periodic per-source resync keeps reference-mode targets refreshed
		// and re-runs the idempotent diff for full mode.
		return ctrl.Result{RequeueAfter: configMapController.resync}, nil
	}

	return ctrl.Result{}, nil
}

// SetupWithManager registers the controller and the resync sweeper with the
// provided manager. The sweeper never converts directly; it replays managed
// sources through the controller's workqueue so every pass for one source
// identity stays serialized.
func SetupWithManager(manager ctrl.Manager, settings core.Settings, healthState *health.State) error {
	configMapController := NewController(manager, settings, healthState)

	if err := manager.Add(&watchLivenessRunner{
		manager:     manager,
		healthState: healthState,
	}); err != nil {
		return err
	}

	resyncEvents := make(chan event.GenericEvent)

	if err := manager.Add(&resyncRunner{
		converter:   configMapController.converter,
		healthState: healthState,
		interval:    settings.ResyncInterval,
		logger:      configMapController.logger.WithName("resync"),
		events:      resyncEvents,
	}); err != nil {
		return err
	}

	return ctrl.NewControllerManagedBy(manager).
		WithOptions(controller.Options{MaxConcurrentReconciles: 1}).
		For(&corev1.ConfigMap{}, builder.WithPredicates(discoveryPredicate())).
		WatchesRawSource(&source.Channel{Source: resyncEvents}, &handler.EnqueueRequestForObject{}).
		Complete(configMapController)
}

// discoveryPredicate admits ConfigMaps that carry the discovery label now or
// carried it before the event, so unlabeled sources still get their
// dashboards collected. Everything else is filtered before it reaches the
// workqueue.
func discoveryPredicate() predicate.Predicate {
	hasDiscoveryLabel := func(object client.Object) bool {
		if object == nil {
			return false
		}

		return object.GetLabels()[core.DiscoveryLabel] == core.DiscoveryLabelValue
	}

	return predicate.Funcs{
		CreateFunc: func(createEvent event.CreateEvent) bool {
			return hasDiscoveryLabel(createEvent.Object)
		},
		UpdateFunc: func(updateEvent event.UpdateEvent) bool {
			return hasDiscoveryLabel(updateEvent.ObjectOld) || hasDiscoveryLabel(updateEvent.ObjectNew)
		},
		DeleteFunc: func(deleteEvent event.DeleteEvent) bool {
			return hasDiscoveryLabel(deleteEvent.Object)
		},
		GenericFunc: func(genericEvent event.GenericEvent) bool {
			return hasDiscoveryLabel(genericEvent.Object)
		},
	}
}

// resyncRunner periodically enqueues every source that still has managed
// dashboards, so orphans whose delete or unlabel event was missed get
// collected by the regular reconcile path.
type resyncRunner struct {
	converter   *Converter
	healthState *health.State
	interval    time.Duration
	logger      logr.Logger
	events      chan event.GenericEvent
}

// Start runs the sweep loop until the manager shuts down.
func (runner *resyncRunner) Start(ctx context.Context) error {
	ticker := time.NewTicker(runner.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sources, err := runner.converter.ManagedSources(ctx)
			if err != nil {
				runner.logger.Error(err, "garbage collection sweep failed")
				runner.healthState.RecordPass(err)
				continue
			}

			for _, sourceKey := range sources {
				stub := &corev1.ConfigMap{}
				stub.Namespace = sourceKey.Namespace
				stub.Name = sourceKey.Name

				select {
				case <-ctx.Done():
					return nil
				case runner.events <- event.GenericEvent{Object: stub}:
				}
			}

			runner.logger.V(1).Info("garbage collection sweep enqueued", "sources", len(sources))
		}
	}
}

// NeedLeaderElection ties the sweeper to the elected manager so only one
// replica mutates dashboards.
func (runner *resyncRunner) NeedLeaderElection() bool { return true }

// watchLivenessRunner flips the watch-alive health signal once the informer
// cache has synced, on every replica regardless of leadership.
type watchLivenessRunner struct {
	manager     ctrl.Manager
	healthState *health.State
}

// Start marks the watch alive after cache sync and clears it on shutdown.
func (runner *watchLivenessRunner) Start(ctx context.Context) error {
	if !runner.manager.GetCache().WaitForCacheSync(ctx) {
		return ctx.Err()
	}

	runner.healthState.SetWatchAlive(true)
	defer runner.healthState.SetWatchAlive(false)

	<-ctx.Done()
	return nil
}

// NeedLeaderElection lets the liveness signal run on standby replicas too.
func (runner *watchLivenessRunner) NeedLeaderElection() bool { return false }
