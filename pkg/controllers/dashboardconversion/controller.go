package dashboardconversion

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"dashboardconversion/pkg/adapters"
	"dashboardconversion/pkg/agents/summary"
	v1beta1 "dashboardconversion/pkg/api/v1beta1"
	"dashboardconversion/pkg/core"
)

// Key identifies a source ConfigMap by namespace/name.
type Key struct {
	Namespace string
	Name      string
}

// Converter holds the conversion state machine. It is independent of
// controller-runtime so the full state machine is exercisable against a fake
// client; the runtime glue lives in runtime_controller.go.
type Converter struct {
	clientAdapter adapters.KubeClient
	settings      core.Settings
	selector      core.Selector
	backoff       core.BackoffStrategy
	workQueue     *core.WorkQueue[Key]
	logger        logr.Logger
}

// NewConverter wires a Converter from its collaborators. Settings are taken
// by value and never mutated afterwards.
func NewConverter(client adapters.KubeClient, settings core.Settings, logger logr.Logger) *Converter {
	return &Converter{
		clientAdapter: client,
		settings:      settings,
		selector:      core.NewSelector(settings),
		backoff:       core.DefaultBackoff(),
		workQueue:     core.NewWorkQueue[Key](),
		logger:        logger,
	}
}

// OnSourceChange enqueues a conversion pass for a changed source ConfigMap.
func (converter *Converter) OnSourceChange(namespace, name string) {
	converter.workQueue.Add(Key{Namespace: namespace, Name: name})
}

// ProcessNext converts the next queued source, reporting whether one was
// pending. Used when the converter is driven by a hand-rolled event loop or
// from tests; the runtime controller calls Convert directly.
func (converter *Converter) ProcessNext(ctx context.Context) (bool, core.ConversionResult, error) {
	key, ok := converter.workQueue.Get()
	if !ok {
		return false, core.ConversionResult{}, nil
	}

	result, _, err := converter.Convert(ctx, key)
	return true, result, err
}

// Convert runs one full conversion pass for a source ConfigMap: parse the
// payload, compute the desired dashboard set, diff it against the observed
// managed dashboards, perform the minimal writes, and collect orphans.
// Running it redundantly is safe; unchanged full-mode content produces zero
// writes.
func (converter *Converter) Convert(ctx context.Context, key Key) (core.ConversionResult, *summary.Summary, error) {
	logger := converter.logger.WithValues("source", key.Namespace+"/"+key.Name)
	sum := &summary.Summary{Source: key.Name}

	data, labels, found, err := converter.clientAdapter.GetSourceConfigMap(ctx, key.Namespace, key.Name)
	if err != nil {
		return core.ConversionResult{}, sum, fmt.Errorf("get source: %w", err)
	}

	// A deleted or no-longer-qualifying source keeps no dashboards.
	if !found || !converter.selector.Matches(key.Namespace, labels) {
		pruned, err := converter.collectSource(ctx, key, logger, sum)
		if err != nil {
			return core.ConversionResult{}, sum, err
		}

		return core.ConversionResult{Counters: core.ConversionCounters{Pruned: pruned}}, sum, nil
	}

	if size := core.CheckPayloadSize(data); size.Block {
		// Oversized payloads are rejected before parsing. Existing dashboards
		// stay untouched; their (source, key) pairs are still live.
		logger.Error(fmt.Errorf("payload is %d bytes, limit %d", size.Bytes, core.PayloadSizeLimitBytes), "rejecting oversized source ConfigMap")
		return core.ConversionResult{}, sum, nil
	} else if size.Warn {
		logger.Info("source ConfigMap payload approaching size limit", "bytes", size.Bytes)
	}

	documents, invalidKeys := core.ParseDocuments(data)

	for _, failure := range invalidKeys {
		logger.Error(failure.Err, "skipping invalid dashboard document", "key", failure.Key)
		sum.Record("", failure.Key, summary.ActionSkipped, summary.ReasonInvalidDocument)
	}

	// Naming counts every candidate dashboard key, valid or not, so a sibling
	// turning transiently invalid never renames the survivors or collects the
	// broken key's existing dashboard.
	candidateCount := len(documents) + len(invalidKeys)

	desired, conflicts := resolveDesired(key.Name, documents, candidateCount)

	for _, conflict := range conflicts {
		logger.Info("naming conflict, first document wins",
			"target", conflict.TargetName, "winner", conflict.WinnerKey, "loser", conflict.LoserKey)
		sum.Record(conflict.TargetName, conflict.LoserKey, summary.ActionSkipped, summary.ReasonNameConflict)
	}

	result := core.ConversionResult{
		Documents:   len(documents),
		InvalidKeys: invalidKeys,
		Conflicts:   conflicts,
	}

	folder := labels[core.FolderLabel]

	for _, entry := range desired {
		dashboard := buildDashboard(key.Namespace, key.Name, entry.name, folder, entry.document, converter.settings)

		if err := converter.applyDashboard(ctx, dashboard, entry.document, logger, sum, &result.Counters); err != nil {
			return result, sum, err
		}
	}

	pruned, err := converter.collectOrphans(ctx, key, data, candidateCount, logger, sum)
	if err != nil {
		return result, sum, err
	}
	result.Counters.Pruned = pruned

	return result, sum, nil
}

type desiredEntry struct {
	name     string
	document core.Document
}

// resolveDesired maps valid documents to target names, applying the
// first-wins collision policy. Documents arrive in sorted key order, so the
// winner of a collision is stable across runs. candidateCount covers invalid
// keys too, keeping the single/multi naming decision stable.
func resolveDesired(sourceName string, documents []core.Document, candidateCount int) ([]desiredEntry, []core.NameConflict) {
	var entries []desiredEntry
	var conflicts []core.NameConflict

	claimed := map[string]string{} // target name -> winning key

	for _, document := range documents {
		name := core.TargetName(sourceName, document.Key, candidateCount)

		if winner, taken := claimed[name]; taken {
			conflicts = append(conflicts, core.NameConflict{TargetName: name, WinnerKey: winner, LoserKey: document.Key})
			continue
		}

		claimed[name] = document.Key
		entries = append(entries, desiredEntry{name: name, document: document})
	}

	return entries, conflicts
}

// applyDashboard drives the per-target state machine: create when absent,
// skip unchanged full-mode content, update on change, and migrate through a
// confirmed delete when the existing resource's mode disagrees with the
// configured mode or with its own spec shape.
func (converter *Converter) applyDashboard(ctx context.Context, desired *v1beta1.GrafanaDashboard, document core.Document, logger logr.Logger, sum *summary.Summary, counters *core.ConversionCounters) error {
	existing, found, err := converter.getWithRetry(ctx, desired.Namespace, desired.Name)
	if err != nil {
		return fmt.Errorf("get dashboard %s/%s: %w", desired.Namespace, desired.Name, err)
	}

	if !found {
		if err := converter.createWithRetry(ctx, desired); err != nil {
			return fmt.Errorf("create dashboard %s/%s: %w", desired.Namespace, desired.Name, err)
		}

		logger.Info("created dashboard", "dashboard", desired.Name, "key", document.Key, "title", document.Title)
		sum.Record(desired.Name, document.Key, summary.ActionCreated, summary.ReasonConverted)
		counters.Created++
		return nil
	}

	if existing.Labels[core.ManagedByLabel] != core.ManagedByLabelValue ||
		existing.Labels[core.SourceNameLabel] != desired.Labels[core.SourceNameLabel] {
		// Sole-ownership rule: never mutate a resource we did not create, or
		// one another source ConfigMap already claims.
		logger.Info("dashboard name is held by a foreign resource, skipping",
			"dashboard", desired.Name, "key", document.Key)
		sum.Record(desired.Name, document.Key, summary.ActionSkipped, summary.ReasonForeignOwner)
		return nil
	}

	existingMode := existing.Labels[core.ModeLabel]
	stale := existingMode != converter.settings.Mode || specMode(existing.Spec) != existingMode

	if stale {
		if err := converter.deleteAndRecreate(ctx, desired); err != nil {
			return fmt.Errorf("migrate dashboard %s/%s: %w", desired.Namespace, desired.Name, err)
		}

		logger.Info("recreated dashboard in configured mode",
			"dashboard", desired.Name, "key", document.Key, "mode", converter.settings.Mode)
		sum.Record(desired.Name, document.Key, summary.ActionMigrated, summary.ReasonModeChanged)
		counters.Migrated++
		return nil
	}

	if converter.settings.Mode == core.ModeFull {
		if existing.Annotations[core.ContentHashAnnotation] == desired.Annotations[core.ContentHashAnnotation] {
			// Idempotency: unchanged content issues no API write.
			sum.Record(desired.Name, document.Key, summary.ActionSkipped, summary.ReasonAlreadyConverted)
			counters.Unchanged++
			return nil
		}
	}

	// Reference mode refreshes unconditionally; the source is the ground
	// truth at read time, so there is nothing to fingerprint against.
	if err := converter.updateWithRetry(ctx, desired); err != nil {
		return fmt.Errorf("update dashboard %s/%s: %w", desired.Namespace, desired.Name, err)
	}

	logger.Info("updated dashboard", "dashboard", desired.Name, "key", document.Key)
	sum.Record(desired.Name, document.Key, summary.ActionUpdated, summary.ReasonContentChanged)
	counters.Updated++
	return nil
}

// deleteAndRecreate migrates a dashboard between spec shapes. The two shapes
// cannot be diffed field-by-field, so the old resource is deleted and its
// removal confirmed before the create is issued, avoiding a duplicate-name
// conflict against an object still terminating.
func (converter *Converter) deleteAndRecreate(ctx context.Context, desired *v1beta1.GrafanaDashboard) error {
	if err := converter.deleteWithRetry(ctx, desired.Namespace, desired.Name); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if err := converter.confirmRemoval(ctx, desired.Namespace, desired.Name); err != nil {
		return err
	}

	if err := converter.createWithRetry(ctx, desired); err != nil {
		return fmt.Errorf("recreate: %w", err)
	}

	return nil
}

// confirmRemoval polls until the dashboard is observed absent, using the
// backoff strategy so a stuck terminating object surfaces as an error rather
// than hanging the worker.
func (converter *Converter) confirmRemoval(ctx context.Context, namespace, name string) error {
	// nil shouldRetry: keep polling through transient read failures as well
	// as "still present" observations until the attempts run out.
	_, err := converter.backoff.Retry(func() error {
		_, found, err := converter.clientAdapter.GetDashboard(ctx, namespace, name)
		if err != nil {
			return err
		}

		if found {
			return fmt.Errorf("dashboard %s/%s is still terminating", namespace, name)
		}

		return nil
	}, nil)

	if err != nil {
		return fmt.Errorf("confirm removal: %w", err)
	}

	return nil
}

func (converter *Converter) getWithRetry(ctx context.Context, namespace, name string) (*v1beta1.GrafanaDashboard, bool, error) {
	var dashboard *v1beta1.GrafanaDashboard
	var found bool

	_, err := converter.backoff.Retry(func() error {
		var err error
		dashboard, found, err = converter.clientAdapter.GetDashboard(ctx, namespace, name)
		return err
	}, core.IsRetryable)

	return dashboard, found, err
}

func (converter *Converter) createWithRetry(ctx context.Context, dashboard *v1beta1.GrafanaDashboard) error {
	_, err := converter.backoff.Retry(func() error {
		return converter.clientAdapter.CreateDashboard(ctx, dashboard.DeepCopy())
	}, core.IsRetryable)

	return err
}

func (converter *Converter) updateWithRetry(ctx context.Context, dashboard *v1beta1.GrafanaDashboard) error {
	_, err := converter.backoff.Retry(func() error {
		return converter.clientAdapter.UpdateDashboard(ctx, dashboard.DeepCopy())
	}, core.IsRetryable)

	return err
}

func (converter *Converter) deleteWithRetry(ctx context.Context, namespace, name string) error {
	_, err := converter.backoff.Retry(func() error {
		return converter.clientAdapter.DeleteDashboard(ctx, namespace, name)
	}, core.IsRetryable)

	return err
}
