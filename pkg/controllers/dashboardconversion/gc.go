package dashboardconversion

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-logr/logr"

	"dashboardconversion/pkg/agents/summary"
	"dashboardconversion/pkg/core"
)

// collectSource deletes every managed dashboard tracking a source that was
// deleted or lost its discovery label.
func (converter *Converter) collectSource(ctx context.Context, key Key, logger logr.Logger, sum *summary.Summary) (int, error) {
	managed, err := converter.clientAdapter.ListManagedDashboards(ctx, key.Namespace, key.Name)
	if err != nil {
		return 0, fmt.Errorf("list managed dashboards: %w", err)
	}

	pruned := 0

	for _, dashboard := range managed {
		if err := converter.deleteWithRetry(ctx, dashboard.Namespace, dashboard.Name); err != nil {
			return pruned, fmt.Errorf("prune dashboard %s/%s: %w", dashboard.Namespace, dashboard.Name, err)
		}

		logger.Info("pruned dashboard, source is gone", "dashboard", dashboard.Name)
		sum.Record(dashboard.Name, dashboard.Labels[core.SourceKeyLabel], summary.ActionPruned, summary.ReasonSourceGone)
		pruned++
	}

	return pruned, nil
}

// collectOrphans removes managed dashboards of a still-qualifying source
// whose key vanished, or whose name no longer matches the naming rule (the
// single/multi document count changed). Siblings backed by live keys are left
// untouched; a key that is present but currently invalid keeps its dashboard.
func (converter *Converter) collectOrphans(ctx context.Context, key Key, data map[string]string, candidateCount int, logger logr.Logger, sum *summary.Summary) (int, error) {
	managed, err := converter.clientAdapter.ListManagedDashboards(ctx, key.Namespace, key.Name)
	if err != nil {
		return 0, fmt.Errorf("list managed dashboards: %w", err)
	}

	pruned := 0

	for _, dashboard := range managed {
		sourceKey := dashboard.Labels[core.SourceKeyLabel]

		if isLiveTarget(key.Name, sourceKey, data, candidateCount, dashboard.Name) {
			continue
		}

		if err := converter.deleteWithRetry(ctx, dashboard.Namespace, dashboard.Name); err != nil {
			return pruned, fmt.Errorf("prune dashboard %s/%s: %w", dashboard.Namespace, dashboard.Name, err)
		}

		logger.Info("pruned orphaned dashboard", "dashboard", dashboard.Name, "key", sourceKey)
		sum.Record(dashboard.Name, sourceKey, summary.ActionPruned, summary.ReasonKeyRemoved)
		pruned++
	}

	return pruned, nil
}

// isLiveTarget reports whether a managed dashboard still corresponds to a
// live (source, key) pair under the current naming rule. candidateCount is
// the number of candidate dashboard keys in the source, including currently
// invalid ones.
func isLiveTarget(sourceName, sourceKey string, data map[string]string, candidateCount int, dashboardName string) bool {
	if sourceKey == "" {
		return false
	}

	if !strings.HasSuffix(sourceKey, core.DashboardKeySuffix) {
		return false
	}

	if _, present := data[sourceKey]; !present {
		return false
	}

	return dashboardName == core.TargetName(sourceName, sourceKey, candidateCount)
}

// ManagedSources lists every source that still has managed dashboards in
// scope, in stable order. The periodic resync replays these through the
// reconcile queue so orphans whose delete or unlabel events were missed get
// collected without bypassing per-source serialization.
func (converter *Converter) ManagedSources(ctx context.Context) ([]Key, error) {
	scope := ""
	if !converter.settings.WatchAllNamespaces {
		scope = converter.settings.Namespace
	}

	managed, err := converter.clientAdapter.ListManagedDashboards(ctx, scope, "")
	if err != nil {
		return nil, fmt.Errorf("list managed dashboards: %w", err)
	}

	seen := map[Key]struct{}{}
	var sources []Key

	for _, dashboard := range managed {
		sourceName := dashboard.Labels[core.SourceNameLabel]
		if sourceName == "" {
			continue
		}

		source := Key{Namespace: dashboard.Namespace, Name: sourceName}
		if _, duplicate := seen[source]; duplicate {
			continue
		}

		seen[source] = struct{}{}
		sources = append(sources, source)
	}

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Namespace != sources[j].Namespace {
			return sources[i].Namespace < sources[j].Namespace
		}
		return sources[i].Name < sources[j].Name
	})

	return sources, nil
}
