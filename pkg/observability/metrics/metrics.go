package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"dashboardconversion/pkg/core"
)

var (
	registerOnce sync.Once

	conversionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboardconverter_conversions_total",
		Help: "Total number of source ConfigMap conversion passes grouped by result.",
	}, []string{"result"})

	dashboardsGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dashboardconverter_dashboards_gauge",
		Help: "Number of dashboards touched during the last conversion pass grouped by action.",
	}, []string{"action"})

	conversionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboardconverter_conversion_seconds",
		Help:    "Histogram of conversion pass duration in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	errorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboardconverter_errors_total",
		Help: "Total number of conversion pass errors.",
	})

	invalidDocumentsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboardconverter_invalid_documents_total",
		Help: "Total number of dashboard documents rejected by validation.",
	})

	nameConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboardconverter_name_conflicts_total",
		Help: "Total number of naming collisions resolved first-wins.",
	})

	prunedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboardconverter_dashboards_pruned_total",
		Help: "Total number of orphaned dashboards deleted by garbage collection.",
	})
)

func ensureRegistered() {
	registerOnce.Do(func() {
		ctrlmetrics.Registry.MustRegister(
			conversionsTotal,
			dashboardsGauge,
			conversionDuration,
			errorsTotal,
			invalidDocumentsTotal,
			nameConflictsTotal,
			prunedTotal,
		)
	})
}

// RecordConversion updates the metrics based on one conversion pass.
func RecordConversion(result core.ConversionResult, duration time.Duration, conversionErr error) {
	ensureRegistered()

	outcome := "success"
	if conversionErr != nil {
		outcome = "error"
		errorsTotal.Inc()
	}

	conversionsTotal.WithLabelValues(outcome).Inc()
	conversionDuration.Observe(duration.Seconds())

	dashboardsGauge.WithLabelValues("created").Set(float64(result.Counters.Created))
	dashboardsGauge.WithLabelValues("updated").Set(float64(result.Counters.Updated))
	dashboardsGauge.WithLabelValues("unchanged").Set(float64(result.Counters.Unchanged))
	dashboardsGauge.WithLabelValues("migrated").Set(float64(result.Counters.Migrated))
	dashboardsGauge.WithLabelValues("pruned").Set(float64(result.Counters.Pruned))

	invalidDocumentsTotal.Add(float64(len(result.InvalidKeys)))
	nameConflictsTotal.Add(float64(len(result.Conflicts)))
	prunedTotal.Add(float64(result.Counters.Pruned))
}
