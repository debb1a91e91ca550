// Package prometheus provides the Prometheus implementations of the metrics
// interfaces. Import it for its side effects to enable them:
//
//	import _ "github.com/marmos91/shopkeep/pkg/metrics/prometheus"
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/shopkeep/pkg/metrics"
	"github.com/marmos91/shopkeep/pkg/reconcile"
)

func init() {
	metrics.RegisterReconcileMetricsConstructor(NewReconcileMetrics)
	metrics.RegisterHTTPMetricsConstructor(NewHTTPMetrics)
}

// reconcileMetrics is the Prometheus implementation of reconcile.Metrics.
type reconcileMetrics struct {
	runsTotal      *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	orphansFound   prometheus.Counter
	lastOrphans    prometheus.Gauge
	filesDeleted   prometheus.Counter
	filesMissing   prometheus.Counter
	deleteFailures prometheus.Counter
}

// NewReconcileMetrics returns nil if metrics are not enabled.
func NewReconcileMetrics() reconcile.Metrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &reconcileMetrics{
		runsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopkeep_reconcile_runs_total",
				Help: "Total number of reconciliation runs by mode and status",
			},
			[]string{"mode", "status"},
		),
		runDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "shopkeep_reconcile_duration_milliseconds",
				Help: "Duration of reconciliation runs in milliseconds",
				Buckets: []float64{
					5,     // empty stores
					25,    // a few hundred files
					100,   // 100ms
					500,   // 500ms
					1000,  // 1s - large local directories
					5000,  // 5s - s3 listings
					30000, // 30s
				},
			},
			[]string{"mode"},
		),
		orphansFound: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "shopkeep_reconcile_orphans_found_total",
			Help: "Total number of orphaned uploads found across runs",
		}),
		lastOrphans: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "shopkeep_reconcile_last_orphans",
			Help: "Number of orphaned uploads found by the most recent run",
		}),
		filesDeleted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "shopkeep_reconcile_files_deleted_total",
			Help: "Total number of orphaned uploads deleted",
		}),
		filesMissing: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "shopkeep_reconcile_files_missing_total",
			Help: "Total number of orphans already gone at deletion time",
		}),
		deleteFailures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "shopkeep_reconcile_delete_failures_total",
			Help: "Total number of orphaned uploads that could not be deleted",
		}),
	}
}

func modeLabel(confirmed bool) string {
	if confirmed {
		return "confirm"
	}
	return "dry_run"
}

func (m *reconcileMetrics) ObserveRun(confirmed bool, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	mode := modeLabel(confirmed)
	m.runsTotal.WithLabelValues(mode, status).Inc()
	m.runDuration.WithLabelValues(mode).Observe(float64(duration.Milliseconds()))
}

func (m *reconcileMetrics) RecordOrphans(n int) {
	m.orphansFound.Add(float64(n))
	m.lastOrphans.Set(float64(n))
}

func (m *reconcileMetrics) RecordDeleted(n int)  { m.filesDeleted.Add(float64(n)) }
func (m *reconcileMetrics) RecordMissing(n int)  { m.filesMissing.Add(float64(n)) }
func (m *reconcileMetrics) RecordFailures(n int) { m.deleteFailures.Add(float64(n)) }
