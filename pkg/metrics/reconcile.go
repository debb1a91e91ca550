package metrics

import "github.com/marmos91/shopkeep/pkg/reconcile"

// NewReconcileMetrics creates a Prometheus-backed reconcile.Metrics.
//
// Returns nil if metrics are not enabled (InitRegistry not called). Pass the
// result straight to reconcile.New; a nil value records nothing.
//
//	metrics.InitRegistry()
//	r := reconcile.New(store, catalog, metrics.NewReconcileMetrics())
func NewReconcileMetrics() reconcile.Metrics {
	if !IsEnabled() || newPrometheusReconcileMetrics == nil {
		return nil
	}
	return newPrometheusReconcileMetrics()
}

// newPrometheusReconcileMetrics is implemented in pkg/metrics/prometheus.
// The indirection avoids an import cycle.
var newPrometheusReconcileMetrics func() reconcile.Metrics

// RegisterReconcileMetricsConstructor is called by pkg/metrics/prometheus
// during package initialization.
func RegisterReconcileMetricsConstructor(constructor func() reconcile.Metrics) {
	newPrometheusReconcileMetrics = constructor
}
