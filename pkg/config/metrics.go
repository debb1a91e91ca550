package config

import (
	"net/http"

	"github.com/marmos91/shopkeep/pkg/metrics"
	"github.com/marmos91/shopkeep/pkg/reconcile"
)

// MetricsResult holds the collectors handed to the reconciler and the API.
// All fields are nil when metrics are disabled.
type MetricsResult struct {
	Reconcile reconcile.Metrics
	HTTP      metrics.HTTPMetrics
	Handler   http.Handler
}

// InitializeMetrics creates the Prometheus registry when cfg.Metrics.Enabled
// is set. The prometheus implementation package must be imported by the
// binary for the constructors to be registered.
func InitializeMetrics(cfg *Config) MetricsResult {
	if !cfg.Metrics.Enabled {
		return MetricsResult{}
	}

	metrics.InitRegistry()
	return MetricsResult{
		Reconcile: metrics.NewReconcileMetrics(),
		HTTP:      metrics.NewHTTPMetrics(),
		Handler:   metrics.Handler(),
	}
}
