package metrics

import "time"

// HTTPMetrics records API request outcomes.
type HTTPMetrics interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// NewHTTPMetrics returns nil when metrics are disabled.
func NewHTTPMetrics() HTTPMetrics {
	if !IsEnabled() || newPrometheusHTTPMetrics == nil {
		return nil
	}
	return newPrometheusHTTPMetrics()
}

var newPrometheusHTTPMetrics func() HTTPMetrics

// RegisterHTTPMetricsConstructor is called by pkg/metrics/prometheus
// during package initialization.
func RegisterHTTPMetricsConstructor(constructor func() HTTPMetrics) {
	newPrometheusHTTPMetrics = constructor
}
