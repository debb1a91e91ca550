package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/shopkeep/internal/logger"
	"github.com/marmos91/shopkeep/internal/telemetry"
	"github.com/marmos91/shopkeep/pkg/metrics"
)

// isHealthPath returns true if the request path is a healthcheck endpoint.
func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}

// RequestLogger attaches a LogContext and a server span to every request,
// logs its completion and records it in httpMetrics (which may be nil).
// Health probes are logged at DEBUG to keep probe noise out of the logs.
//
// Must run after chi's RequestID and RealIP middleware.
func RequestLogger(httpMetrics metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx, span := telemetry.StartSpan(r.Context(), telemetry.SpanHTTPRequest,
				telemetry.HTTPMethod(r.Method),
				telemetry.ClientIP(r.RemoteAddr),
			)
			defer span.End()

			lc := logger.NewLogContext(middleware.GetReqID(ctx), r.RemoteAddr)
			lc = lc.WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
			ctx = logger.WithContext(ctx, lc)

			logger.DebugCtx(ctx, "API request started",
				logger.KeyMethod, r.Method,
				logger.KeyPath, r.URL.Path,
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			duration := time.Since(start)

			telemetry.SetAttributes(ctx, telemetry.HTTPRoute(route), telemetry.HTTPStatus(status))
			if httpMetrics != nil {
				httpMetrics.ObserveRequest(r.Method, route, status, duration)
			}

			logArgs := []any{
				logger.KeyMethod, r.Method,
				logger.KeyPath, r.URL.Path,
				logger.KeyRoute, route,
				logger.KeyStatus, status,
				logger.KeyBytes, ww.BytesWritten(),
				logger.KeyDurationMs, logger.Duration(start),
			}

			if isHealthPath(r.URL.Path) {
				logger.DebugCtx(ctx, "API request completed", logArgs...)
			} else {
				logger.InfoCtx(ctx, "API request completed", logArgs...)
			}
		})
	}
}

// routePattern returns the matched chi pattern, which keeps metric label
// cardinality bounded. Unmatched requests share one label.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
