package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/shopkeep/pkg/api/auth"
	"github.com/marmos91/shopkeep/pkg/api/handlers"
	apiMiddleware "github.com/marmos91/shopkeep/pkg/api/middleware"
	"github.com/marmos91/shopkeep/pkg/catalog/store"
	"github.com/marmos91/shopkeep/pkg/metrics"
	"github.com/marmos91/shopkeep/pkg/uploads"
)

// Dependencies are the collaborators the API serves. Their lifecycle is
// owned by the caller.
type Dependencies struct {
	Catalog    store.Store
	Uploads    uploads.Store
	Reconciler handlers.CleanupRunner
	Connection handlers.ConnectionInfo

	// HTTPMetrics and MetricsHandler are nil when metrics are disabled.
	HTTPMetrics    metrics.HTTPMetrics
	MetricsHandler http.Handler
}

// NewRouter creates and configures the chi router with all middleware and routes.
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe (database + uploads)
//   - GET /metrics - Prometheus exposition (when enabled)
//   - POST /api/admin/cleanup - Orphan file cleanup (admin)
//   - POST /api/v1/maintenance/cleanup - Same, versioned path (admin)
//   - GET /api/v1/products[/{id}] - Catalog products (admin)
//   - PUT /api/v1/products/{id} - Replace a product and its images (admin)
//   - DELETE /api/v1/products/{id} - Delete a product and its files (admin)
func NewRouter(deps Dependencies, jwtService *auth.JWTService) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.RequestLogger(deps.HTTPMetrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	healthHandler := handlers.NewHealthHandler(deps.Catalog, deps.Uploads, deps.Connection)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	cleanupHandler := handlers.NewCleanupHandler(deps.Reconciler)
	productHandler := handlers.NewProductHandler(deps.Catalog, deps.Uploads)

	// The cleanup endpoints answer rejections in their own {ok,error} shape.
	r.Group(func(r chi.Router) {
		r.Use(apiMiddleware.JWTAuth(jwtService, handlers.CleanupAuthFailure))
		r.Use(apiMiddleware.RequireAdmin(handlers.CleanupAuthFailure))

		r.Post("/api/admin/cleanup", cleanupHandler.Cleanup)
		r.Post("/api/v1/maintenance/cleanup", cleanupHandler.Cleanup)
	})

	r.Group(func(r chi.Router) {
		r.Use(apiMiddleware.JWTAuth(jwtService, nil))
		r.Use(apiMiddleware.RequireAdmin(nil))

		r.Route("/api/v1/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/{id}", productHandler.Get)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})
	})

	return r
}
