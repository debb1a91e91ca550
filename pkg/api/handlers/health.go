package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/marmos91/shopkeep/internal/logger"
	"github.com/marmos91/shopkeep/pkg/catalog/store"
	"github.com/marmos91/shopkeep/pkg/uploads"
)

// HealthCheckTimeout bounds the dependency checks of the readiness probe.
const HealthCheckTimeout = 5 * time.Second

// ConnectionInfo describes the catalog database without credentials.
type ConnectionInfo struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// ReadinessData is the payload of GET /health/ready.
type ReadinessData struct {
	Database   string         `json:"database"`
	Connection ConnectionInfo `json:"connection"`
	Latency    string         `json:"latency,omitempty"`
	Uploads    UploadsHealth  `json:"uploads"`
}

// UploadsHealth reports the upload store status.
type UploadsHealth struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthHandler serves the unauthenticated probes.
type HealthHandler struct {
	catalog   store.Store
	uploads   uploads.Store
	conn      ConnectionInfo
	startTime time.Time
}

// NewHealthHandler creates a health handler. conn must already be masked.
func NewHealthHandler(catalog store.Store, uploadStore uploads.Store, conn ConnectionInfo) *HealthHandler {
	return &HealthHandler{
		catalog:   catalog,
		uploads:   uploadStore,
		conn:      conn,
		startTime: time.Now(),
	}
}

// Liveness handles GET /health. It succeeds while the process serves HTTP.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime)
	writeJSONAs(w, "application/json", http.StatusOK, healthyResponse(map[string]interface{}{
		"service":    "shopkeep",
		"started_at": h.startTime.UTC().Format(time.RFC3339),
		"uptime":     uptime.Round(time.Second).String(),
		"uptime_sec": int64(uptime.Seconds()),
	}))
}

// Readiness handles GET /health/ready. It pings the catalog database and
// checks the upload store; either failing yields 503.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), HealthCheckTimeout)
	defer cancel()

	data := ReadinessData{
		Database:   "disconnected",
		Connection: h.conn,
	}

	var problems []string

	if h.catalog == nil {
		problems = append(problems, "catalog store not initialized")
	} else if latency, err := h.catalog.Ping(ctx); err != nil {
		logger.WarnCtx(ctx, "Readiness: database ping failed", logger.Err(err))
		problems = append(problems, fmt.Sprintf("database: %v", err))
	} else {
		data.Database = "connected"
		data.Latency = fmt.Sprintf("%dms", latency.Milliseconds())
	}

	if h.uploads == nil {
		data.Uploads = UploadsHealth{Status: "unhealthy", Error: "uploads store not initialized"}
		problems = append(problems, "uploads store not initialized")
	} else {
		data.Uploads = UploadsHealth{Type: h.uploads.Type(), Status: "healthy"}
		if err := h.uploads.Healthcheck(ctx); err != nil {
			logger.WarnCtx(ctx, "Readiness: uploads healthcheck failed", logger.Err(err))
			data.Uploads.Status = "unhealthy"
			data.Uploads.Error = err.Error()
			problems = append(problems, fmt.Sprintf("uploads: %v", err))
		}
	}

	if len(problems) > 0 {
		writeJSONAs(w, "application/json", http.StatusServiceUnavailable, unhealthyResponseWithData(problems[0], data))
		return
	}
	writeJSONAs(w, "application/json", http.StatusOK, healthyResponse(data))
}
