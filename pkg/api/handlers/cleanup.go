package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/marmos91/shopkeep/internal/logger"
	"github.com/marmos91/shopkeep/pkg/reconcile"
)

// CleanupConfirmMessage tells the caller how to turn a preview into a
// deletion.
const CleanupConfirmMessage = `Send { "confirm": true } to delete`

// maxCleanupBody caps the request body; the only field is a boolean.
const maxCleanupBody = 4 << 10

// CleanupRunner runs one reconciliation.
type CleanupRunner interface {
	Run(ctx context.Context, opts reconcile.Options) (*reconcile.Result, error)
}

// CleanupRequest is the optional body of POST /api/admin/cleanup.
type CleanupRequest struct {
	Confirm bool `json:"confirm"`
}

// CleanupPreview is the dry-run response.
type CleanupPreview struct {
	OK       bool     `json:"ok"`
	ToDelete []string `json:"toDelete"`
	Message  string   `json:"message"`
}

// CleanupReport is the confirm-mode response.
type CleanupReport struct {
	OK       bool                        `json:"ok"`
	Deleted  int                         `json:"deleted"`
	Missing  int                         `json:"missing"`
	Failures []reconcile.DeletionFailure `json:"failures"`
}

// CleanupError is the failure response.
type CleanupError struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// CleanupHandler exposes the orphan file reconciler.
type CleanupHandler struct {
	runner CleanupRunner
}

func NewCleanupHandler(runner CleanupRunner) *CleanupHandler {
	return &CleanupHandler{runner: runner}
}

// Cleanup handles POST /api/admin/cleanup.
//
// Without {"confirm": true} the orphaned files are only listed. A missing,
// empty or malformed body is a dry run.
func (h *CleanupHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := decodeCleanupRequest(w, r)

	result, err := h.runner.Run(ctx, reconcile.Options{Confirm: req.Confirm})
	if err != nil {
		logger.ErrorCtx(ctx, "Cleanup failed", logger.KeyConfirm, req.Confirm, logger.Err(err))
		WriteJSON(w, http.StatusInternalServerError, CleanupError{
			OK:    false,
			Error: "Cleanup failed: " + cleanupReason(err),
		})
		return
	}

	if !req.Confirm {
		WriteJSONOK(w, CleanupPreview{
			OK:       true,
			ToDelete: result.Orphans.Strings(),
			Message:  CleanupConfirmMessage,
		})
		return
	}

	failures := result.Failures
	if failures == nil {
		failures = []reconcile.DeletionFailure{}
	}
	WriteJSONOK(w, CleanupReport{
		OK:       true,
		Deleted:  result.Deleted,
		Missing:  result.Missing,
		Failures: failures,
	})
}

// CleanupAuthFailure renders an authentication or authorization rejection
// in the {ok:false,error} shape of the cleanup endpoints.
func CleanupAuthFailure(w http.ResponseWriter, status int, detail string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", BearerChallenge)
	}
	WriteJSON(w, status, CleanupError{OK: false, Error: detail})
}

func decodeCleanupRequest(w http.ResponseWriter, r *http.Request) CleanupRequest {
	var req CleanupRequest
	if r.Body == nil {
		return req
	}
	body := http.MaxBytesReader(w, r.Body, maxCleanupBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			logger.DebugCtx(r.Context(), "Cleanup: unreadable body, running dry", logger.Err(err))
		}
		return CleanupRequest{}
	}
	return req
}

// cleanupReason describes err without leaking database or storage details.
func cleanupReason(err error) string {
	var scanErr *reconcile.ScanError
	var fetchErr *reconcile.ReferenceFetchError
	switch {
	case errors.As(err, &scanErr):
		return "could not list " + scanErr.Dir
	case errors.As(err, &fetchErr):
		return "could not load image references"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "request timed out"
	default:
		return "internal error"
	}
}
