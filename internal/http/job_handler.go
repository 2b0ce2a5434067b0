package http

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/signalkit/signalkit/internal/domain"
	"github.com/signalkit/signalkit/internal/service"
	"github.com/signalkit/signalkit/pkg/logger"
)

// DetectionService runs a detection pass over all workspaces
type DetectionService interface {
	Run(ctx context.Context) ([]*service.DetectionRunSummary, error)
}

// SyncService runs a reconciliation pass and exposes sync status
type SyncService interface {
	Run(ctx context.Context) (*domain.SyncRunSummary, error)
	Status(ctx context.Context, workspaceID string) ([]*domain.SignalSyncConfig, error)
}

// JobHandler exposes the scheduled job triggers and the operator status
// surface. Triggers are invoked by an external scheduler and guarded by a
// shared secret header.
type JobHandler struct {
	detection  DetectionService
	sync       SyncService
	cronSecret string
	logger     logger.Logger
}

func NewJobHandler(detection DetectionService, sync SyncService, cronSecret string, logger logger.Logger) *JobHandler {
	return &JobHandler{
		detection:  detection,
		sync:       sync,
		cronSecret: cronSecret,
		logger:     logger,
	}
}

// RegisterRoutes registers the job HTTP endpoints
func (h *JobHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/jobs.detect", h.RunDetection)
	mux.HandleFunc("/api/jobs.sync", h.RunSync)
	mux.HandleFunc("/api/sync.status", h.SyncStatus)
}

// requireCronSecret validates the X-Cron-Secret header with a constant-time
// compare. Writes the error response itself when the check fails.
func (h *JobHandler) requireCronSecret(w http.ResponseWriter, r *http.Request) bool {
	secret := r.Header.Get("X-Cron-Secret")
	if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.cronSecret)) != 1 {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// POST /api/jobs.detect - runs the detection pass and returns per-workspace summaries
func (h *JobHandler) RunDetection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.requireCronSecret(w, r) {
		return
	}

	summaries, err := h.detection.Run(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Detection run failed")
		WriteJSONError(w, "Detection run failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workspaces": summaries,
	})
}

// POST /api/jobs.sync - runs the reconciliation pass and returns the run summary
func (h *JobHandler) RunSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.requireCronSecret(w, r) {
		return
	}

	summary, err := h.sync.Run(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Sync run failed")
		WriteJSONError(w, "Sync run failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary": summary,
	})
}

// GET /api/sync.status?workspace_id=... - per-config and per-target sync state
func (h *JobHandler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.requireCronSecret(w, r) {
		return
	}

	workspaceID := r.URL.Query().Get("workspace_id")
	if workspaceID == "" {
		WriteJSONError(w, "workspace_id is required", http.StatusBadRequest)
		return
	}

	configs, err := h.sync.Status(r.Context(), workspaceID)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to load sync status")
		WriteJSONError(w, "Failed to load sync status", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"configs": configs,
	})
}
