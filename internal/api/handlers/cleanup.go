package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Devijino/Transcriber/internal/store"
)

type CleanupHandler struct {
	resources *store.ResourceManager
}

func NewCleanupHandler(resources *store.ResourceManager) *CleanupHandler {
	return &CleanupHandler{resources: resources}
}

type cleanupRequest struct {
	RequestID string `json:"requestId"`
}

type cleanupResponse struct {
	Success      bool             `json:"success"`
	DeletedFiles int              `json:"deletedFiles"`
	FreedSpace   int64            `json:"freedSpace"`
	Cache        store.CacheStats `json:"cache"`
}

// Cleanup removes a finished request's temp files and sweeps the
// resource cache. Safe to call more than once per request id.
func (h *CleanupHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	var req cleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.RequestID == "" {
		jsonError(w, "requestId is required", http.StatusBadRequest)
		return
	}

	report := h.resources.Cleanup(req.RequestID)
	h.resources.SweepExpired()

	jsonResponse(w, cleanupResponse{
		Success:      true,
		DeletedFiles: report.DeletedFiles,
		FreedSpace:   report.FreedSpace,
		Cache:        h.resources.Stats(),
	}, http.StatusOK)
}
