package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Devijino/Transcriber/internal/db/models"
	"github.com/Devijino/Transcriber/internal/store"
)

type TranscriptsHandler struct {
	store *store.TranscriptStore
}

func NewTranscriptsHandler(s *store.TranscriptStore) *TranscriptsHandler {
	return &TranscriptsHandler{store: s}
}

type saveTranscriptRequest struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Transcript  string `json:"transcript"`
	Translation string `json:"translation"`
	SourceLang  string `json:"sourceLang"`
	TargetLang  string `json:"targetLang"`
	Quality     int    `json:"quality"`
}

// Save upserts a client-submitted transcript. The server copy wins on
// id conflicts, so re-submitting after a sync is harmless.
func (h *TranscriptsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveTranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		jsonError(w, "id is required", http.StatusBadRequest)
		return
	}
	if req.Transcript == "" {
		jsonError(w, "transcript is required", http.StatusBadRequest)
		return
	}

	t := &models.Transcript{
		ID:          req.ID,
		URL:         req.URL,
		Title:       req.Title,
		Transcript:  req.Transcript,
		Translation: req.Translation,
		SourceLang:  req.SourceLang,
		TargetLang:  req.TargetLang,
		Quality:     req.Quality,
	}
	if err := h.store.Upsert(t); err != nil {
		jsonError(w, "failed to save transcript", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{"success": true, "id": t.ID}, http.StatusOK)
}

// List returns all stored transcripts, database copies first
func (h *TranscriptsHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.List()
	if err != nil {
		jsonError(w, "failed to list transcripts", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{"transcripts": all, "count": len(all)}, http.StatusOK)
}

// Stats summarizes the transcript archive
func (h *TranscriptsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats()
	if err != nil {
		jsonError(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, stats, http.StatusOK)
}
