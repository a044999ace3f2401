package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/Devijino/Transcriber/internal/pipeline"
	"github.com/Devijino/Transcriber/internal/videoid"
)

type TranscriptionHandler struct {
	pipeline *pipeline.Pipeline
}

func NewTranscriptionHandler(p *pipeline.Pipeline) *TranscriptionHandler {
	return &TranscriptionHandler{pipeline: p}
}

type transcriptionRequest struct {
	URL     string `json:"url"`
	Options struct {
		TargetLanguage string `json:"targetLanguage"`
		PlatformType   string `json:"platformType"`
		RequestID      string `json:"requestId"`
	} `json:"options"`
}

type asyncResponse struct {
	Success         bool   `json:"success"`
	AsyncProcessing bool   `json:"asyncProcessing"`
	RequestID       string `json:"requestId"`
	VideoID         string `json:"videoId"`
}

// Submit starts a pipeline run. Known videos and fresh cached results
// are answered synchronously; everything else returns a request id the
// client polls for progress.
func (h *TranscriptionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req transcriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		jsonError(w, "url is required", http.StatusBadRequest)
		return
	}
	platform := req.Options.PlatformType
	if platform == "" {
		platform = videoid.DetectPlatform(req.URL)
	}
	targetLang := req.Options.TargetLanguage
	if targetLang == "" {
		targetLang = "he"
	}

	if res, ok := h.pipeline.Lookup(req.URL, platform, targetLang); ok {
		jsonResponse(w, res, http.StatusOK)
		return
	}

	requestID := req.Options.RequestID
	if requestID == "" {
		requestID = pipeline.NewRequestID()
	}
	run := pipeline.Request{
		URL:            req.URL,
		Platform:       platform,
		TargetLanguage: targetLang,
		RequestID:      requestID,
	}

	// The run outlives the HTTP request on purpose: a client that
	// stops polling must not cancel a transcription in flight.
	go func() {
		res := h.pipeline.Run(context.Background(), run)
		if !res.Success {
			log.Printf("[api] run %s failed: %s", run.RequestID, res.Error)
		}
	}()

	jsonResponse(w, asyncResponse{
		Success:         true,
		AsyncProcessing: true,
		RequestID:       run.RequestID,
		VideoID:         videoid.Resolve(req.URL, platform),
	}, http.StatusAccepted)
}

// Progress reports the current stage of a run
func (h *TranscriptionHandler) Progress(w http.ResponseWriter, r *http.Request) {
	requestID := r.URL.Query().Get("requestId")
	if requestID == "" {
		jsonError(w, "requestId is required", http.StatusBadRequest)
		return
	}
	jsonResponse(w, h.pipeline.Progress().Get(requestID), http.StatusOK)
}
