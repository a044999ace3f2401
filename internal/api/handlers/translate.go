package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Devijino/Transcriber/internal/pipeline"
	"github.com/Devijino/Transcriber/internal/translate"
)

type TranslateHandler struct {
	service  *translate.Service
	progress pipeline.ProgressStore
}

func NewTranslateHandler(service *translate.Service, progress pipeline.ProgressStore) *TranslateHandler {
	return &TranslateHandler{service: service, progress: progress}
}

type translateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
	RequestID  string `json:"requestId"`
}

type translateResponse struct {
	Success     bool   `json:"success"`
	Translation string `json:"translation"`
	Direction   string `json:"direction"`
	SourceLang  string `json:"sourceLang"`
	TargetLang  string `json:"targetLang"`
	RequestID   string `json:"requestId"`
	UsedNLLB    bool   `json:"usedNLLB"`
	UsedGoogle  bool   `json:"usedGoogle"`
}

// Translate runs the local-model-first provider chain synchronously.
// Progress is still published under the request id so a second client
// tab can follow along.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	res := h.service.Local(r.Context(), req, h.progressFunc(req.RequestID))
	jsonResponse(w, translateResponse{
		Success:     res.Success,
		Translation: res.Translation,
		Direction:   res.Direction,
		SourceLang:  req.SourceLang,
		TargetLang:  req.TargetLang,
		RequestID:   req.RequestID,
		UsedNLLB:    res.Provider == "nllb",
	}, http.StatusOK)
}

// GoogleTranslate runs the remote web provider only
func (h *TranslateHandler) GoogleTranslate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	res := h.service.Remote(r.Context(), req, h.progressFunc(req.RequestID))
	jsonResponse(w, translateResponse{
		Success:     res.Success,
		Translation: res.Translation,
		Direction:   res.Direction,
		SourceLang:  req.SourceLang,
		TargetLang:  req.TargetLang,
		RequestID:   req.RequestID,
		UsedGoogle:  res.Provider == "google",
	}, http.StatusOK)
}

// Progress reports the current stage of a translation request
func (h *TranslateHandler) Progress(w http.ResponseWriter, r *http.Request) {
	requestID := r.URL.Query().Get("requestId")
	if requestID == "" {
		jsonError(w, "requestId is required", http.StatusBadRequest)
		return
	}
	jsonResponse(w, h.progress.Get(requestID), http.StatusOK)
}

func (h *TranslateHandler) decode(w http.ResponseWriter, r *http.Request) (translate.Request, bool) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return translate.Request{}, false
	}
	if req.Text == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return translate.Request{}, false
	}
	if req.TargetLang == "" {
		jsonError(w, "targetLang is required", http.StatusBadRequest)
		return translate.Request{}, false
	}
	if req.RequestID == "" {
		req.RequestID = pipeline.NewRequestID()
	}
	return translate.Request{
		Text:       req.Text,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		RequestID:  req.RequestID,
	}, true
}

func (h *TranslateHandler) progressFunc(requestID string) translate.ProgressFunc {
	return func(percent int, stage string) {
		h.progress.Update(requestID, pipeline.Progress{Percent: percent, Stage: stage})
	}
}
