package handlers

import (
	"net/http"

	"github.com/Devijino/Transcriber/internal/api/middleware"
)

type AdminHandler struct {
	limiter *middleware.RateLimiter
}

func NewAdminHandler(limiter *middleware.RateLimiter) *AdminHandler {
	return &AdminHandler{limiter: limiter}
}

func (h *AdminHandler) RateLimitStatus(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, h.limiter.Status(), http.StatusOK)
}

func (h *AdminHandler) RateLimitClear(w http.ResponseWriter, r *http.Request) {
	h.limiter.Clear()
	jsonResponse(w, map[string]string{"status": "cleared"}, http.StatusOK)
}
