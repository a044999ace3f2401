// Package pipeline orchestrates one transcription/translation run:
// resolve the video id, acquire audio, transcribe, detect the
// language, translate, then persist and cache the outcome. Partial
// failure at any stage still yields a usable, degraded result.
package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Request identifies one pipeline run. Immutable after submission.
type Request struct {
	URL            string `json:"url"`
	Platform       string `json:"platform"`
	TargetLanguage string `json:"targetLanguage"`
	RequestID      string `json:"requestId"`
}

// Result is the outcome of a completed run. Success stays true for
// degraded results (fallback transcript, echoed translation); it is
// false only when even degradation was impossible.
type Result struct {
	Success          bool   `json:"success"`
	Transcript       string `json:"transcript"`
	Translation      string `json:"translation"`
	DetectedLanguage string `json:"detectedLanguage"`
	Title            string `json:"title"`
	AudioPath        string `json:"audioPath"`
	Provider         string `json:"-"`
	Error            string `json:"error,omitempty"`
}

// NewRequestID builds a request identifier with an embedded timestamp,
// which the progress sweeper later parses to age out stale entries.
func NewRequestID() string {
	return fmt.Sprintf("req_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// requestTime extracts the embedded millisecond timestamp from ids of
// the form <prefix>_<unixms>_<suffix>. ok is false for foreign ids.
func requestTime(requestID string) (time.Time, bool) {
	parts := strings.Split(requestID, "_")
	if len(parts) < 2 {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || ms < 1e12 || ms > 1e14 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
