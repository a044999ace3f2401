package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Devijino/Transcriber/internal/langdetect"
	"github.com/Devijino/Transcriber/internal/media"
	"github.com/Devijino/Transcriber/internal/pipeline"
	"github.com/Devijino/Transcriber/internal/transcribe"
	"github.com/Devijino/Transcriber/internal/translate"
)

type nopFetcher struct{ calls int }

func (f *nopFetcher) Fetch(ctx context.Context, url, videoID string) media.FetchResult {
	f.calls++
	return media.FetchResult{AudioPath: "/tmp/" + videoID + ".mp3", Err: "offline"}
}

type nopTranscriber struct{}

func (nopTranscriber) Transcribe(ctx context.Context, audioPath string) transcribe.Result {
	return transcribe.Result{Err: "offline"}
}

type nopTranslateService struct{}

func (nopTranslateService) Local(ctx context.Context, req translate.Request, progress translate.ProgressFunc) translate.Result {
	return translate.Result{Success: true, Translation: req.Text, Provider: "placeholder"}
}

func (nopTranslateService) Remote(ctx context.Context, req translate.Request, progress translate.ProgressFunc) translate.Result {
	return translate.Result{Success: true, Translation: req.Text, Provider: "placeholder"}
}

func newTestHandler() (*TranscriptionHandler, *nopFetcher, *pipeline.KnownVideos) {
	fetcher := &nopFetcher{}
	known := pipeline.NewKnownVideos()
	p := pipeline.New(
		fetcher,
		nopTranscriber{},
		nopTranslateService{},
		langdetect.NewKeywordDetector(),
		pipeline.NewMemoryProgress(24*time.Hour),
		pipeline.NewMemoryResults(24*time.Hour),
		known,
		nil, nil, nil,
		pipeline.Quality{Remote: 75, Local: 85, Placeholder: 30},
	)
	return NewTranscriptionHandler(p), fetcher, known
}

func TestSubmitRequiresURL(t *testing.T) {
	h, _, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/transcription", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSubmitKnownVideoAnswersSynchronously(t *testing.T) {
	h, fetcher, known := newTestHandler()
	known.Register("youtube_dQw4w9WgXcQ", pipeline.KnownVideo{
		Title:       "Canned",
		Transcript:  "known transcript",
		Translation: "known translation",
		Language:    "en",
	})

	body := `{"url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ","options":{"platformType":"youtube","targetLanguage":"he"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/transcription", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res pipeline.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Transcript != "known transcript" {
		t.Fatalf("transcript = %q", res.Transcript)
	}
	if fetcher.calls != 0 {
		t.Fatal("downloader invoked for a known video")
	}
}

func TestSubmitUnknownVideoGoesAsync(t *testing.T) {
	h, _, _ := newTestHandler()

	body := `{"url":"https://www.youtube.com/watch?v=aaaaaaaaaaa","options":{"platformType":"youtube"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/transcription", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	var res asyncResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if !res.AsyncProcessing {
		t.Fatal("asyncProcessing = false, want true")
	}
	if !strings.HasPrefix(res.RequestID, "req_") {
		t.Fatalf("requestId = %q", res.RequestID)
	}
	if res.VideoID != "youtube_aaaaaaaaaaa" {
		t.Fatalf("videoId = %q", res.VideoID)
	}
}

func TestProgressRequiresRequestID(t *testing.T) {
	h, _, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/transcription/progress", nil)
	rec := httptest.NewRecorder()
	h.Progress(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
