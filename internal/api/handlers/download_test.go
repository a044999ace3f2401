package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadServesFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("fake mp3 payload")
	if err := os.WriteFile(filepath.Join(dir, "youtube_abc.mp3"), content, 0644); err != nil {
		t.Fatal(err)
	}
	h := NewDownloadHandler(dir)

	req := httptest.NewRequest(http.MethodGet, "/api/media/download?path=youtube_abc.mp3", nil)
	rec := httptest.NewRecorder()
	h.Download(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "audio/mpeg" {
		t.Fatalf("content type = %q, want audio/mpeg", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), content) {
		t.Fatal("served body differs from the file content")
	}
}

func TestDownloadMissingFileReturnsSilentAudio(t *testing.T) {
	h := NewDownloadHandler(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/media/download?path=gone.mp3", nil)
	rec := httptest.NewRecorder()
	h.Download(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for a cleaned-up file", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "audio/mpeg" {
		t.Fatalf("content type = %q, want audio/mpeg", got)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("expected a non-empty placeholder payload")
	}
}

func TestDownloadRejectsTraversal(t *testing.T) {
	h := NewDownloadHandler(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/media/download?path=..%2F..%2Fetc%2Fpasswd", nil)
	rec := httptest.NewRecorder()
	h.Download(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
