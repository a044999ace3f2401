package pipeline

import (
	"testing"
	"time"
)

func TestResultCacheHit(t *testing.T) {
	m := NewMemoryResults(24 * time.Hour)

	m.Set("https://example.com/v", "he", Result{Success: true, Transcript: "hello"})

	got, ok := m.Get("https://example.com/v", "he")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Transcript != "hello" {
		t.Fatalf("transcript = %q, want %q", got.Transcript, "hello")
	}
}

func TestResultCacheKeyIncludesLanguage(t *testing.T) {
	m := NewMemoryResults(24 * time.Hour)

	m.Set("https://example.com/v", "he", Result{Success: true})
	if _, ok := m.Get("https://example.com/v", "es"); ok {
		t.Fatal("hit for a different target language")
	}
}

func TestResultCacheExpiry(t *testing.T) {
	m := NewMemoryResults(10 * time.Millisecond)

	m.Set("url", "he", Result{Success: true})
	time.Sleep(20 * time.Millisecond)

	if _, ok := m.Get("url", "he"); ok {
		t.Fatal("hit after the freshness window")
	}
	if removed := m.Sweep(); removed != 1 {
		t.Fatalf("Sweep removed %d, want 1", removed)
	}
}
