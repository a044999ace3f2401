package training

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/Devijino/Transcriber/internal/db/models"
)

type fakeCandidates struct {
	untrained []*models.Transcript
	marked    []string
}

func (f *fakeCandidates) Untrained(minQuality int) ([]*models.Transcript, error) {
	return f.untrained, nil
}

func (f *fakeCandidates) MarkTrained(ids []string, when time.Time) error {
	f.marked = append(f.marked, ids...)
	return nil
}

func TestWriteTrainingDataFormat(t *testing.T) {
	im := NewImprover(&fakeCandidates{}, "python3", "./scripts", "./model", 50, time.Minute)

	path, err := im.writeTrainingData([]*models.Transcript{
		{ID: "a", Transcript: "hello", Translation: "שלום", SourceLang: "en", TargetLang: "he"},
		{ID: "b", Transcript: "no translation yet"},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var pairs []map[string]string
	if err := json.Unmarshal(data, &pairs); err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1 (untranslated transcript should be skipped)", len(pairs))
	}
	p := pairs[0]
	if p["source_text"] != "hello" || p["target_text"] != "שלום" {
		t.Fatalf("unexpected pair %v", p)
	}
	if p["source_language"] != "en" || p["target_language"] != "he" {
		t.Fatalf("unexpected languages in pair %v", p)
	}
}

func TestWriteTrainingDataNoUsablePairs(t *testing.T) {
	im := NewImprover(&fakeCandidates{}, "python3", "./scripts", "./model", 50, time.Minute)

	_, err := im.writeTrainingData([]*models.Transcript{
		{ID: "a", Transcript: "text only"},
	})
	if err == nil {
		t.Fatal("expected error when no candidate has a translation")
	}
}

func TestMaybeTrainSkipsWhileRunning(t *testing.T) {
	im := NewImprover(&fakeCandidates{}, "python3", "./scripts", "./model", 50, time.Minute)

	im.mu.Lock()
	im.running = true
	im.mu.Unlock()

	done := make(chan struct{})
	go func() {
		im.MaybeTrain(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("MaybeTrain blocked while another run is active")
	}

	im.mu.Lock()
	defer im.mu.Unlock()
	if !im.running {
		t.Fatal("running flag cleared by the skipped trigger")
	}
}
