// Package store persists completed transcripts and manages the
// process-wide resource cache with its temp-file cleanup.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Devijino/Transcriber/internal/db/models"
)

// Archive is the database side of transcript persistence
type Archive interface {
	UpsertTranscript(t *models.Transcript) error
	ListTranscripts() ([]*models.Transcript, error)
	ListUntrained(minQuality int) ([]*models.Transcript, error)
	MarkTrained(ids []string, when time.Time) error
}

// TranscriptStore writes transcripts through to the database and to a
// JSON file per transcript. Reads merge both sources with the
// database copy authoritative on id conflicts.
type TranscriptStore struct {
	db  Archive
	dir string
}

func NewTranscriptStore(db Archive, dir string) (*TranscriptStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}
	return &TranscriptStore{db: db, dir: dir}, nil
}

// Upsert saves a transcript by id. The file mirror is best-effort: a
// failed file write is logged but does not fail the save.
func (s *TranscriptStore) Upsert(t *models.Transcript) error {
	if t.ID == "" {
		return fmt.Errorf("transcript id is empty")
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	if err := s.db.UpsertTranscript(t); err != nil {
		return fmt.Errorf("upsert transcript %s: %w", t.ID, err)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err == nil {
		err = os.WriteFile(s.filePath(t.ID), data, 0644)
	}
	if err != nil {
		log.Printf("[store] file mirror for %s failed: %v", t.ID, err)
	}
	return nil
}

// List returns all transcripts merged from the database and the file
// mirror, newest first. Ids present in both come from the database.
func (s *TranscriptStore) List() ([]*models.Transcript, error) {
	fromDB, err := s.db.ListTranscripts()
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}

	seen := make(map[string]bool, len(fromDB))
	out := make([]*models.Transcript, 0, len(fromDB))
	for _, t := range fromDB {
		seen[t.ID] = true
		out = append(out, t)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		// a missing mirror directory is not fatal
		return out, nil
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		t := &models.Transcript{}
		if err := json.Unmarshal(data, t); err != nil || t.ID == "" || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, nil
}

// Untrained returns training candidates above the quality gate
func (s *TranscriptStore) Untrained(minQuality int) ([]*models.Transcript, error) {
	return s.db.ListUntrained(minQuality)
}

// MarkTrained flags transcripts as consumed by a training run and
// refreshes their file mirrors.
func (s *TranscriptStore) MarkTrained(ids []string, when time.Time) error {
	if err := s.db.MarkTrained(ids, when); err != nil {
		return fmt.Errorf("mark trained: %w", err)
	}
	for _, id := range ids {
		path := s.filePath(id)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		t := &models.Transcript{}
		if err := json.Unmarshal(data, t); err != nil {
			continue
		}
		t.UsedForTraining = true
		t.TrainingDate = &when
		if updated, err := json.MarshalIndent(t, "", "  "); err == nil {
			os.WriteFile(path, updated, 0644)
		}
	}
	return nil
}

// Stats summarizes the archive for the dashboard
type Stats struct {
	Total       int     `json:"total"`
	Trained     int     `json:"trained"`
	AvgQuality  float64 `json:"avgQuality"`
	TotalLength int     `json:"totalLength"`
}

func (s *TranscriptStore) Stats() (Stats, error) {
	all, err := s.List()
	if err != nil {
		return Stats{}, err
	}

	st := Stats{Total: len(all)}
	qualitySum := 0
	for _, t := range all {
		if t.UsedForTraining {
			st.Trained++
		}
		qualitySum += t.Quality
		st.TotalLength += len(t.Transcript)
	}
	if st.Total > 0 {
		st.AvgQuality = float64(qualitySum) / float64(st.Total)
	}
	return st, nil
}

func (s *TranscriptStore) filePath(id string) string {
	return filepath.Join(s.dir, sanitizeID(id)+".json")
}

// sanitizeID keeps transcript ids filesystem-safe
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}
