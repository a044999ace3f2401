// Package training triggers local translation-model improvement runs
// from accumulated transcripts.
package training

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/Devijino/Transcriber/internal/db/models"
)

// Candidates selects stored transcripts eligible for training and
// flags the ones a run consumed.
type Candidates interface {
	Untrained(minQuality int) ([]*models.Transcript, error)
	MarkTrained(ids []string, when time.Time) error
}

// trainingPair is one example in the data file handed to the
// improve-model script.
type trainingPair struct {
	SourceText     string `json:"source_text"`
	TargetText     string `json:"target_text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

// Improver runs the fine-tuning script against transcripts that passed
// the quality gate. At most one run is active at a time; a trigger
// while a run is in flight is a no-op.
type Improver struct {
	store      Candidates
	pythonBin  string
	scriptPath string
	modelDir   string
	minQuality int
	timeout    time.Duration

	mu      sync.Mutex
	running bool
}

func NewImprover(store Candidates, pythonBin, scriptsPath, modelDir string, minQuality int, timeout time.Duration) *Improver {
	return &Improver{
		store:      store,
		pythonBin:  pythonBin,
		scriptPath: filepath.Join(scriptsPath, "improve_model.py"),
		modelDir:   modelDir,
		minQuality: minQuality,
		timeout:    timeout,
	}
}

// MaybeTrain starts a training run if eligible transcripts exist and
// no run is already active. Failures are logged, never propagated:
// training is strictly best-effort.
func (im *Improver) MaybeTrain(ctx context.Context) {
	im.mu.Lock()
	if im.running {
		im.mu.Unlock()
		return
	}
	im.running = true
	im.mu.Unlock()

	defer func() {
		im.mu.Lock()
		im.running = false
		im.mu.Unlock()
	}()

	candidates, err := im.store.Untrained(im.minQuality)
	if err != nil {
		log.Printf("[training] select candidates: %v", err)
		return
	}
	if len(candidates) == 0 {
		return
	}

	log.Printf("[training] starting improvement run with %d transcripts", len(candidates))
	if err := im.train(ctx, candidates); err != nil {
		log.Printf("[training] run failed: %v", err)
		return
	}

	ids := make([]string, 0, len(candidates))
	for _, t := range candidates {
		ids = append(ids, t.ID)
	}
	if err := im.store.MarkTrained(ids, time.Now()); err != nil {
		log.Printf("[training] mark trained: %v", err)
		return
	}
	log.Printf("[training] improvement run done, %d transcripts consumed", len(ids))
}

func (im *Improver) train(ctx context.Context, candidates []*models.Transcript) error {
	dataFile, err := im.writeTrainingData(candidates)
	if err != nil {
		return err
	}
	defer os.Remove(dataFile)

	ctx, cancel := context.WithTimeout(ctx, im.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, im.pythonBin, im.scriptPath, dataFile, im.modelDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("improve script: %w (output: %s)", err, truncateOutput(output))
	}
	return nil
}

// writeTrainingData serializes source/target pairs to a temp JSON file
// in the format the script expects. Transcripts without a translation
// are skipped.
func (im *Improver) writeTrainingData(candidates []*models.Transcript) (string, error) {
	pairs := make([]trainingPair, 0, len(candidates))
	for _, t := range candidates {
		if t.Transcript == "" || t.Translation == "" {
			continue
		}
		pairs = append(pairs, trainingPair{
			SourceText:     t.Transcript,
			TargetText:     t.Translation,
			SourceLanguage: t.SourceLang,
			TargetLanguage: t.TargetLang,
		})
	}
	if len(pairs) == 0 {
		return "", fmt.Errorf("no usable training pairs among %d candidates", len(candidates))
	}

	data, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("marshal training data: %w", err)
	}

	f, err := os.CreateTemp("", "training-data-*.json")
	if err != nil {
		return "", fmt.Errorf("create training data file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write training data: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close training data file: %w", err)
	}
	return f.Name(), nil
}

func truncateOutput(b []byte) string {
	const max = 500
	s := string(b)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
