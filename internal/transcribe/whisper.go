// Package transcribe runs speech-to-text over a downloaded audio file
// by invoking the whisper tool, first through the structured helper
// script and then through the raw CLI as a fallback.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Devijino/Transcriber/internal/textutil"
)

// Result reports a transcription attempt. On failure the audio file
// itself remains available for playback, so Success=false still leaves
// the caller with something to serve.
type Result struct {
	Success    bool
	Transcript string
	Language   string
	Err        string
}

// Whisper drives the external transcription tool
type Whisper struct {
	pythonBin  string
	scriptPath string
	timeout    time.Duration
}

func NewWhisper(pythonBin, scriptsPath string, timeout time.Duration) *Whisper {
	return &Whisper{
		pythonBin:  pythonBin,
		scriptPath: filepath.Join(scriptsPath, "transcriber.py"),
		timeout:    timeout,
	}
}

type strategy struct {
	name string
	run  func(ctx context.Context, audioPath string) (*toolOutput, error)
}

type toolOutput struct {
	Success    bool   `json:"success"`
	Transcript string `json:"transcript"`
	Language   string `json:"language"`
	Error      string `json:"error"`
}

// Transcribe converts audioPath to text. Both invocation strategies
// are tried in sequence; errors never propagate past this boundary.
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) Result {
	if _, err := os.Stat(audioPath); err != nil {
		return Result{Err: fmt.Sprintf("audio file not found: %s", audioPath)}
	}

	strategies := []strategy{
		{name: "script", run: w.runScript},
		{name: "raw-cli", run: w.runRawCLI},
	}

	var lastErr string
	for _, s := range strategies {
		ctx, cancel := context.WithTimeout(ctx, w.timeout)
		out, err := s.run(ctx, audioPath)
		cancel()
		if err != nil {
			lastErr = fmt.Sprintf("%s: %v", s.name, err)
			log.Printf("[whisper] strategy %s failed: %v", s.name, err)
			continue
		}
		if !out.Success {
			lastErr = fmt.Sprintf("%s: %s", s.name, out.Error)
			log.Printf("[whisper] strategy %s reported failure: %s", s.name, out.Error)
			continue
		}

		transcript := textutil.Normalize(textutil.CleanCaptions(out.Transcript))
		if transcript == "" {
			lastErr = fmt.Sprintf("%s: empty transcript", s.name)
			continue
		}
		return Result{Success: true, Transcript: transcript, Language: out.Language}
	}

	return Result{Err: lastErr}
}

// runScript is the primary strategy: the helper script prints a single
// JSON object on stdout.
func (w *Whisper) runScript(ctx context.Context, audioPath string) (*toolOutput, error) {
	cmd := exec.CommandContext(ctx, w.pythonBin, w.scriptPath, audioPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("transcriber script: %s: %w", strings.TrimSpace(stderr.String()), err)
	}
	return parseToolOutput(stdout.Bytes())
}

// runRawCLI shells out to the whisper binary directly and scrapes the
// JSON object out of whatever it prints.
func (w *Whisper) runRawCLI(ctx context.Context, audioPath string) (*toolOutput, error) {
	cmd := exec.CommandContext(ctx, "whisper",
		audioPath,
		"--model", "base",
		"--output_format", "json",
		"--output_dir", filepath.Dir(audioPath),
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper cli: %w", err)
	}

	// The CLI writes <audio>.json next to the input; prefer that, fall
	// back to scraping stdout.
	jsonPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".json"
	if data, err := os.ReadFile(jsonPath); err == nil {
		var cliOut struct {
			Text     string `json:"text"`
			Language string `json:"language"`
		}
		if err := json.Unmarshal(data, &cliOut); err == nil && cliOut.Text != "" {
			return &toolOutput{Success: true, Transcript: cliOut.Text, Language: cliOut.Language}, nil
		}
	}
	return parseToolOutput(output)
}

func parseToolOutput(out []byte) (*toolOutput, error) {
	start := bytes.IndexByte(out, '{')
	end := bytes.LastIndexByte(out, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in tool output")
	}

	parsed := &toolOutput{}
	if err := json.Unmarshal(out[start:end+1], parsed); err != nil {
		return nil, fmt.Errorf("parse tool output: %w", err)
	}
	return parsed, nil
}
