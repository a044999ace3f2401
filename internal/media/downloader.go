// Package media acquires audio for a video URL by shelling out to
// external downloader tools. The tools are flaky and name their output
// unpredictably, so every invocation is followed by a filesystem
// search and failures degrade to a structured result instead of an
// error.
package media

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
)

// audioExtensions are the candidate extensions the downloader may
// produce, in preference order.
var audioExtensions = []string{"mp3", "m4a", "opus", "webm", "wav", "mp4"}

// FetchResult reports the outcome of an acquisition attempt. AudioPath
// is always set: on failure it holds the expected path so callers can
// surface "no audio" instead of crashing.
type FetchResult struct {
	OK        bool
	AudioPath string
	Title     string
	Err       string
}

// Downloader fetches remote video audio into a working directory,
// trying an ordered list of named strategies until one produces a
// playable file.
type Downloader struct {
	workDir    string
	pythonBin  string
	scriptPath string
	timeout    time.Duration
}

func NewDownloader(workDir, pythonBin, scriptsPath string, timeout time.Duration) *Downloader {
	return &Downloader{
		workDir:    workDir,
		pythonBin:  pythonBin,
		scriptPath: filepath.Join(scriptsPath, "downloader.py"),
		timeout:    timeout,
	}
}

type strategy struct {
	name string
	run  func(ctx context.Context, url, videoID string) (string, error)
}

// Fetch downloads the audio track of url, naming output after videoID.
// It never returns an error past its own boundary: all subprocess
// failures are folded into the FetchResult.
func (d *Downloader) Fetch(ctx context.Context, url, videoID string) FetchResult {
	expected := filepath.Join(d.workDir, videoID+".mp3")

	if err := os.MkdirAll(d.workDir, 0755); err != nil {
		return FetchResult{AudioPath: expected, Err: fmt.Sprintf("create work dir: %v", err)}
	}

	strategies := []strategy{
		{name: "yt-dlp", run: d.runYtDlp},
		{name: "helper-script", run: d.runHelperScript},
	}

	var lastErr string
	for _, s := range strategies {
		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		path, err := s.run(ctx, url, videoID)
		cancel()
		if err != nil {
			lastErr = fmt.Sprintf("%s: %v", s.name, err)
			log.Printf("[download] strategy %s failed for %s: %v", s.name, videoID, err)
		}
		if path == "" {
			// the tool may have produced a file under a different name
			path = FindAudio(d.workDir, videoID)
		}
		if path != "" {
			log.Printf("[download] strategy %s produced %s", s.name, path)
			return FetchResult{OK: true, AudioPath: path, Title: titleFromID(videoID)}
		}
	}

	// Final sweep in case the last tool wrote something late
	if path := FindAudio(d.workDir, videoID); path != "" {
		return FetchResult{OK: true, AudioPath: path, Title: titleFromID(videoID)}
	}

	if lastErr == "" {
		lastErr = "no audio file found after all download strategies"
	}
	return FetchResult{AudioPath: expected, Err: lastErr}
}

// runYtDlp is the primary strategy: yt-dlp with certificate checks off
// and forced IPv4, extracting best-quality mp3.
func (d *Downloader) runYtDlp(ctx context.Context, url, videoID string) (string, error) {
	outPattern := filepath.Join(d.workDir, videoID+".%(ext)s")
	cmd := exec.CommandContext(ctx, "yt-dlp",
		"--no-check-certificate",
		"--force-ipv4",
		"--no-warnings",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "0",
		"-o", outPattern,
		url,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("yt-dlp: %s: %w", truncate(string(output), 300), err)
	}
	return FindAudio(d.workDir, videoID), nil
}

// runHelperScript is the fallback: a Python downloader that tries its
// own chain of libraries and reports the result path as JSON on stdout.
func (d *Downloader) runHelperScript(ctx context.Context, url, videoID string) (string, error) {
	cmd := exec.CommandContext(ctx, d.pythonBin, d.scriptPath, url, d.workDir)
	cmd.Env = append(os.Environ(), "PYTHONHTTPSVERIFY=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("downloader script: %s: %w", truncate(stderr.String(), 300), err)
	}

	var resp struct {
		Success   bool   `json:"success"`
		AudioPath string `json:"audioPath"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal(findJSON(stdout.Bytes()), &resp); err != nil {
		return "", fmt.Errorf("parse script output: %w", err)
	}
	if !resp.Success {
		return "", fmt.Errorf("downloader script: %s", resp.Error)
	}
	return resp.AudioPath, nil
}

// FindAudio locates a downloaded audio file for videoID: exact name
// per known extension first, then any directory entry containing the
// id with an audio extension.
func FindAudio(dir, videoID string) string {
	for _, ext := range audioExtensions {
		candidate := filepath.Join(dir, videoID+"."+ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() && info.Size() > 0 {
			return candidate
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), videoID) {
			continue
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(entry.Name())), ".")
		for _, known := range audioExtensions {
			if ext != known {
				continue
			}
			candidate := filepath.Join(dir, entry.Name())
			if info, err := os.Stat(candidate); err == nil && info.Size() > 0 {
				return candidate
			}
		}
	}
	return ""
}

// findJSON extracts the first JSON object from mixed subprocess output
func findJSON(out []byte) []byte {
	start := bytes.IndexByte(out, '{')
	end := bytes.LastIndexByte(out, '}')
	if start < 0 || end < start {
		return out
	}
	return out[start : end+1]
}

func titleFromID(videoID string) string {
	if i := strings.Index(videoID, "_"); i > 0 && i < len(videoID)-1 {
		return "Video " + videoID[i+1:]
	}
	return "Video " + videoID
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
