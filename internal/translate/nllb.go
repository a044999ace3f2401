package translate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

var progressLineRe = regexp.MustCompile(`Translation progress: (\d+)%`)

// NLLBTranslator delegates to the locally hosted NLLB model, run as a
// Python subprocess. The subprocess reports percentages on its
// diagnostic stream, which are streamed into the progress callback.
type NLLBTranslator struct {
	pythonBin  string
	scriptPath string
	timeout    time.Duration
}

func NewNLLBTranslator(pythonBin, scriptsPath string, timeout time.Duration) *NLLBTranslator {
	return &NLLBTranslator{
		pythonBin:  pythonBin,
		scriptPath: filepath.Join(scriptsPath, "nllb_translator.py"),
		timeout:    timeout,
	}
}

func (n *NLLBTranslator) Name() string {
	return "nllb"
}

func (n *NLLBTranslator) Translate(ctx context.Context, req Request, progress ProgressFunc) (Result, error) {
	if progress == nil {
		progress = func(int, string) {}
	}
	progress(2, "started")

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, n.pythonBin, n.scriptPath, req.Text, req.TargetLang, req.SourceLang)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("start model process: %w", err)
	}

	// Stream stage percentages off the diagnostic output while the
	// model works. The model reports its own 0-100; map it into the
	// translating band so the overall sequence stays monotonic.
	// Wait must not run until the pipe is drained, so the reader
	// signals completion.
	stderrDone := make(chan struct{})
	go func() {
		defer close(stderrDone)
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			if m := progressLineRe.FindStringSubmatch(scanner.Text()); m != nil {
				if pct, err := strconv.Atoi(m[1]); err == nil {
					progress(10+pct*80/100, "translating")
				}
			}
		}
	}()

	<-stderrDone
	if err := cmd.Wait(); err != nil {
		return Result{}, fmt.Errorf("model process: %w", err)
	}

	out := stdout.Bytes()
	start := bytes.IndexByte(out, '{')
	end := bytes.LastIndexByte(out, '}')
	if start < 0 || end < start {
		return Result{}, fmt.Errorf("no JSON object in model output")
	}

	var resp struct {
		Success     bool   `json:"success"`
		Translation string `json:"translation"`
		Error       string `json:"error"`
		UsedNLLB    bool   `json:"used_nllb"`
	}
	if err := json.Unmarshal(out[start:end+1], &resp); err != nil {
		return Result{}, fmt.Errorf("parse model output: %w", err)
	}
	if !resp.Success {
		return Result{}, fmt.Errorf("model: %s", resp.Error)
	}

	text := resp.Translation
	if Direction(req.TargetLang) == "rtl" {
		progress(96, "postprocessing")
		text = postprocessRTL(text)
	}

	progress(100, "done")
	return Result{
		Success:     true,
		Translation: text,
		Direction:   Direction(req.TargetLang),
		Provider:    n.Name(),
	}, nil
}
