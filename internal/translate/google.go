package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Devijino/Transcriber/internal/textutil"
)

const (
	officialEndpoint   = "https://translate.googleapis.com/translate_a/single"
	unofficialEndpoint = "https://clients5.google.com/translate_a/t"
)

// GoogleTranslator translates through the Google web endpoints. Text
// is chunked under the provider size limit; each chunk tries the
// official interface first and the unofficial one on failure, and a
// chunk that fails both is echoed untranslated rather than aborting
// the whole call.
type GoogleTranslator struct {
	httpClient *http.Client
	chunkSize  int
	chunkDelay time.Duration
}

func NewGoogleTranslator(chunkSize int, chunkDelay time.Duration) *GoogleTranslator {
	return &GoogleTranslator{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		chunkSize:  chunkSize,
		chunkDelay: chunkDelay,
	}
}

func (g *GoogleTranslator) Name() string {
	return "google"
}

func (g *GoogleTranslator) Translate(ctx context.Context, req Request, progress ProgressFunc) (Result, error) {
	if progress == nil {
		progress = func(int, string) {}
	}
	progress(2, "started")

	src := googleLangCode(req.SourceLang)
	tgt := googleLangCode(req.TargetLang)

	progress(5, "chunking")
	chunks := textutil.Chunk(req.Text, g.chunkSize)
	if len(chunks) == 0 {
		progress(100, "done")
		return Result{Success: true, Translation: "", Direction: Direction(req.TargetLang), Provider: g.Name()}, nil
	}

	translated := make([]string, len(chunks))
	for i, chunk := range chunks {
		progress(10+80*i/len(chunks), fmt.Sprintf("translating chunk %d/%d", i+1, len(chunks)))

		out, err := g.translateChunk(ctx, chunk, src, tgt)
		if err != nil {
			// degrade to the original text for this chunk only
			log.Printf("[translate] google chunk %d/%d failed, echoing source: %v", i+1, len(chunks), err)
			out = chunk
		}
		translated[i] = out

		// informal rate limit between chunks
		if i < len(chunks)-1 && g.chunkDelay > 0 {
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(g.chunkDelay):
			}
		}
	}

	progress(92, "merging")
	text := strings.Join(translated, " ")

	if Direction(req.TargetLang) == "rtl" {
		progress(96, "postprocessing")
		text = postprocessRTL(text)
	}

	progress(100, "done")
	return Result{
		Success:     true,
		Translation: text,
		Direction:   Direction(req.TargetLang),
		Provider:    g.Name(),
	}, nil
}

func (g *GoogleTranslator) translateChunk(ctx context.Context, chunk, src, tgt string) (string, error) {
	out, primaryErr := g.callOfficial(ctx, chunk, src, tgt)
	if primaryErr == nil {
		return out, nil
	}

	out, fallbackErr := g.callUnofficial(ctx, chunk, src, tgt)
	if fallbackErr == nil {
		return out, nil
	}
	return "", fmt.Errorf("official: %v; unofficial: %v", primaryErr, fallbackErr)
}

// callOfficial hits the gtx endpoint; the response is a nested JSON
// array whose first element lists translated segments.
func (g *GoogleTranslator) callOfficial(ctx context.Context, chunk, src, tgt string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", src)
	q.Set("tl", tgt)
	q.Set("dt", "t")
	q.Set("q", chunk)

	body, err := g.get(ctx, officialEndpoint+"?"+q.Encode())
	if err != nil {
		return "", err
	}

	var outer []json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil || len(outer) == 0 {
		return "", fmt.Errorf("unexpected response shape")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(outer[0], &segments); err != nil {
		return "", fmt.Errorf("unexpected segment shape")
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(seg[0], &piece); err != nil {
			continue
		}
		sb.WriteString(piece)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty translation")
	}
	return sb.String(), nil
}

// callUnofficial hits the dict-chrome-ex endpoint used by browser
// extensions; the response is either a bare string array or a nested
// one depending on input shape.
func (g *GoogleTranslator) callUnofficial(ctx context.Context, chunk, src, tgt string) (string, error) {
	q := url.Values{}
	q.Set("client", "dict-chrome-ex")
	q.Set("sl", src)
	q.Set("tl", tgt)
	q.Set("q", chunk)

	body, err := g.get(ctx, unofficialEndpoint+"?"+q.Encode())
	if err != nil {
		return "", err
	}

	var flat []string
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 && flat[0] != "" {
		return flat[0], nil
	}

	var nested [][]string
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 && nested[0][0] != "" {
		return nested[0][0], nil
	}

	return "", fmt.Errorf("unexpected response shape")
}

func (g *GoogleTranslator) get(ctx context.Context, rawURL string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

// googleLangCode maps internal codes to the forms the web endpoints
// expect. Hebrew is the notable mismatch ("he" vs legacy "iw").
func googleLangCode(code string) string {
	switch code {
	case "he":
		return "iw"
	case "jv":
		return "jw"
	case "", "auto":
		return "auto"
	default:
		return code
	}
}

// postprocessRTL prefixes a right-to-left mark to every non-empty
// paragraph and closes spacing gaps before punctuation, which the
// translation endpoints tend to introduce.
func postprocessRTL(text string) string {
	const rlm = "‏"

	paragraphs := strings.Split(text, "\n")
	for i, p := range paragraphs {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		paragraphs[i] = rlm + normalizeRTLPunctuation(trimmed)
	}
	return strings.Join(paragraphs, "\n")
}

func normalizeRTLPunctuation(text string) string {
	for _, p := range []string{".", ",", ":", ";", "!", "?"} {
		text = strings.ReplaceAll(text, " "+p, p)
	}
	return text
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
