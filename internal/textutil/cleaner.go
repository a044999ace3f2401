package textutil

import (
	"regexp"
	"strings"
)

var (
	timestampRe  = regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?[.,]\d{3}\s*-->\s*\d{1,2}:\d{2}(?::\d{2})?[.,]\d{3}.*`)
	cueNumberRe  = regexp.MustCompile(`^\s*\d+\s*$`)
	tagRe        = regexp.MustCompile(`<[^>]+>|\{[^}]+\}`)
	spaceRe      = regexp.MustCompile(`\s+`)
	punctGapRe   = regexp.MustCompile(`\s+([.,!?:;])`)
	sentenceRe   = regexp.MustCompile(`([.!?] )([a-z])`)
)

// CleanCaptions strips caption markup from transcription tool output:
// VTT/SRT timestamps, cue numbers, inline tags and the WEBVTT header.
// Consecutive near-duplicate lines are dropped, which compensates for
// the repetition artifacts common in auto-generated captions.
func CleanCaptions(text string) string {
	var kept []string
	prev := ""
	for _, line := range strings.Split(text, "\n") {
		line = timestampRe.ReplaceAllString(line, "")
		line = tagRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "WEBVTT") || cueNumberRe.MatchString(line) {
			continue
		}
		if prev != "" && Similarity(line, prev) >= 0.7 {
			continue
		}
		kept = append(kept, line)
		prev = line
	}
	return spaceRe.ReplaceAllString(strings.Join(kept, " "), " ")
}

// Normalize tidies a cleaned transcript: collapses whitespace, closes
// gaps before punctuation and capitalizes sentence starts.
func Normalize(text string) string {
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
	text = punctGapRe.ReplaceAllString(text, "$1")
	text = sentenceRe.ReplaceAllStringFunc(text, strings.ToUpper)
	if text != "" {
		runes := []rune(text)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		text = string(runes)
	}
	return text
}

// Similarity measures character-position overlap between two strings:
// matching positions divided by the longer length. 1.0 means equal.
func Similarity(a, b string) float64 {
	ar, br := []rune(a), []rune(b)
	longer := len(ar)
	if len(br) > longer {
		longer = len(br)
	}
	if longer == 0 {
		return 1
	}
	n := len(ar)
	if len(br) < n {
		n = len(br)
	}
	matches := 0
	for i := 0; i < n; i++ {
		if ar[i] == br[i] {
			matches++
		}
	}
	return float64(matches) / float64(longer)
}
