// Package langdetect classifies free text into one of a fixed set of
// languages by scoring common function words. It is a fallback used
// when the transcription tool does not report a language, so false
// positives on short or mixed text are acceptable.
package langdetect

import "regexp"

// Detector is the language identification contract. The keyword
// detector can be swapped for a proper language-id library without
// touching the pipeline.
type Detector interface {
	// Detect returns a best-guess ISO 639-1 code for text
	Detect(text string) string
	// Name returns the detector name
	Name() string
}

// KeywordDetector scores regex-matched occurrences of curated common
// words per language; a strict highest total wins, ties and no-hit
// inputs default to English.
type KeywordDetector struct {
	patterns map[string]*regexp.Regexp
}

func NewKeywordDetector() *KeywordDetector {
	words := map[string]string{
		"en": `\b(the|and|to|for|of|is|in|that|you|with)\b`,
		"es": `\b(el|la|los|las|de|que|en|por|con|una)\b`,
		"fr": `\b(le|la|les|des|est|dans|que|pour|avec|une)\b`,
		"de": `\b(der|die|das|und|ist|nicht|ich|mit|ein|zu)\b`,
		"it": `\b(il|la|che|di|non|per|una|sono|con|del)\b`,
		"ru": `(и|в|не|на|что|это|как|по|его|она)`,
		"ar": `(في|من|على|هذا|أن|إلى|عن|مع|هو|كان)`,
	}

	patterns := make(map[string]*regexp.Regexp, len(words))
	for lang, expr := range words {
		patterns[lang] = regexp.MustCompile(`(?i)` + expr)
	}
	return &KeywordDetector{patterns: patterns}
}

func (d *KeywordDetector) Name() string {
	return "keyword"
}

func (d *KeywordDetector) Detect(text string) string {
	if text == "" {
		return "en"
	}

	best := "en"
	bestScore := 0
	tied := false
	for _, lang := range []string{"en", "es", "fr", "de", "it", "ru", "ar"} {
		score := len(d.patterns[lang].FindAllStringIndex(text, -1))
		switch {
		case score > bestScore:
			best = lang
			bestScore = score
			tied = false
		case score == bestScore && score > 0:
			tied = true
		}
	}
	// A shared top score means no language clearly won
	if tied {
		return "en"
	}
	return best
}
