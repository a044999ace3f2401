// Package translate orchestrates translation through two providers: a
// remote web-translation endpoint and a locally hosted neural model
// run as a subprocess. Each provider carries its own fallback chain so
// the caller always gets some text back.
package translate

import "context"

// Request is one translation call
type Request struct {
	Text       string
	SourceLang string
	TargetLang string
	RequestID  string
}

// Result is the outcome of a translation. Direction is "rtl" or "ltr"
// for the target language.
type Result struct {
	Success     bool
	Translation string
	Direction   string
	Provider    string
}

// ProgressFunc receives a percentage (0-100) and a stage label as a
// provider works through a request.
type ProgressFunc func(percent int, stage string)

// Translator is the common contract for translation providers
type Translator interface {
	Translate(ctx context.Context, req Request, progress ProgressFunc) (Result, error)
	Name() string
}

// rtlLanguages are targets that read right to left and need RLM
// marking plus punctuation normalization after translation.
var rtlLanguages = map[string]bool{
	"he": true,
	"ar": true,
	"fa": true,
	"ur": true,
	"yi": true,
}

// Direction returns the text direction for a language code
func Direction(lang string) string {
	if rtlLanguages[lang] {
		return "rtl"
	}
	return "ltr"
}
