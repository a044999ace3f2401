package translate

import (
	"context"
	"log"
)

// placeholders are served when every provider fails, so the UI never
// shows a blank result. Keyed by target language.
var placeholders = map[string]string{
	"en": "Translation is currently unavailable.",
	"he": "התרגום אינו זמין כרגע.",
	"ar": "الترجمة غير متوفرة حاليا.",
	"ru": "Перевод в данный момент недоступен.",
	"es": "La traducción no está disponible en este momento.",
	"fr": "La traduction n'est pas disponible pour le moment.",
	"de": "Die Übersetzung ist derzeit nicht verfügbar.",
	"it": "La traduzione non è al momento disponibile.",
}

// Service selects between the local model and the remote provider and
// applies the cross-provider fallback order.
type Service struct {
	local  Translator
	remote Translator
}

func NewService(local, remote Translator) *Service {
	return &Service{local: local, remote: remote}
}

// Remote translates via the web provider only. The provider degrades
// per-chunk internally; an overall failure falls through to the
// placeholder so the response is never empty.
func (s *Service) Remote(ctx context.Context, req Request, progress ProgressFunc) Result {
	res, err := s.remote.Translate(ctx, req, progress)
	if err != nil {
		log.Printf("[translate] remote provider failed for %s: %v", req.RequestID, err)
		return s.placeholder(req, progress)
	}
	return res
}

// Local translates via the local model, falling back to the remote
// provider and finally to a localized placeholder.
func (s *Service) Local(ctx context.Context, req Request, progress ProgressFunc) Result {
	if s.local != nil {
		res, err := s.local.Translate(ctx, req, progress)
		if err == nil {
			return res
		}
		log.Printf("[translate] local model failed for %s, falling back to remote: %v", req.RequestID, err)
	}

	res, err := s.remote.Translate(ctx, req, progress)
	if err == nil {
		return res
	}
	log.Printf("[translate] remote fallback failed for %s: %v", req.RequestID, err)

	return s.placeholder(req, progress)
}

func (s *Service) placeholder(req Request, progress ProgressFunc) Result {
	if progress != nil {
		progress(100, "done")
	}
	text, ok := placeholders[req.TargetLang]
	if !ok {
		text = placeholders["en"]
	}
	return Result{
		Success:     true,
		Translation: text,
		Direction:   Direction(req.TargetLang),
		Provider:    "placeholder",
	}
}
