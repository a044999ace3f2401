package pipeline

import (
	"context"
	"log"

	"github.com/Devijino/Transcriber/internal/db/models"
	"github.com/Devijino/Transcriber/internal/langdetect"
	"github.com/Devijino/Transcriber/internal/media"
	"github.com/Devijino/Transcriber/internal/store"
	"github.com/Devijino/Transcriber/internal/transcribe"
	"github.com/Devijino/Transcriber/internal/translate"
	"github.com/Devijino/Transcriber/internal/videoid"
)

// Fetcher acquires audio for a URL
type Fetcher interface {
	Fetch(ctx context.Context, url, videoID string) media.FetchResult
}

// Transcriber turns an audio file into text
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) transcribe.Result
}

// TranslateService is the provider-selecting translation entry point
type TranslateService interface {
	Remote(ctx context.Context, req translate.Request, progress translate.ProgressFunc) translate.Result
	Local(ctx context.Context, req translate.Request, progress translate.ProgressFunc) translate.Result
}

// Persister archives a completed transcript
type Persister interface {
	Upsert(t *models.Transcript) error
}

// Cleaner removes a request's temp files after a run
type Cleaner interface {
	Cleanup(requestID string) store.CleanupReport
}

// Trainer triggers a model improvement run
type Trainer interface {
	MaybeTrain(ctx context.Context)
}

// Quality maps a translation provider to the 0-100 trustworthiness tag
// stored with the transcript.
type Quality struct {
	Remote      int
	Local       int
	Placeholder int
}

func (q Quality) forProvider(provider string) int {
	switch provider {
	case "nllb":
		return q.Local
	case "placeholder":
		return q.Placeholder
	default:
		return q.Remote
	}
}

// Pipeline runs the full URL-to-translation flow and owns the
// surrounding bookkeeping: progress reporting, result caching,
// transcript persistence, temp cleanup, and the training trigger.
type Pipeline struct {
	fetcher     Fetcher
	transcriber Transcriber
	translator  TranslateService
	detector    langdetect.Detector

	progress  ProgressStore
	results   ResultStore
	known     *KnownVideos
	persister Persister
	cleaner   Cleaner
	trainer   Trainer
	quality   Quality
}

func New(
	fetcher Fetcher,
	transcriber Transcriber,
	translator TranslateService,
	detector langdetect.Detector,
	progress ProgressStore,
	results ResultStore,
	known *KnownVideos,
	persister Persister,
	cleaner Cleaner,
	trainer Trainer,
	quality Quality,
) *Pipeline {
	return &Pipeline{
		fetcher:     fetcher,
		transcriber: transcriber,
		translator:  translator,
		detector:    detector,
		progress:    progress,
		results:     results,
		known:       known,
		persister:   persister,
		cleaner:     cleaner,
		trainer:     trainer,
		quality:     quality,
	}
}

func (p *Pipeline) Progress() ProgressStore { return p.progress }

// Lookup checks the known-video registry and the result cache. A hit
// lets the handler answer synchronously without starting a run.
func (p *Pipeline) Lookup(url, platform, targetLang string) (Result, bool) {
	videoID := videoid.Resolve(url, platform)

	if v, ok := p.known.Get(videoID); ok {
		translation := v.Translation
		if translation == "" {
			translation = v.Transcript
		}
		return Result{
			Success:          true,
			Transcript:       v.Transcript,
			Translation:      translation,
			DetectedLanguage: v.Language,
			Title:            v.Title,
		}, true
	}

	if res, ok := p.results.Get(url, targetLang); ok {
		return res, true
	}
	return Result{}, false
}

// Run executes one pipeline request end to end. It always returns a
// displayable result: download or transcription failure degrades to
// the fallback transcript, translation failure to an echo or
// placeholder. Stage boundaries update the progress store as they go.
func (p *Pipeline) Run(ctx context.Context, req Request) Result {
	videoID := videoid.Resolve(req.URL, req.Platform)
	log.Printf("[pipeline] %s: starting run for %s (video %s)", req.RequestID, req.URL, videoID)

	p.update(req, Progress{Percent: 5, Stage: "resolving video", VideoID: videoID, URL: req.URL})

	res := p.produce(ctx, req, videoID)

	if res.Success {
		p.update(req, Progress{Percent: 100, Stage: "done", Title: res.Title, VideoID: videoID, URL: req.URL})
	} else {
		p.update(req, Progress{Percent: 100, Stage: "failed", VideoID: videoID, URL: req.URL, Error: res.Error})
	}

	p.finish(ctx, req, videoID, res)
	return res
}

func (p *Pipeline) produce(ctx context.Context, req Request, videoID string) Result {
	p.update(req, Progress{Percent: 10, Stage: "downloading audio", VideoID: videoID, URL: req.URL})
	fetched := p.fetcher.Fetch(ctx, req.URL, videoID)

	transcript := ""
	detected := ""
	if fetched.OK {
		p.update(req, Progress{Percent: 40, Stage: "transcribing", Title: fetched.Title, VideoID: videoID, URL: req.URL})
		tr := p.transcriber.Transcribe(ctx, fetched.AudioPath)
		if tr.Success && tr.Transcript != "" {
			transcript = tr.Transcript
			detected = tr.Language
		} else {
			log.Printf("[pipeline] %s: transcription failed: %s", req.RequestID, tr.Err)
		}
	} else {
		log.Printf("[pipeline] %s: audio acquisition failed: %s", req.RequestID, fetched.Err)
	}

	// Degrade rather than fail: serve the canned transcript so the
	// client still gets text to display.
	if transcript == "" {
		transcript = FallbackTranscript
		detected = "en"
	}

	p.update(req, Progress{Percent: 60, Stage: "detecting language", Title: fetched.Title, VideoID: videoID, URL: req.URL})
	if detected == "" {
		detected = p.detector.Detect(transcript)
	}

	res := Result{
		Success:          true,
		Transcript:       transcript,
		DetectedLanguage: detected,
		Title:            fetched.Title,
		AudioPath:        fetched.AudioPath,
	}

	if req.TargetLanguage == "" || req.TargetLanguage == detected {
		res.Translation = transcript
		return res
	}

	p.update(req, Progress{Percent: 65, Stage: "translating", Title: fetched.Title, VideoID: videoID, URL: req.URL})
	tres := p.translator.Local(ctx, translate.Request{
		Text:       transcript,
		SourceLang: detected,
		TargetLang: req.TargetLanguage,
		RequestID:  req.RequestID,
	}, func(percent int, stage string) {
		p.update(req, Progress{
			Percent: 65 + percent*30/100,
			Stage:   "translating: " + stage,
			Title:   fetched.Title,
			VideoID: videoID,
			URL:     req.URL,
		})
	})

	res.Translation = tres.Translation
	res.Provider = tres.Provider
	if res.Translation == "" {
		res.Translation = transcript
	}
	return res
}

// finish caches the result, archives the transcript, cleans up temp
// files and pokes the trainer. All of it is best-effort: a completed
// run is reported to the client even when bookkeeping fails.
func (p *Pipeline) finish(ctx context.Context, req Request, videoID string, res Result) {
	if !res.Success {
		return
	}

	p.results.Set(req.URL, req.TargetLanguage, res)

	if p.persister != nil {
		t := &models.Transcript{
			ID:          videoID,
			URL:         req.URL,
			Title:       res.Title,
			Transcript:  res.Transcript,
			Translation: res.Translation,
			SourceLang:  res.DetectedLanguage,
			TargetLang:  req.TargetLanguage,
			Quality:     p.quality.forProvider(res.Provider),
		}
		if err := p.persister.Upsert(t); err != nil {
			log.Printf("[pipeline] %s: archive transcript: %v", req.RequestID, err)
		}
	}

	if p.cleaner != nil {
		p.cleaner.Cleanup(req.RequestID)
	}

	if p.trainer != nil {
		go p.trainer.MaybeTrain(context.WithoutCancel(ctx))
	}
}

func (p *Pipeline) update(req Request, prog Progress) {
	p.progress.Update(req.RequestID, prog)
}
