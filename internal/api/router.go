package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Devijino/Transcriber/internal/api/handlers"
	"github.com/Devijino/Transcriber/internal/api/middleware"
	"github.com/Devijino/Transcriber/internal/auth"
	"github.com/Devijino/Transcriber/internal/config"
	"github.com/Devijino/Transcriber/internal/db"
	"github.com/Devijino/Transcriber/internal/pipeline"
	"github.com/Devijino/Transcriber/internal/store"
	"github.com/Devijino/Transcriber/internal/translate"
)

func NewRouter(
	cfg *config.Config,
	database *db.Database,
	jwtService *auth.JWTService,
	pipe *pipeline.Pipeline,
	translator *translate.Service,
	transcripts *store.TranscriptStore,
	resources *store.ResourceManager,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))
	r.Use(middleware.MaxBodySize(2 << 20))

	limiter := middleware.NewRateLimiter(120, time.Minute)

	// Handlers
	authHandler := handlers.NewAuthHandler(database, jwtService)
	transcriptionHandler := handlers.NewTranscriptionHandler(pipe)
	translateHandler := handlers.NewTranslateHandler(translator, pipe.Progress())
	transcriptsHandler := handlers.NewTranscriptsHandler(transcripts)
	cleanupHandler := handlers.NewCleanupHandler(resources)
	downloadHandler := handlers.NewDownloadHandler(cfg.TempPath)
	adminHandler := handlers.NewAdminHandler(limiter)

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Handler)

		// Public
		r.Post("/auth/login", authHandler.Login)
		r.Get("/health", handlers.Health)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))

			// Auth
			r.Get("/auth/me", authHandler.Me)

			// Pipeline
			r.Post("/transcription", transcriptionHandler.Submit)
			r.Get("/transcription/progress", transcriptionHandler.Progress)

			// Translation
			r.Post("/translate", translateHandler.Translate)
			r.Get("/translate/progress", translateHandler.Progress)
			r.Post("/google-translate", translateHandler.GoogleTranslate)

			// Transcript archive
			r.Post("/transcripts", transcriptsHandler.Save)
			r.Get("/transcripts", transcriptsHandler.List)
			r.Get("/transcripts/stats", transcriptsHandler.Stats)

			// Resources
			r.Post("/cleanup", cleanupHandler.Cleanup)
			r.Get("/media/download", downloadHandler.Download)

			// Admin
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin"))
				r.Get("/admin/ratelimit", adminHandler.RateLimitStatus)
				r.Delete("/admin/ratelimit", adminHandler.RateLimitClear)
			})
		})
	})

	return r
}
