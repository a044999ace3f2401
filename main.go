package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Devijino/Transcriber/internal/api"
	"github.com/Devijino/Transcriber/internal/auth"
	"github.com/Devijino/Transcriber/internal/config"
	"github.com/Devijino/Transcriber/internal/db"
	"github.com/Devijino/Transcriber/internal/langdetect"
	"github.com/Devijino/Transcriber/internal/media"
	"github.com/Devijino/Transcriber/internal/pipeline"
	"github.com/Devijino/Transcriber/internal/store"
	"github.com/Devijino/Transcriber/internal/training"
	"github.com/Devijino/Transcriber/internal/transcribe"
	"github.com/Devijino/Transcriber/internal/translate"
)

func main() {
	cfg := config.Load()

	// Ensure data directories exist
	os.MkdirAll(cfg.DataPath, 0755)
	os.MkdirAll(cfg.TempPath, 0755)

	// Initialize database
	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Ensure admin user exists
	if err := database.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Printf("Admin user ensured: %s", cfg.AdminUsername)

	// Transcript archive and resource cache
	transcripts, err := store.NewTranscriptStore(database, cfg.DataPath+"/transcripts")
	if err != nil {
		log.Fatalf("Failed to initialize transcript store: %v", err)
	}
	resources := store.NewResourceManager(cfg.ResourceCacheMax, cfg.ResourceTTL, cfg.TempPath)

	// External tools
	downloader := media.NewDownloader(cfg.TempPath, cfg.PythonBin, cfg.ScriptsPath, cfg.DownloadTimeout)
	whisper := transcribe.NewWhisper(cfg.PythonBin, cfg.ScriptsPath, cfg.TranscribeTimeout)

	// Translation providers
	google := translate.NewGoogleTranslator(cfg.ChunkSize, cfg.ChunkDelay)
	nllb := translate.NewNLLBTranslator(cfg.PythonBin, cfg.ScriptsPath, cfg.TranslateTimeout)
	translator := translate.NewService(nllb, google)

	// Model improvement
	improver := training.NewImprover(transcripts, cfg.PythonBin, cfg.ScriptsPath,
		cfg.ModelDir, cfg.TrainingMinQuality, cfg.TrainingTimeout)

	// Pipeline
	pipe := pipeline.New(
		downloader,
		whisper,
		translator,
		langdetect.NewKeywordDetector(),
		pipeline.NewMemoryProgress(cfg.ResultTTL),
		pipeline.NewMemoryResults(cfg.ResultTTL),
		pipeline.NewKnownVideos(),
		transcripts,
		resources,
		improver,
		pipeline.Quality{
			Remote:      cfg.QualityRemote,
			Local:       cfg.QualityLocal,
			Placeholder: cfg.QualityPlaceholder,
		},
	)

	// JWT service
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Create router
	router := api.NewRouter(cfg, database, jwtService, pipe, translator, transcripts, resources)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Data path: %s", cfg.DataPath)
	log.Printf("Scripts path: %s", cfg.ScriptsPath)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
