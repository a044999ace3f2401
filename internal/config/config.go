package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port          int
	DataPath      string
	TempPath      string
	DBPath        string
	ScriptsPath   string
	PythonBin     string
	JWTSecret     string
	AdminUsername string
	AdminPassword string
	CORSOrigins   []string

	DownloadTimeout   time.Duration
	TranscribeTimeout time.Duration
	TranslateTimeout  time.Duration

	// Remote translation settings
	ChunkSize  int
	ChunkDelay time.Duration

	// Caches
	ResultTTL        time.Duration
	ResourceCacheMax int64
	ResourceTTL      time.Duration

	// Transcript quality tags and training gate. The 75/85/50 values
	// come from the original deployment and are kept as-is.
	QualityRemote      int
	QualityLocal       int
	QualityPlaceholder int
	TrainingMinQuality int
	ModelDir           string
	TrainingTimeout    time.Duration
}

func Load() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	dataPath := getEnv("DATA_PATH", "./data")

	// JWT secret: require explicit setting or generate random
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			log.Fatalf("Failed to generate random JWT secret: %v", err)
		}
		jwtSecret = hex.EncodeToString(b)
		log.Println("WARNING: JWT_SECRET not set, using random secret. Sessions will not survive restarts. Set JWT_SECRET env var for persistent sessions.")
	}

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		Port:          port,
		DataPath:      dataPath,
		TempPath:      getEnv("TEMP_PATH", dataPath+"/temp"),
		DBPath:        getEnv("DB_PATH", dataPath+"/transcriber.db"),
		ScriptsPath:   getEnv("SCRIPTS_PATH", "./scripts"),
		PythonBin:     getEnv("PYTHON_BIN", "python3"),
		JWTSecret:     jwtSecret,
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),
		CORSOrigins:   corsOrigins,

		DownloadTimeout:   getDuration("DOWNLOAD_TIMEOUT", 5*time.Minute),
		TranscribeTimeout: getDuration("TRANSCRIBE_TIMEOUT", 10*time.Minute),
		TranslateTimeout:  getDuration("TRANSLATE_TIMEOUT", 10*time.Minute),

		ChunkSize:  getInt("TRANSLATE_CHUNK_SIZE", 5000),
		ChunkDelay: getDuration("TRANSLATE_CHUNK_DELAY", 500*time.Millisecond),

		ResultTTL:        getDuration("RESULT_TTL", 24*time.Hour),
		ResourceCacheMax: int64(getInt("RESOURCE_CACHE_MAX", 50*1024*1024)),
		ResourceTTL:      getDuration("RESOURCE_TTL", 24*time.Hour),

		QualityRemote:      getInt("QUALITY_REMOTE", 75),
		QualityLocal:       getInt("QUALITY_LOCAL", 85),
		QualityPlaceholder: getInt("QUALITY_PLACEHOLDER", 30),
		TrainingMinQuality: getInt("TRAINING_MIN_QUALITY", 50),
		ModelDir:           getEnv("MODEL_DIR", dataPath+"/models/nllb"),
		TrainingTimeout:    getDuration("TRAINING_TIMEOUT", 30*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
