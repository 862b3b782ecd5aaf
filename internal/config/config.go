package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	Port         string
	DatabasePath string
	LogLevel     string

	// Upload storage
	StorageBackend string
	UploadDir      string

	// S3
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// OpenAI-compatible chat completions (OpenAI, OpenRouter)
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Which provider serves which stage
	TimelineProvider string
	AnalysisProvider string
	LLMTimeout       time.Duration

	// Gmail
	GmailCredentialsFile string
	GmailTokenFile       string

	// Upload limits
	MaxFileSize int64
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		DatabasePath:         getEnv("DATABASE_URL", "./data/legal_evidence.db"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		StorageBackend:       strings.ToLower(getEnv("STORAGE_BACKEND", StorageLocal)),
		UploadDir:            getEnv("UPLOAD_DIR", "./uploads"),
		S3Endpoint:           getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:        getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey:    getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:         getEnv("S3_BUCKET_NAME", "evidence"),
		S3UseSSL:             getEnv("S3_USE_SSL", "false") == "true",
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:          getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", "")),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		TimelineProvider:     strings.ToLower(getEnv("TIMELINE_PROVIDER", ProviderGemini)),
		AnalysisProvider:     strings.ToLower(getEnv("ANALYSIS_PROVIDER", ProviderOpenAI)),
		LLMTimeout:           time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 120)) * time.Second,
		GmailCredentialsFile: getEnv("GMAIL_CREDENTIALS_FILE", "credentials.json"),
		GmailTokenFile:       getEnv("GMAIL_TOKEN_FILE", "token.json"),
		MaxFileSize:          int64(getEnvInt("MAX_FILE_SIZE", 10*1024*1024)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every selected provider has credentials and that
// enumerated settings hold known values.
func (c *Config) Validate() error {
	for _, p := range []struct{ stage, provider string }{
		{"TIMELINE_PROVIDER", c.TimelineProvider},
		{"ANALYSIS_PROVIDER", c.AnalysisProvider},
	} {
		switch p.provider {
		case ProviderOpenAI:
			if c.OpenAIAPIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY is required when %s=%s", p.stage, p.provider)
			}
		case ProviderGemini:
			if c.GeminiAPIKey == "" {
				return fmt.Errorf("GEMINI_API_KEY is required when %s=%s", p.stage, p.provider)
			}
		default:
			return fmt.Errorf("unknown %s %q (use %s or %s)", p.stage, p.provider, ProviderOpenAI, ProviderGemini)
		}
	}

	if c.StorageBackend != StorageLocal && c.StorageBackend != StorageS3 {
		return fmt.Errorf("unknown STORAGE_BACKEND %q (use %s or %s)", c.StorageBackend, StorageLocal, StorageS3)
	}

	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return i
}
