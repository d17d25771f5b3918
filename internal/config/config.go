package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Generator backends.
const (
	GeneratorOpenAI = "openai"
	GeneratorAzure  = "azure"
	GeneratorGemini = "gemini"
	GeneratorStatic = "static"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string

	Generator        string
	GeneratorTimeout time.Duration
	PromptPath       string

	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string

	AzureEndpoint   string
	AzureAPIKey     string
	AzureAPIVersion string
	AzureDeployment string

	GeminiAPIKey string
	GeminiModel  string

	StaticQuizDir string

	PrefetchWorkerCount int
	PrefetchQueueSize   int
	PrefetchTarget      int

	CORSOrigins []string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:     envOr("ADDR", ":8080"),
		DBPath:   envOr("DB_PATH", "file:chordflash.db"),
		LogLevel: envOr("LOG_LEVEL", "INFO"),

		Generator:        strings.ToLower(envOr("GENERATOR", GeneratorAzure)),
		GeneratorTimeout: envDurationOr("GENERATOR_TIMEOUT", 60*time.Second),
		PromptPath:       os.Getenv("PROMPT_PATH"),

		OpenAIBaseURL: envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   envOr("OPENAI_MODEL", "gpt-4o"),

		AzureEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureAPIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		AzureAPIVersion: envOr("AZURE_OPENAI_API_VERSION", "2024-10-01-preview"),
		AzureDeployment: envOr("AZURE_OPENAI_DEPLOYMENT", "gpt-4o"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.5-flash"),

		StaticQuizDir: envOr("STATIC_QUIZ_DIR", "testdata/quizzes"),

		PrefetchWorkerCount: envIntOr("PREFETCH_WORKER_COUNT", 1),
		PrefetchQueueSize:   envIntOr("PREFETCH_QUEUE_SIZE", 8),
		PrefetchTarget:      envIntOr("PREFETCH_TARGET", 2),

		CORSOrigins: envListOr("CORS_ORIGINS", nil),
	}
}

// Validate checks that the configuration can start a server. All problems
// are reported together.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Addr == "" {
		add("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		add("DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		add("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel)
	}
	if c.GeneratorTimeout <= 0 {
		add("GENERATOR_TIMEOUT must be positive, got %s", c.GeneratorTimeout)
	}
	if c.PrefetchWorkerCount < 0 {
		add("PREFETCH_WORKER_COUNT cannot be negative, got %d", c.PrefetchWorkerCount)
	}
	if c.PrefetchQueueSize < 1 {
		add("PREFETCH_QUEUE_SIZE must be at least 1, got %d", c.PrefetchQueueSize)
	}
	if c.PrefetchTarget < 0 || c.PrefetchTarget > c.PrefetchQueueSize {
		add("PREFETCH_TARGET must be between 0 and PREFETCH_QUEUE_SIZE (%d), got %d", c.PrefetchQueueSize, c.PrefetchTarget)
	}

	switch c.Generator {
	case GeneratorOpenAI:
		if c.OpenAIAPIKey == "" {
			add("OPENAI_API_KEY is required for GENERATOR=openai")
		}
	case GeneratorAzure:
		if c.AzureEndpoint == "" {
			add("AZURE_OPENAI_ENDPOINT is required for GENERATOR=azure")
		}
		if c.AzureAPIKey == "" {
			add("AZURE_OPENAI_API_KEY is required for GENERATOR=azure")
		}
	case GeneratorGemini:
		if c.GeminiAPIKey == "" {
			add("GEMINI_API_KEY is required for GENERATOR=gemini")
		}
	case GeneratorStatic:
		if c.StaticQuizDir == "" {
			add("STATIC_QUIZ_DIR is required for GENERATOR=static")
		}
	default:
		add("GENERATOR must be one of openai, azure, gemini, static; got %q", c.Generator)
	}

	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
