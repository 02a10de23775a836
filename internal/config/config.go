// Package config loads SmartNotes configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreSQLite  = "sqlite"
	StoreSurreal = "surreal"
)

// LLM providers.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration values.
type Config struct {
	// Store backend
	StoreBackend string
	SQLitePath   string

	// SurrealDB connection (when StoreBackend == "surreal")
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string

	// Inference service
	Provider        string
	LLMModel        string
	EmbedModel      string
	EmbedDimension  int
	OllamaHost      string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// Agent loop
	MaxAgentTurns int
	ChatTimeout   time.Duration
	HistoryWindow int

	// HTTP API
	APIAddr string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		StoreBackend: getEnv("SMARTNOTES_STORE", StoreSQLite),
		SQLitePath:   getEnv("SMARTNOTES_DB_PATH", "smartnotes.db"),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "smartnotes"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "notes"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),

		Provider:        getEnv("SMARTNOTES_PROVIDER", ProviderOllama),
		LLMModel:        getEnv("SMARTNOTES_LLM_MODEL", "llama3.2"),
		EmbedModel:      getEnv("SMARTNOTES_EMBED_MODEL", "all-minilm:l6-v2"),
		EmbedDimension:  getEnvInt("SMARTNOTES_EMBED_DIMENSION", 384),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),

		MaxAgentTurns: getEnvInt("SMARTNOTES_MAX_AGENT_TURNS", 5),
		ChatTimeout:   getEnvDuration("SMARTNOTES_CHAT_TIMEOUT", 20*time.Second),
		HistoryWindow: getEnvInt("SMARTNOTES_HISTORY_WINDOW", 10),

		APIAddr: getEnv("SMARTNOTES_API_ADDR", "localhost:8000"),

		LogFile:  getEnv("SMARTNOTES_LOG_FILE", "smartnotes.log"),
		LogLevel: parseLogLevel(getEnv("SMARTNOTES_LOG_LEVEL", "INFO")),
	}
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.StoreBackend, validation.Required,
			validation.In(StoreSQLite, StoreSurreal)),
		validation.Field(&c.Provider, validation.Required,
			validation.In(ProviderOllama, ProviderOpenAI, ProviderAnthropic)),
		validation.Field(&c.EmbedDimension, validation.Min(1)),
		validation.Field(&c.MaxAgentTurns, validation.Min(1)),
		validation.Field(&c.OpenAIAPIKey,
			validation.Required.When(c.Provider == ProviderOpenAI).
				Error("OPENAI_API_KEY required for openai provider")),
		validation.Field(&c.AnthropicAPIKey,
			validation.Required.When(c.Provider == ProviderAnthropic).
				Error("ANTHROPIC_API_KEY required for anthropic provider")),
	)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("invalid integer in environment, using default",
			"key", key, "value", val, "default", defaultVal)
		return defaultVal
	}
	return n
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		slog.Warn("invalid duration in environment, using default",
			"key", key, "value", val, "default", defaultVal.String())
		return defaultVal
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
