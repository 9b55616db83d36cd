// Package config loads configuration from environment variables.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// LLM provider identifiers.
const (
	ProviderGoogleAI = "googleai"
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
)

// Config holds all configuration values.
type Config struct {
	// HTTP server
	ServerHost string
	ServerPort string

	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// LLM completion
	LLMProvider  string
	LLMModel     string
	GeminiAPIKey string
	OpenAIAPIKey string
	OllamaHost   string

	// Orchestration tuning
	HistoryWindow int // prior messages passed to the primary agent
	MemoryLimit   int // top-N memories injected into chat context

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Optional persona overrides (YAML)
	PersonaFile string
}

// Load reads configuration from environment variables.
// Defaults for HistoryWindow and MemoryLimit match the hosted backend
// this service replaces (10 messages, 3 memories).
func Load() Config {
	return Config{
		ServerHost: getEnv("SURROGATE_HOST", ""),
		ServerPort: getEnv("SURROGATE_PORT", "8090"),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "surrogate"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "companion"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:  getEnv("SURROGATE_LLM_PROVIDER", ProviderGoogleAI),
		LLMModel:     getEnv("SURROGATE_LLM_MODEL", "gemini-1.5-flash"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OllamaHost:   getEnv("OLLAMA_HOST", "http://localhost:11434"),

		HistoryWindow: getEnvInt("SURROGATE_HISTORY_WINDOW", 10),
		MemoryLimit:   getEnvInt("SURROGATE_MEMORY_LIMIT", 3),

		LogFile:  getEnv("SURROGATE_LOG_FILE", "/tmp/surrogate.log"),
		LogLevel: parseLogLevel(getEnv("SURROGATE_LOG_LEVEL", "INFO")),

		PersonaFile: getEnv("SURROGATE_PERSONA_FILE", ""),
	}
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
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
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
