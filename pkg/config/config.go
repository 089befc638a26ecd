// Package config loads service settings from the environment. A .env file,
// when present, is folded into the environment before loading.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings is the resolved service configuration.
type Settings struct {
	// APIV1 is the URL prefix for versioned API routes, e.g. "/api/v1".
	APIV1 string
	Host  string
	Port  int

	OpenAIAPIKey  string
	OpenAIAPIBase string
	OpenAIModel   string

	MaxHistoryMessages int
	MaxIterations      int
	ExtraIterations    int
}

// Defaults applied when the corresponding variable is unset.
const (
	DefaultHost               = "0.0.0.0"
	DefaultPort               = 8000
	DefaultModel              = "gpt-4o-mini"
	DefaultMaxHistoryMessages = 10
	DefaultMaxIterations      = 3
	DefaultExtraIterations    = 1
)

// Load reads settings from the environment. A missing .env file is fine;
// explicit environment variables always win over file contents.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Could not load .env file", "error", err)
	}

	s := &Settings{
		APIV1:              getEnv("API_V1", ""),
		Host:               getEnv("HOST", DefaultHost),
		Port:               getEnvInt("PORT", DefaultPort),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIAPIBase:      getEnv("OPENAI_API_BASE", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", DefaultModel),
		MaxHistoryMessages: getEnvInt("MAX_HISTORY_MESSAGES", DefaultMaxHistoryMessages),
		MaxIterations:      getEnvInt("MAX_ITERATIONS", DefaultMaxIterations),
		ExtraIterations:    getEnvInt("EXTRA_ITERATIONS", DefaultExtraIterations),
	}

	if s.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if s.Port < 1 || s.Port > 65535 {
		return nil, fmt.Errorf("PORT %d is out of range", s.Port)
	}
	return s, nil
}

// Addr returns the host:port the HTTP server binds to.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Ignoring non-integer environment value", "key", key, "value", value)
		return fallback
	}
	return n
}
