package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ClientEnv configures the API client used by the CLI commands.
type ClientEnv struct {
	BaseURL    string
	Token      string
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

func LoadClientEnv() ClientEnv {
	_ = godotenv.Load()

	return ClientEnv{
		BaseURL:    strings.TrimRight(getEnvOrDefault("API_BASE_URL", "http://localhost:5000/api"), "/"),
		Token:      getEnvOrDefault("API_TOKEN", ""),
		MaxRetries: getIntEnv("API_MAX_RETRIES", 3),
		RetryDelay: getDurationEnv("API_RETRY_DELAY_MS", 1500, time.Millisecond),
		Timeout:    getDurationEnv("API_TIMEOUT", 10, time.Second),
	}
}
