package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

const (
	TransactionsAuto = "auto"
	TransactionsOn   = "on"
	TransactionsOff  = "off"
)

type Config struct {
	Env               string
	Port              string
	MongoURI          string
	DBName            string
	MongoTransactions string
	LowStockThreshold int
	CORSOrigins       []string
	RedisAddr         string
	RedisPassword     string
	StatsCacheTTL     time.Duration
	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string
	AccessTokenTTL    time.Duration
}

func Load() {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env not loaded", "error", err)
	}
	AppEnv = Config{
		Env:               getEnvOrDefault("APP_ENV", "development"),
		Port:              getEnvOrDefault("PORT", "5000"),
		MongoURI:          getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		DBName:            getEnvOrDefault("DB_NAME", "provision_store"),
		MongoTransactions: getTransactionsMode("MONGO_TRANSACTIONS"),
		LowStockThreshold: getIntEnv("LOW_STOCK_THRESHOLD", 10),
		CORSOrigins:       getListEnv("CORS_ORIGINS", []string{"*"}),
		RedisAddr:         getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword:     getEnvOrDefault("REDIS_PASSWORD", ""),
		StatsCacheTTL:     getDurationEnv("STATS_CACHE_TTL", 30, time.Second),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", ""),
		AdminEmail:        strings.ToLower(getEnvOrDefault("ADMIN_EMAIL", "")),
		AdminPasswordHash: getEnvOrDefault("ADMIN_PASSWORD_HASH", ""),
		AccessTokenTTL:    getDurationEnv("ACCESS_TOKEN_TTL", 60, time.Minute),
	}
}

// AuthEnabled reports whether mutating routes require an admin token.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func (c Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 {
			return parsed
		}
		slog.Warn("ignoring invalid integer env", "key", key, "value", value)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getListEnv(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	out := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getTransactionsMode(key string) string {
	switch mode := strings.ToLower(getEnvOrDefault(key, TransactionsAuto)); mode {
	case TransactionsOn, "true", "1":
		return TransactionsOn
	case TransactionsOff, "false", "0":
		return TransactionsOff
	default:
		return TransactionsAuto
	}
}
