package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr       string
	DataDir        string
	AllowedOrigins []string
	SessionTTL     time.Duration
	LogPretty      bool
}

func Load() Config {
	ttl, err := time.ParseDuration(getenv("SESSION_TTL", "24h"))
	if err != nil {
		ttl = 24 * time.Hour
	}
	return Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8081"),
		DataDir:        getenv("DATA_DIR", "./data"),
		AllowedOrigins: splitCSV(getenv("ALLOWED_ORIGINS", "http://localhost:4200,http://127.0.0.1:4200")),
		SessionTTL:     ttl,
		LogPretty:      getenv("LOG_PRETTY", "") == "true",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
