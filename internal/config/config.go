// Package config loads the process configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// DatabasePath is the location of the JSON document holding all state.
	DatabasePath string
	// JWTSecret signs session tokens. Required.
	JWTSecret string
	// AllowedOrigins is the CORS allowlist, comma-separated in the env.
	AllowedOrigins []string
	// Dev switches logging to the human-readable development encoder.
	Dev bool
}

func Load() (*Config, error) {
	// Best effort; a missing .env just means plain env vars.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:           getenv("STORYLOOM_ADDR", ":8080"),
		DatabasePath:   getenv("STORYLOOM_DB_PATH", "database.json"),
		JWTSecret:      os.Getenv("STORYLOOM_JWT_SECRET"),
		AllowedOrigins: splitList(getenv("STORYLOOM_ALLOWED_ORIGINS", "http://localhost:8081")),
		Dev:            os.Getenv("STORYLOOM_DEV") == "true",
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("STORYLOOM_JWT_SECRET is required")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
