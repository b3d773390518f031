// Package config loads the server shim configuration from the environment,
// with a local .env file as a convenience during development.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string
	APIBaseURL     string
	AllowedOrigins []string
	LogLevel       string
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() Config {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	origins := strings.Split(getEnv("SKILLFORGE_ALLOWED_ORIGINS", "*"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return Config{
		Addr:           getEnv("SKILLFORGE_ADDR", ":8000"),
		APIBaseURL:     getEnv("SKILLFORGE_API_URL", "http://localhost:8080"),
		AllowedOrigins: origins,
		LogLevel:       getEnv("SKILLFORGE_LOG_LEVEL", "info"),
	}
}
