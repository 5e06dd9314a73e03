// Package config reads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultAddr     = ":8080"
	defaultDatabase = "voicecart.db"
	defaultLogLevel = "info"
)

type Config struct {
	Addr         string
	DatabasePath string
	LogLevel     string
}

// Load reads VOICECART_* variables, falling back to a .env file and then
// to defaults. A missing .env file is not an error.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Addr:         envOr("VOICECART_ADDR", defaultAddr),
		DatabasePath: envOr("VOICECART_DB", defaultDatabase),
		LogLevel:     envOr("VOICECART_LOG", defaultLogLevel),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
