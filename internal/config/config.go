package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	DatabasePath      string
	OIDCIssuer        string
	OIDCClientID      string
	OIDCClientSecret  string
	OIDCRedirectURL   string
	SessionSecret     string
	BootstrapEmail    string
	BootstrapPassword string
	LogLevel          string
	Port              string
}

func Load() (Config, error) {
	config := Config{
		DatabasePath:      envOrDefault("DATABASE_PATH", "./data/app-dashboard.db"),
		OIDCIssuer:        os.Getenv("OIDC_ISSUER"),
		OIDCClientID:      os.Getenv("OIDC_CLIENT_ID"),
		OIDCClientSecret:  os.Getenv("OIDC_CLIENT_SECRET"),
		OIDCRedirectURL:   os.Getenv("OIDC_REDIRECT_URL"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		BootstrapEmail:    os.Getenv("BOOTSTRAP_EMAIL"),
		BootstrapPassword: os.Getenv("BOOTSTRAP_PASSWORD"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		Port:              envOrDefault("PORT", "8080"),
	}

	if config.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}
	if (config.BootstrapEmail == "") != (config.BootstrapPassword == "") {
		return Config{}, fmt.Errorf("BOOTSTRAP_EMAIL and BOOTSTRAP_PASSWORD must be set together")
	}

	return config, nil
}

// NewLogger builds a text logger for the given level name. Unknown names fall back to info.
func NewLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn", "warning":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel}))
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
