package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBackendURL  = "http://localhost:8080"
	DefaultHTTPTimeout = 15 * time.Second
)

// ClientConfig configures the hb command line client.
type ClientConfig struct {
	BackendURL  string        `yaml:"backend_url"`
	SessionFile string        `yaml:"session_file"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	LogLevel    string        `yaml:"log_level"`
}

// DefaultClientPath is $XDG_CONFIG_HOME/hb/config.yaml.
func DefaultClientPath() string {
	return filepath.Join(xdg.ConfigHome, "hb", "config.yaml")
}

// DefaultSessionPath is $XDG_STATE_HOME/hb/session.json.
func DefaultSessionPath() string {
	return filepath.Join(xdg.StateHome, "hb", "session.json")
}

// LoadClient reads the YAML file at path, then applies HB_* environment
// overrides. A missing file is not an error.
func LoadClient(path string) (ClientConfig, error) {
	config := ClientConfig{
		BackendURL:  DefaultBackendURL,
		HTTPTimeout: DefaultHTTPTimeout,
		LogLevel:    "warn",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return ClientConfig{}, fmt.Errorf("reading client config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return ClientConfig{}, fmt.Errorf("parsing client config: %w", err)
			}
		}
	}

	config.BackendURL = envOrDefault("HB_BACKEND_URL", config.BackendURL)
	config.SessionFile = envOrDefault("HB_SESSION_FILE", config.SessionFile)
	config.LogLevel = envOrDefault("HB_LOG_LEVEL", config.LogLevel)
	if raw := os.Getenv("HB_HTTP_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return ClientConfig{}, fmt.Errorf("parsing HB_HTTP_TIMEOUT: %w", err)
		}
		config.HTTPTimeout = timeout
	}

	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = DefaultHTTPTimeout
	}
	if config.SessionFile == "" {
		config.SessionFile = DefaultSessionPath()
	}

	return config, nil
}
