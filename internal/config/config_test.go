package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/config"
)

func TestLoad_RequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error without SESSION_SECRET")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("BOOTSTRAP_EMAIL", "")
	t.Setenv("BOOTSTRAP_PASSWORD", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %s", cfg.LogLevel)
	}
}

func TestLoad_BootstrapPair(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("BOOTSTRAP_EMAIL", "anna@example.com")
	t.Setenv("BOOTSTRAP_PASSWORD", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error when only BOOTSTRAP_EMAIL is set")
	}
}

func TestLoadClient_FileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "backend_url: http://files.example\nsession_file: /tmp/hb-session.json\nhttp_timeout: 5s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("HB_BACKEND_URL", "")
	t.Setenv("HB_SESSION_FILE", "")
	t.Setenv("HB_HTTP_TIMEOUT", "")

	cfg, err := config.LoadClient(path)
	if err != nil {
		t.Fatalf("loading client config: %v", err)
	}
	if cfg.BackendURL != "http://files.example" {
		t.Errorf("expected backend from file, got %s", cfg.BackendURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.HTTPTimeout)
	}

	t.Setenv("HB_BACKEND_URL", "http://env.example")
	t.Setenv("HB_HTTP_TIMEOUT", "30s")

	cfg, err = config.LoadClient(path)
	if err != nil {
		t.Fatalf("loading client config: %v", err)
	}
	if cfg.BackendURL != "http://env.example" {
		t.Errorf("expected backend from env, got %s", cfg.BackendURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.HTTPTimeout)
	}
	if cfg.SessionFile != "/tmp/hb-session.json" {
		t.Errorf("expected session file from yaml, got %s", cfg.SessionFile)
	}
}

func TestLoadClient_MissingFile(t *testing.T) {
	t.Setenv("HB_BACKEND_URL", "")
	t.Setenv("HB_HTTP_TIMEOUT", "")
	t.Setenv("HB_SESSION_FILE", "")

	cfg, err := config.LoadClient(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("loading client config: %v", err)
	}
	if cfg.BackendURL != config.DefaultBackendURL {
		t.Errorf("expected default backend, got %s", cfg.BackendURL)
	}
	if cfg.HTTPTimeout != config.DefaultHTTPTimeout {
		t.Errorf("expected default timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.SessionFile != config.DefaultSessionPath() {
		t.Errorf("expected default session file, got %s", cfg.SessionFile)
	}
}

func TestLoadClient_BadTimeout(t *testing.T) {
	t.Setenv("HB_HTTP_TIMEOUT", "soon")

	if _, err := config.LoadClient(""); err == nil {
		t.Fatal("expected error for unparsable timeout")
	}
}
