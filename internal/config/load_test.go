package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{
		"APPRENDE_CONFIG", "APPRENDE_API_URL", "APPRENDE_TIMEOUT", "APPRENDE_STATE_DIR",
		"LOG_MODE", "OTEL_ENABLED", "OTEL_SERVICE_NAME", "DEVAPI_ADDR", "DEVAPI_DATABASE_URL",
		"JWT_SECRET_KEY", "ACCESS_TOKEN_TTL", "DEVAPI_UPLOAD_DIR", "DEVAPI_PUBLIC_URL", "CERTIFICATE_FONT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" || cfg.API.Timeout.Duration != 15*time.Second {
		t.Fatalf("unexpected api defaults: %+v", cfg.API)
	}
	if cfg.Path != "" {
		t.Fatalf("no file should have been read, got %q", cfg.Path)
	}
	if !strings.HasSuffix(cfg.StatePath(), filepath.Join("apprende", "state.db")) {
		t.Fatalf("state path = %q", cfg.StatePath())
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	isolate(t)
	p := writeConfig(t, `
env: production
api:
  base_url: https://api.example.com/
  timeout: 30
  page_size: 20
state:
  dir: /tmp/apprende-state
devapi:
  token_ttl: 2h
`)
	t.Setenv("APPRENDE_CONFIG", p)
	t.Setenv("APPRENDE_TIMEOUT", "750ms")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != p || cfg.Env != "production" {
		t.Fatalf("file not applied: %+v", cfg)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Fatalf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout.Duration != 750*time.Millisecond {
		t.Fatalf("env should override file timeout, got %v", cfg.API.Timeout.Duration)
	}
	if cfg.API.PageSize != 20 || cfg.State.Dir != "/tmp/apprende-state" {
		t.Fatalf("file values lost: %+v", cfg)
	}
	if cfg.DevAPI.TokenTTL.Duration != 2*time.Hour {
		t.Fatalf("token ttl = %v", cfg.DevAPI.TokenTTL.Duration)
	}
	if !cfg.Telemetry.Enabled {
		t.Fatalf("OTEL_ENABLED should enable telemetry")
	}
	// untouched sections keep their defaults
	if cfg.DevAPI.Addr != ":8000" {
		t.Fatalf("devapi addr = %q", cfg.DevAPI.Addr)
	}
}

func TestLoadXDGConfig(t *testing.T) {
	isolate(t)
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	dir := filepath.Join(home, "apprende")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api:\n  base_url: http://10.0.0.2:9000\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://10.0.0.2:9000" {
		t.Fatalf("base url = %q", cfg.API.BaseURL)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"bad base url", "api:\n  base_url: ftp://example.com\n", "http(s) URL"},
		{"bad duration", "api:\n  timeout: soon\n", "duration"},
		{"empty secret", "devapi:\n  jwt_secret: \"\"\n", "jwt_secret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			t.Setenv("APPRENDE_CONFIG", writeConfig(t, tc.body))
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	t.Setenv("APPRENDE_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}
