package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/apprende-client/internal/platform/envutil"
)

// UnmarshalYAML accepts "5s" style strings or an integer number of seconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	s := strings.TrimSpace(node.Value)
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	if s == "" || s == "null" || s == "~" {
		d.Duration = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		d.Duration = time.Duration(n) * time.Second
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: duration must look like \"5s\" or be whole seconds: %w", node.Line, err)
	}
	d.Duration = dd
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		API: APIConfig{
			BaseURL:  "http://localhost:8000",
			Timeout:  Duration{Duration: 15 * time.Second},
			PageSize: 100,
		},
		State: StateConfig{Dir: defaultStateDir()},
		Telemetry: TelemetryConfig{
			ServiceName: "apprende",
		},
		DevAPI: DevAPIConfig{
			Addr:        ":8000",
			DatabaseURL: "apprende-dev.db",
			JWTSecret:   "defaultsecret",
			TokenTTL:    Duration{Duration: time.Hour},
			UploadDir:   "uploads",
		},
	}
}

// Load applies, in order: defaults, the YAML file, then environment overrides.
// The file is APPRENDE_CONFIG, else $XDG_CONFIG_HOME/apprende/config.yaml when it exists.
func Load() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("APPRENDE_CONFIG"))
	explicit := cfgPath != ""
	if !explicit {
		if dir, err := os.UserConfigDir(); err == nil {
			p := filepath.Join(dir, "apprende", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
		cfg.Path = cfgPath
	}

	applyEnv(cfg)

	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.API.BaseURL = envutil.String("APPRENDE_API_URL", cfg.API.BaseURL)
	cfg.API.Timeout.Duration = envutil.Duration("APPRENDE_TIMEOUT", cfg.API.Timeout.Duration)
	cfg.State.Dir = envutil.String("APPRENDE_STATE_DIR", cfg.State.Dir)
	cfg.Telemetry.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)

	cfg.DevAPI.Addr = envutil.String("DEVAPI_ADDR", cfg.DevAPI.Addr)
	cfg.DevAPI.DatabaseURL = envutil.String("DEVAPI_DATABASE_URL", cfg.DevAPI.DatabaseURL)
	cfg.DevAPI.JWTSecret = envutil.String("JWT_SECRET_KEY", cfg.DevAPI.JWTSecret)
	cfg.DevAPI.TokenTTL.Duration = envutil.Duration("ACCESS_TOKEN_TTL", cfg.DevAPI.TokenTTL.Duration)
	cfg.DevAPI.UploadDir = envutil.String("DEVAPI_UPLOAD_DIR", cfg.DevAPI.UploadDir)
	cfg.DevAPI.PublicURL = envutil.String("DEVAPI_PUBLIC_URL", cfg.DevAPI.PublicURL)
	cfg.DevAPI.FontPath = envutil.String("CERTIFICATE_FONT", cfg.DevAPI.FontPath)
}

func finalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url %q must be an http(s) URL", cfg.API.BaseURL)
	}
	if cfg.API.Timeout.Duration <= 0 {
		cfg.API.Timeout.Duration = 15 * time.Second
	}
	if cfg.API.PageSize <= 0 {
		cfg.API.PageSize = 100
	}

	if strings.TrimSpace(cfg.State.Dir) == "" {
		cfg.State.Dir = defaultStateDir()
	}
	if strings.TrimSpace(cfg.Telemetry.ServiceName) == "" {
		cfg.Telemetry.ServiceName = "apprende"
	}

	if strings.TrimSpace(cfg.DevAPI.Addr) == "" {
		cfg.DevAPI.Addr = ":8000"
	}
	if strings.TrimSpace(cfg.DevAPI.JWTSecret) == "" {
		return errors.New("devapi.jwt_secret is required")
	}
	if cfg.DevAPI.TokenTTL.Duration <= 0 {
		cfg.DevAPI.TokenTTL.Duration = time.Hour
	}
	if strings.TrimSpace(cfg.DevAPI.UploadDir) == "" {
		cfg.DevAPI.UploadDir = "uploads"
	}
	cfg.DevAPI.PublicURL = strings.TrimRight(strings.TrimSpace(cfg.DevAPI.PublicURL), "/")
	return nil
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "apprende")
	}
	return ".apprende"
}

func joinPath(dir, name string) string {
	return filepath.Join(dir, name)
}
