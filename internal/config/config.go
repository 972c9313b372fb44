package config

import "time"

type Duration struct {
	Duration time.Duration
}

type APIConfig struct {
	BaseURL   string   `yaml:"base_url"`
	Timeout   Duration `yaml:"timeout"`
	UserAgent string   `yaml:"user_agent,omitempty"`
	PageSize  int      `yaml:"page_size,omitempty"`
}

type StateConfig struct {
	// Dir holds the local sqlite store that keeps the session token.
	Dir string `yaml:"dir"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name,omitempty"`
}

type DevAPIConfig struct {
	Addr        string   `yaml:"addr"`
	DatabaseURL string   `yaml:"database_url"`
	JWTSecret   string   `yaml:"jwt_secret"`
	TokenTTL    Duration `yaml:"token_ttl"`
	UploadDir   string   `yaml:"upload_dir"`
	PublicURL   string   `yaml:"public_url,omitempty"`
	FontPath    string   `yaml:"font_path,omitempty"`
}

type Config struct {
	Env       string          `yaml:"env"`
	API       APIConfig       `yaml:"api"`
	State     StateConfig     `yaml:"state"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	DevAPI    DevAPIConfig    `yaml:"devapi"`

	// Path is the file the config was read from, empty when only defaults and env applied.
	Path string `yaml:"-"`
}

// StatePath is the sqlite file inside State.Dir.
func (c *Config) StatePath() string {
	return joinPath(c.State.Dir, "state.db")
}
