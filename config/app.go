package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/adminkit/validation"
)

// Credential backends.
const (
	BackendFile  = "file"
	BackendEnv   = "env"
	BackendRedis = "redis"
)

// Notification modes.
const (
	NotifyTerminal = "terminal"
	NotifyLog      = "log"
	NotifyQuiet    = "quiet"
)

// AppConfig is the full adminctl configuration.
type AppConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	API        APIConfig        `yaml:"api" mapstructure:"api"`
	Credential CredentialConfig `yaml:"credential" mapstructure:"credential"`
	Query      QueryConfig      `yaml:"query" mapstructure:"query"`
	Notify     NotifyConfig     `yaml:"notify" mapstructure:"notify"`
	Tracing    TracingConfig    `yaml:"tracing" mapstructure:"tracing"`
}

// APIConfig points at the remote admin API.
type APIConfig struct {
	BaseURL string            `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration     `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
}

// CredentialConfig selects where the bearer token lives.
type CredentialConfig struct {
	Backend       string      `yaml:"backend" mapstructure:"backend"`
	Path          string      `yaml:"path" mapstructure:"path"`
	EncryptionKey string      `yaml:"encryption_key" mapstructure:"encryption_key"`
	EnvVar        string      `yaml:"env_var" mapstructure:"env_var"`
	Redis         RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig configures the shared redis token store.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db" validate:"gte=0"`
	Key      string `yaml:"key" mapstructure:"key"`
}

// QueryConfig tunes the query cache.
type QueryConfig struct {
	StaleTime     time.Duration `yaml:"stale_time" mapstructure:"stale_time"`
	RetryAttempts int           `yaml:"retry_attempts" mapstructure:"retry_attempts" validate:"gte=0,lte=10"`
}

// NotifyConfig selects how notifications are rendered.
type NotifyConfig struct {
	Mode    string `yaml:"mode" mapstructure:"mode"`
	NoColor bool   `yaml:"no_color" mapstructure:"no_color"`
}

// TracingConfig enables OTLP export of traces and metrics.
type TracingConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint        string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure        bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate      float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	MetricsInterval time.Duration `yaml:"metrics_interval" mapstructure:"metrics_interval"`
}

// ApplyDefaults fills zero-value fields.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()

	if c.API.Timeout <= 0 {
		c.API.Timeout = 30 * time.Second
	}

	if c.Credential.Backend == "" {
		c.Credential.Backend = BackendFile
	}
	if c.Credential.Path == "" {
		c.Credential.Path = DefaultTokenPath()
	}
	if c.Credential.EnvVar == "" {
		c.Credential.EnvVar = "ADMINCTL_TOKEN"
	}
	if c.Credential.Redis.Key == "" {
		c.Credential.Redis.Key = "adminctl:token"
	}

	if c.Query.StaleTime == 0 {
		c.Query.StaleTime = 30 * time.Second
	}
	if c.Query.RetryAttempts == 0 {
		c.Query.RetryAttempts = 3
	}

	if c.Notify.Mode == "" {
		c.Notify.Mode = NotifyTerminal
	}

	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = "localhost:4318"
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}
	if c.Tracing.MetricsInterval <= 0 {
		c.Tracing.MetricsInterval = 15 * time.Second
	}
}

// Validate checks the configuration after defaults have been applied.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}

	v := validation.New()
	v.URL("api.base_url", c.API.BaseURL)
	v.OneOf("credential.backend", c.Credential.Backend, []string{BackendFile, BackendEnv, BackendRedis})
	v.OneOf("notify.mode", c.Notify.Mode, []string{NotifyTerminal, NotifyLog, NotifyQuiet})
	v.Custom(c.Credential.EncryptionKey == "" || c.Credential.Backend == BackendFile,
		"credential.encryption_key", "only applies to the file backend")
	switch c.Credential.Backend {
	case BackendFile:
		v.Required("credential.path", c.Credential.Path)
	case BackendEnv:
		v.Required("credential.env_var", c.Credential.EnvVar)
	case BackendRedis:
		v.Required("credential.redis.addr", c.Credential.Redis.Addr)
		v.Required("credential.redis.key", c.Credential.Redis.Key)
	}
	if c.Tracing.Enabled {
		v.Required("tracing.endpoint", c.Tracing.Endpoint)
	}
	return v.Validate()
}

// DefaultTokenPath returns the token file location under the user config dir.
func DefaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".adminctl", "token")
	}
	return filepath.Join(dir, "adminctl", "token")
}

// String renders a redacted one-line summary for debug logs.
func (c *AppConfig) String() string {
	return fmt.Sprintf("api=%s timeout=%s credential=%s notify=%s tracing=%t",
		c.API.BaseURL, c.API.Timeout, c.Credential.Backend, c.Notify.Mode, c.Tracing.Enabled)
}
