package config

import (
	"fmt"
	"os"
	"time"
)

// Config is the root configuration for the analysis pipeline.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Backends BackendsConfig `mapstructure:"backends"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Output   OutputConfig   `mapstructure:"output"`
	Metadata MetadataConfig `mapstructure:"metadata"`
	Server   ServerConfig   `mapstructure:"server"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BackendConfig describes one generative model endpoint.
type BackendConfig struct {
	Name        string        `mapstructure:"name"`
	Endpoint    string        `mapstructure:"endpoint"`
	Model       string        `mapstructure:"model"`
	APIKeyEnv   string        `mapstructure:"api_key_env"`
	MaxTokens int `mapstructure:"max_tokens"`
	// Temperature is a pointer so an explicit 0 survives defaulting.
	Temperature *float64      `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// APIKey reads the key from the configured environment variable.
func (b BackendConfig) APIKey() string {
	if b.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(b.APIKeyEnv)
}

// Configured reports whether the backend has enough settings to be called.
func (b BackendConfig) Configured() bool {
	return b.Endpoint != "" && b.Model != ""
}

// BackendsConfig holds the primary model and its backup. The backup is
// consulted only after the primary is exhausted.
type BackendsConfig struct {
	Primary BackendConfig `mapstructure:"primary"`
	Backup  BackendConfig `mapstructure:"backup"`
}

// RetryConfig configures the invoker's retry policy.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// PipelineConfig configures run-level behavior.
type PipelineConfig struct {
	// RunTimeout bounds a whole run. Zero disables the deadline.
	RunTimeout time.Duration `mapstructure:"run_timeout"`
	// StageTimeout bounds one backend attempt inside a stage.
	StageTimeout time.Duration `mapstructure:"stage_timeout"`
}

// OutputConfig configures report persistence.
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Store  string `mapstructure:"store"` // fs or sqlite
	DBPath string `mapstructure:"db_path"`
	Render bool   `mapstructure:"render"`
}

// MetadataConfig configures the external catalog lookup.
type MetadataConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	Email   string        `mapstructure:"email"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServerConfig configures serve mode.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Validate checks cross-field constraints that viper cannot express.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q", c.Log.Format)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.BaseDelay < 0 || c.Retry.MaxDelay < 0 {
		return fmt.Errorf("retry delays must not be negative")
	}
	if c.Retry.Multiplier < 1 {
		return fmt.Errorf("retry.multiplier must be at least 1, got %g", c.Retry.Multiplier)
	}
	switch c.Output.Store {
	case "fs", "sqlite":
	default:
		return fmt.Errorf("invalid output.store %q (want fs or sqlite)", c.Output.Store)
	}
	if c.Output.Store == "sqlite" && c.Output.DBPath == "" {
		return fmt.Errorf("output.db_path is required when output.store is sqlite")
	}
	return nil
}
