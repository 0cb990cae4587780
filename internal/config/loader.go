package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v:         viper.New(),
		envPrefix: "SCHOLARMIND",
	}
}

// NewLoaderWithViper creates a loader using an existing viper instance so
// CLI flag bindings participate in precedence.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: "SCHOLARMIND",
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (SCHOLARMIND_*)
// 3. Project config (.scholarmind.yaml in current directory)
// 4. User config (~/.config/scholarmind/config.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(".scholarmind")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "scholarmind"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (l *Loader) setDefaults() {
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")

	l.v.SetDefault("backends.primary.name", "primary")
	l.v.SetDefault("backends.primary.endpoint", "")
	l.v.SetDefault("backends.primary.model", "")
	l.v.SetDefault("backends.primary.api_key_env", "SCHOLARMIND_API_KEY")
	l.v.SetDefault("backends.primary.max_tokens", 4096)
	l.v.SetDefault("backends.primary.temperature", 0.3)
	l.v.SetDefault("backends.primary.timeout", "120s")
	l.v.SetDefault("backends.backup.name", "backup")
	l.v.SetDefault("backends.backup.endpoint", "")
	l.v.SetDefault("backends.backup.model", "")
	l.v.SetDefault("backends.backup.api_key_env", "SCHOLARMIND_BACKUP_API_KEY")
	l.v.SetDefault("backends.backup.max_tokens", 4096)
	l.v.SetDefault("backends.backup.temperature", 0.3)
	l.v.SetDefault("backends.backup.timeout", "120s")

	l.v.SetDefault("retry.max_attempts", 3)
	l.v.SetDefault("retry.base_delay", "1s")
	l.v.SetDefault("retry.max_delay", "30s")
	l.v.SetDefault("retry.multiplier", 2.0)

	l.v.SetDefault("pipeline.run_timeout", "0s")
	l.v.SetDefault("pipeline.stage_timeout", "180s")

	l.v.SetDefault("output.dir", "reports")
	l.v.SetDefault("output.store", "fs")
	l.v.SetDefault("output.db_path", "")
	l.v.SetDefault("output.render", true)

	l.v.SetDefault("metadata.enabled", true)
	l.v.SetDefault("metadata.base_url", "https://api.openalex.org/works")
	l.v.SetDefault("metadata.email", "")
	l.v.SetDefault("metadata.timeout", "10s")

	l.v.SetDefault("server.addr", ":8080")
	l.v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
}
