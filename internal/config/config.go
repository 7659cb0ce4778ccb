// Package config loads runtime configuration from defaults, an optional
// config file and INHERITDOC_* environment variables, in increasing order of
// precedence. Command line flags bound to the same keys override all three.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read
const EnvPrefix = "INHERITDOC"

// ErrInvalidConfig is returned when loaded values fail validation
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved runtime configuration
type Config struct {
	DBPath       string    `mapstructure:"db_path" validate:"required"`
	Workers      int       `mapstructure:"workers" validate:"gte=0"`
	Format       string    `mapstructure:"format" validate:"oneof=text plain html markdown"`
	MetricsAddr  string    `mapstructure:"metrics_addr"`
	Structural   bool      `mapstructure:"structural"`
	IncludeTests bool      `mapstructure:"include_tests"`
	RawHTML      bool      `mapstructure:"raw_html"`
	Log          LogConfig `mapstructure:"log"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// DefaultDBPath returns ~/.inheritdoc/inheritdoc.db, or a relative path when
// the home directory is unknown
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "inheritdoc.db"
	}
	return filepath.Join(home, ".inheritdoc", "inheritdoc.db")
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db_path", DefaultDBPath())
	v.SetDefault("workers", 0) // 0 = runtime.NumCPU()
	v.SetDefault("format", "text")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("structural", false)
	v.SetDefault("include_tests", false)
	v.SetDefault("raw_html", false)
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}

// NewViper returns a viper instance with defaults and environment binding.
// configFile is optional; when set it must exist.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}
	return v, nil
}

// Load unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.DBPath = expandHome(cfg.DBPath)

	if err := validator.New().Struct(&cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("%s: %q fails %q: %w", verrs[0].Namespace(), fmt.Sprint(verrs[0].Value()), verrs[0].Tag(), ErrInvalidConfig)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
