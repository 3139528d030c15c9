package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // render.timezone must resolve without system zoneinfo

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/solatis/ambrosia/internal/types"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*Config, error) {
	return Load(viper.New(), configPath)
}

// Load reads configuration through v, which may already carry bound flags.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	// Set defaults matching DefaultConfig
	v.SetDefault("render.locale", "en")
	v.SetDefault("render.time_layout", "2006-01-02T15:04")
	v.SetDefault("render.timezone", "UTC")
	v.SetDefault("render.missing_values", []string{})
	v.SetDefault("render.max_path_depth", types.MaxPathDepth)
	v.SetDefault("render.field_prefix", "amb:")
	v.SetDefault("messages.dir", "")
	v.SetDefault("messages.fallback", "en")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("script.timeout", "100ms")

	// Bind environment variables with AMB_ prefix
	v.SetEnvPrefix("AMB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	locale, err := language.Parse(v.GetString("render.locale"))
	if err != nil {
		return nil, fmt.Errorf("render.locale: %w", err)
	}
	fallback, err := language.Parse(v.GetString("messages.fallback"))
	if err != nil {
		return nil, fmt.Errorf("messages.fallback: %w", err)
	}
	loc, err := time.LoadLocation(v.GetString("render.timezone"))
	if err != nil {
		return nil, fmt.Errorf("render.timezone: %w", err)
	}

	cfg := &Config{
		Render: RenderConfig{
			Locale:        locale,
			TimeLayout:    v.GetString("render.time_layout"),
			Location:      loc,
			MissingValues: v.GetStringSlice("render.missing_values"),
			MaxPathDepth:  v.GetInt("render.max_path_depth"),
			FieldPrefix:   v.GetString("render.field_prefix"),
		},
		Messages: MessagesConfig{
			Dir:      v.GetString("messages.dir"),
			Fallback: fallback,
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		Script: ScriptConfig{
			Timeout: v.GetDuration("script.timeout"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks layouts, limits, log settings and timeouts.
func validateConfig(cfg *Config) error {
	if cfg.Render.TimeLayout == "" {
		return fmt.Errorf("render.time_layout must not be empty")
	}
	if cfg.Render.MaxPathDepth <= 0 || cfg.Render.MaxPathDepth > types.MaxPathDepth {
		return fmt.Errorf("render.max_path_depth must be between 1 and %d, got %d", types.MaxPathDepth, cfg.Render.MaxPathDepth)
	}
	if cfg.Render.FieldPrefix == "" {
		return fmt.Errorf("render.field_prefix must not be empty")
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Log.Format)
	}
	if cfg.Script.Timeout < 0 {
		return fmt.Errorf("script.timeout must not be negative, got %v", cfg.Script.Timeout)
	}
	return nil
}
