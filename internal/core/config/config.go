// Package config provides configuration management for Ambrosia.
package config

import (
	"time"

	"golang.org/x/text/language"
)

// Config is the full runtime configuration.
type Config struct {
	Render   RenderConfig
	Messages MessagesConfig
	Log      LogConfig
	Script   ScriptConfig
}

// RenderConfig controls path resolution and rendering.
type RenderConfig struct {
	Locale        language.Tag
	TimeLayout    string
	Location      *time.Location
	MissingValues []string
	MaxPathDepth  int
	FieldPrefix   string
}

// MessagesConfig locates message bundles.
type MessagesConfig struct {
	Dir      string
	Fallback language.Tag
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// ScriptConfig bounds script predicates.
type ScriptConfig struct {
	Timeout time.Duration
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Locale:       language.English,
			TimeLayout:   "2006-01-02T15:04",
			Location:     time.UTC,
			MaxPathDepth: 16,
			FieldPrefix:  "amb:",
		},
		Messages: MessagesConfig{
			Fallback: language.English,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Script: ScriptConfig{
			Timeout: 100 * time.Millisecond,
		},
	}
}
