package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/solatis/ambrosia/internal/core/config"
	"github.com/solatis/ambrosia/internal/core/logging"
	"github.com/solatis/ambrosia/internal/definition"
	"github.com/solatis/ambrosia/internal/engine"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	locale     string

	settings = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "ambrosia",
	Short: "Ambrosia view and decision renderer",
	Long:  `Ambrosia renders declarative views over bound objects, evaluates decisions and applies posted form fields.`,

	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (json, text)")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "en", "render locale (BCP 47)")

	_ = settings.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = settings.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = settings.BindPFlag("render.locale", rootCmd.PersistentFlags().Lookup("locale"))
}

func Execute() error {
	return rootCmd.Execute()
}

// setup loads configuration and builds the engine. Logs go to stderr.
func setup(cmd *cobra.Command) (*engine.Engine, error) {
	cfg, err := config.Load(settings, configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	e, err := engine.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}
	return e, nil
}

// loadData reads a YAML document into a generic value. An empty path yields
// nil.
func loadData(path string) (any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse data %s: %w", path, err)
	}
	return v, nil
}

func loadDefinitions(path string) (*definition.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("--defs required")
	}
	doc, err := definition.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load definitions: %w", err)
	}
	return doc, nil
}
