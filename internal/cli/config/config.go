package config

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/spf13/viper"

	xstrings "github.com/conduit-lang/nodeview/internal/util/strings"
)

// Config represents the nodeview configuration
type Config struct {
	Generate GenerateConfig `mapstructure:"generate"`
	Log      LogConfig      `mapstructure:"log"`
}

// GenerateConfig represents code generation settings
type GenerateConfig struct {
	// Package is the directory of the package holding the node types
	Package string `mapstructure:"package"`
	// Suffix is appended to base type names
	Suffix string `mapstructure:"suffix"`
	// Output is the file name pattern; %s is replaced by the snake_case type name
	Output      string   `mapstructure:"output"`
	Passthrough []string `mapstructure:"passthrough"`
	BuildTags   []string `mapstructure:"build_tags"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load loads the configuration from nodeview.yml or nodeview.yaml in the current directory
func Load() (*Config, error) {
	return load("")
}

// LoadFile loads the configuration from an explicit file
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("generate.package", ".")
	v.SetDefault("generate.suffix", "ReadOnly")
	v.SetDefault("generate.output", "%s_readonly.go")
	v.SetDefault("generate.passthrough", []string{})
	v.SetDefault("generate.build_tags", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("nodeview")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Enable environment variable support, e.g. NODEVIEW_LOG_LEVEL
	v.SetEnvPrefix("NODEVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// OutputFile returns the generated file name for a type
func (c *Config) OutputFile(typeName string) string {
	return fmt.Sprintf(c.Generate.Output, xstrings.ToSnakeCase(typeName))
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Generate.Suffix == "" || !token.IsIdentifier("X"+cfg.Generate.Suffix) {
		return fmt.Errorf("generate.suffix must be a Go identifier fragment, got: %q", cfg.Generate.Suffix)
	}
	if !strings.HasSuffix(cfg.Generate.Output, ".go") {
		return fmt.Errorf("generate.output must end with '.go', got: %s", cfg.Generate.Output)
	}
	if strings.Count(cfg.Generate.Output, "%s") != 1 {
		return fmt.Errorf("generate.output must contain exactly one %%s, got: %s", cfg.Generate.Output)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got: %s", cfg.Log.Level)
	}
	return nil
}
