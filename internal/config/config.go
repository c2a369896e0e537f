// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds client configuration loaded from file, environment or flags.
type Config struct {
	Host           string `mapstructure:"PHOTOSHARE_HOST"`
	Token          string `mapstructure:"PHOTOSHARE_TOKEN"`
	TimeoutSeconds int    `mapstructure:"PHOTOSHARE_TIMEOUT"`
	PageSize       int    `mapstructure:"PHOTOSHARE_PAGE_SIZE"`
}

// Load reads configuration from an optional .photoshare.yaml (working
// directory, then home), a .env file when present, and the environment.
// Environment wins over file values.
func Load() (*Config, error) {
	// A .env next to the binary is a convenience for local development.
	_ = godotenv.Load()

	viper.SetConfigName(".photoshare")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home))
	}
	viper.AutomaticEnv()

	// The config file is optional; env and defaults cover everything.
	_ = viper.ReadInConfig()

	viper.SetDefault("PHOTOSHARE_HOST", "http://localhost:8080")
	viper.SetDefault("PHOTOSHARE_TOKEN", "")
	viper.SetDefault("PHOTOSHARE_TIMEOUT", 15)
	viper.SetDefault("PHOTOSHARE_PAGE_SIZE", 5)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate ensures that required configuration values are present and usable.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("PHOTOSHARE_HOST is required")
	}
	parsed, err := url.Parse(c.Host)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("PHOTOSHARE_HOST must be an absolute URL, got %q", c.Host)
	}
	if c.TimeoutSeconds <= 0 {
		return errors.New("PHOTOSHARE_TIMEOUT must be greater than zero")
	}
	if c.PageSize < 1 {
		return errors.New("PHOTOSHARE_PAGE_SIZE must be at least 1")
	}
	return nil
}
