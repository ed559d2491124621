package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	customerrors "github.com/axellelanca/urlshortener-frontend/internal/errors"
)

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML keys to Go struct fields.
type Config struct {
	// Server configuration section for the web pages
	Server struct {
		Port int `mapstructure:"port"` // HTTP port of the form and stats pages
	} `mapstructure:"server"`

	// API configuration section describing the shortener backend
	API struct {
		BaseURL     string `mapstructure:"base_url"`     // Backend base URL, prefixed to every API path
		AccessToken string `mapstructure:"access_token"` // Bearer token sent with every API call
	} `mapstructure:"api"`

	// Logging configuration for the structured log collector and the process logger
	Logging struct {
		ServerURL string `mapstructure:"server_url"` // Collector address; empty means console output
		Stack     string `mapstructure:"stack"`      // Stack name stamped on every log event
		Level     string `mapstructure:"level"`      // Level of the process logger
	} `mapstructure:"logging"`

	// Database configuration section for the local history (SQLite)
	Database struct {
		Name string `mapstructure:"name"` // SQLite database file name; empty disables history
	} `mapstructure:"database"`
}

// legacyEnv lists extra environment variables accepted for a key, kept for
// deployments configured for the browser build.
var legacyEnv = map[string][]string{
	"api.base_url":       {"API_BASE_URL", "NEXT_PUBLIC_API_BASE"},
	"api.access_token":   {"API_ACCESS_TOKEN", "NEXT_PUBLIC_ACCESS_TOKEN"},
	"logging.server_url": {"LOGGING_SERVER_URL", "NEXT_PUBLIC_TEST_SERVER_URL"},
}

// LoadConfig loads the application configuration using Viper.
// Precedence: environment variables, then ./configs/config.yaml, then defaults.
func LoadConfig() (*Config, error) {
	return load("./configs")
}

func load(configPaths ...string) (*Config, error) {
	v := viper.New()

	// Enable automatic environment variable binding
	// e.g., "server.port" becomes "SERVER_PORT"
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, envs := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Set default values for all configuration options
	// These will be used if no config file is found or if specific keys are missing
	v.SetDefault("server.port", 3000)
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.access_token", "")
	v.SetDefault("logging.server_url", "")
	v.SetDefault("logging.stack", "frontend")
	v.SetDefault("logging.level", "info")
	v.SetDefault("database.name", "shortener_history.db")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is not fatal - defaults and environment still apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, customerrors.ErrConfigLoad{Path: v.ConfigFileUsed(), Reason: err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
