// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application. It is an explicit
// value handed to constructors; nothing reads it through a package global.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	YouTube YouTubeConfig
	Catalog CatalogConfig
	Logging LoggingConfig
	Server  ServerConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	AdminAPIKeys    []string
}

// YouTubeConfig contains YouTube Data API access configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type YouTubeConfig struct {
	APIKey         string
	BaseURL        string
	PageSize       int
	MaxPages       int
	RequestTimeout time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	RateLimit      float64
	RateBurst      int
}

// CatalogConfig contains catalog build and storage configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type CatalogConfig struct {
	PlaylistIDs     []string
	SnapshotPath    string
	BuildTimeout    time.Duration
	RefreshInterval time.Duration
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set defaults
	setDefaults()

	// Read environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable for a catalog build.
func (c *Config) Validate() error {
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("youtube.apikey is required")
	}
	if c.YouTube.PageSize < 1 || c.YouTube.PageSize > 50 {
		return fmt.Errorf("youtube.pagesize must be in [1,50], got %d", c.YouTube.PageSize)
	}
	if c.YouTube.MaxPages < 1 {
		return fmt.Errorf("youtube.maxpages must be positive, got %d", c.YouTube.MaxPages)
	}
	return nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)
	viper.SetDefault("server.adminapikeys", []string{})

	// YouTube API
	viper.SetDefault("youtube.apikey", "")
	viper.SetDefault("youtube.baseurl", "https://www.googleapis.com/youtube/v3")
	viper.SetDefault("youtube.pagesize", 50)
	viper.SetDefault("youtube.maxpages", 200)
	viper.SetDefault("youtube.requesttimeout", 15*time.Second)
	viper.SetDefault("youtube.maxretries", 3)
	viper.SetDefault("youtube.retrybackoff", 1*time.Second)
	viper.SetDefault("youtube.ratelimit", 5.0)
	viper.SetDefault("youtube.rateburst", 5)

	// Catalog
	viper.SetDefault("catalog.playlistids", []string{})
	viper.SetDefault("catalog.snapshotpath", "data/videos.json")
	viper.SetDefault("catalog.buildtimeout", 10*time.Minute)
	viper.SetDefault("catalog.refreshinterval", 24*time.Hour)

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}
