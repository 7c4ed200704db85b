package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".gazellectl"))
		}

		// Check /etc
		v.AddConfigPath("/etc/gazellectl/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Tracker defaults
	v.SetDefault("tracker.rate_limit", 2.0)
	v.SetDefault("tracker.page_size", 2000)

	// Download defaults
	v.SetDefault("download.directory", ".")
	v.SetDefault("download.concurrency", 3)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Tracker.URL == "" {
		return fmt.Errorf("tracker.url is required")
	}

	if cfg.Tracker.APIKey == "" && cfg.Tracker.SessionCookie == "" && cfg.Tracker.Username == "" {
		return fmt.Errorf("tracker needs at least one of api_key, session_cookie or username/password")
	}

	if cfg.Tracker.RateLimit <= 0 {
		return fmt.Errorf("tracker.rate_limit must be positive")
	}

	if cfg.Tracker.PageSize <= 0 {
		return fmt.Errorf("tracker.page_size must be positive")
	}

	if cfg.QBittorrent.Enabled && cfg.QBittorrent.URL == "" {
		return fmt.Errorf("qbittorrent.url is required when qbittorrent is enabled")
	}

	if cfg.Lidarr.Enabled {
		if cfg.Lidarr.URL == "" {
			return fmt.Errorf("lidarr.url is required when lidarr is enabled")
		}
		if cfg.Lidarr.APIKey == "" {
			return fmt.Errorf("lidarr.api_key is required when lidarr is enabled")
		}
	}

	if cfg.Download.Concurrency < 1 {
		return fmt.Errorf("download.concurrency must be at least 1")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
