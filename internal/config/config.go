// Package config provides configuration management for mcpdock using Viper.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mcpdock/mcpdock/internal/catalog"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/paths"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version int           `mapstructure:"version" yaml:"version"`
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Backups BackupConfig  `mapstructure:"backups" yaml:"backups"`
}

// CatalogConfig configures the remote server catalog.
type CatalogConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// BackupConfig configures pre-write config snapshots.
type BackupConfig struct {
	Enabled   bool `mapstructure:"enabled" yaml:"enabled"`
	Retention int  `mapstructure:"retention" yaml:"retention"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), paths.AppName))

	viper.SetEnvPrefix("MCPDOCK")
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("catalog.url", catalog.DefaultBaseURL)
	viper.SetDefault("backups.enabled", true)
	viper.SetDefault("backups.retention", 5)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errors.Join(errs...), "invalid configuration")
	}

	return &cfg, nil
}
