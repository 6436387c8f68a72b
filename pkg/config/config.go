// Package config provides configuration loading and management for
// mriexplore. It handles loading configuration from YAML files and provides
// default values.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Display parameters
	Display struct {
		// Colormap names the intensity colormap for plain and comparison
		// views
		Colormap string `yaml:"colormap"`

		// Thickness is the contour stroke thickness in pixels
		Thickness int `yaml:"thickness"`

		// Transparency is the initial overlay weight in blend views
		Transparency float64 `yaml:"transparency"`

		// AutoWindow starts sessions with percentile intensity windowing
		// instead of per-slice scaling
		AutoWindow bool `yaml:"autoWindow"`
	} `yaml:"display"`

	// Export parameters
	Export struct {
		// Format is the image format string for snapshots and sequences,
		// e.g. "png" or "jpg:80"
		Format string `yaml:"format"`

		// Scale magnifies panels in exported figures
		Scale int `yaml:"scale"`

		// Interpolation selects the resampling kernel used when scaling
		Interpolation string `yaml:"interpolation"`

		// Dir is the directory for slice sequence export
		Dir string `yaml:"dir"`
	} `yaml:"export"`

	// Log parameters
	Log LogConfig `yaml:"log"`
}

// LogConfig controls optional logging to a rotating file.
type LogConfig struct {
	// Logfile receives log output when set; empty leaves logging on stderr
	Logfile string `yaml:"logfile"`

	// MaxSize is the size in megabytes at which the log rotates
	MaxSize int `yaml:"maxSize"`

	// MaxAge is the number of days rotated logs are kept
	MaxAge int `yaml:"maxAge"`
}

// SetLogger routes the standard logger to a rotating log file. Without a
// configured file, messages stay on stderr.
func (c *LogConfig) SetLogger() {
	if c == nil || c.Logfile == "" {
		return
	}
	log.SetOutput(&lumberjack.Logger{
		Filename: c.Logfile,
		MaxSize:  c.MaxSize, // megabytes
		MaxAge:   c.MaxAge,  // days
	})
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default display parameters
	cfg.Display.Colormap = "gray"
	cfg.Display.Thickness = 1
	cfg.Display.Transparency = 0.5
	cfg.Display.AutoWindow = false

	// Set default export parameters
	cfg.Export.Format = "png"
	cfg.Export.Scale = 1
	cfg.Export.Interpolation = "nearest"
	cfg.Export.Dir = "slices"

	// Set default log parameters
	cfg.Log.MaxSize = 100
	cfg.Log.MaxAge = 30

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
