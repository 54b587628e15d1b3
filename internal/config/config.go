package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// DataDir is where snapshots (and the default sqlite database) live.
	DataDir     string      `yaml:"data_dir"`
	Persistence Persistence `yaml:"persistence"`
	Log         Log         `yaml:"log"`
}

// Persistence selects the document store backing the stores.
type Persistence struct {
	// Driver is one of "file", "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	// DSN is the database connection string for the sqlite and
	// postgres drivers. Unused by the file driver.
	DSN string `yaml:"dsn"`
}

// Log configures the log file handler.
type Log struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `yaml:"level"`
}

// Load loads config from the user's config directory.
// Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Fill in any missing values with defaults
	config.applyDefaults()

	return &config, nil
}

// Save saves the config to the user's config directory.
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

func defaultConfig() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// applyDefaults fills in zero-valued fields.
func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.Persistence.Driver == "" {
		c.Persistence.Driver = "file"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// getConfigPath returns the path to the config file.
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "tasklist", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tasklist", "config.yaml"), nil
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".tasklist"
	}
	return filepath.Join(homeDir, ".tasklist")
}
