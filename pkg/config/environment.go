// Package config manages named service environments for the drop-zone CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment points at one deployment of the drop-zone analysis service.
// No credentials: the service is unauthenticated.
type Environment struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Config holds the environment configurations.
type Config struct {
	Environments []Environment `yaml:"environments"`
	Selected     string        `yaml:"selected,omitempty"`
}

// configDirName is the per-user settings directory under $HOME.
const configDirName = ".dropzone"

// LoadEnvironments loads environment configurations from the default
// location, falling back to defaults when no file exists.
func LoadEnvironments() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadEnvironmentsFromFile(filepath.Join(homeDir, configDirName, "environments.yaml"))
}

// LoadEnvironmentsFromFile loads environment configurations from a specific
// file.
func LoadEnvironmentsFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}

// SaveEnvironments writes the environment configuration to the default
// location.
func SaveEnvironments(config *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, configDirName)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(configDir, "environments.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the environments assumed when no file exists. The
// local environment matches the development port of the analysis service.
func DefaultConfig() *Config {
	return &Config{
		Environments: []Environment{
			{Name: "Local", URL: "http://localhost:8000"},
			{Name: "Staging", URL: "https://dropzone-staging.example.com"},
		},
	}
}
