package config

import (
	"encoding/json"
	"fmt"
	"os"
)

const ConfigFileName = "shopd.json"

// DefaultAPIURL is the production platform host used when no project config exists
const DefaultAPIURL = "https://api.shopd.dev"

// Environment represents a platform environment the back office can target
type Environment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Config represents the project configuration stored in shopd.json
type Config struct {
	Environments []Environment `json:"environments"`
}

// LoadFromCurrentDir reads shopd.json from the working directory.
// A missing file yields a single default environment pointing at production
// (overridable with SHOPD_API_URL).
func LoadFromCurrentDir() (*Config, error) {
	data, err := os.ReadFile(ConfigFileName)
	if err != nil {
		if os.IsNotExist(err) {
			url := os.Getenv("SHOPD_API_URL")
			if url == "" {
				url = DefaultAPIURL
			}
			return &Config{Environments: []Environment{{Name: "production", URL: url}}}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFileName, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}

	if len(cfg.Environments) == 0 {
		return nil, fmt.Errorf("%s contains no environments", ConfigFileName)
	}

	return &cfg, nil
}

// Save writes the project configuration to shopd.json in the working directory
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(ConfigFileName, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ConfigFileName, err)
	}
	return nil
}

// GetEnvironmentByName finds an environment by name
func (c *Config) GetEnvironmentByName(name string) (*Environment, error) {
	for i := range c.Environments {
		if c.Environments[i].Name == name {
			return &c.Environments[i], nil
		}
	}
	return nil, fmt.Errorf("environment '%s' not found in %s", name, ConfigFileName)
}

// GetDefaultEnvironment returns the first configured environment
func (c *Config) GetDefaultEnvironment() (*Environment, error) {
	if len(c.Environments) == 0 {
		return nil, fmt.Errorf("no environments configured in %s", ConfigFileName)
	}
	return &c.Environments[0], nil
}
