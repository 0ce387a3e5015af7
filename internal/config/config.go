package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Token struct {
		Secret          string `yaml:"secret"`
		AccessTTLMin    int64  `yaml:"access_ttl_minutes"`
		RefreshTTLHours int64  `yaml:"refresh_ttl_hours"`
		OneTimeTTLHours int64  `yaml:"one_time_ttl_hours"`
	} `yaml:"token"`
	Mailer struct {
		URL     string `yaml:"url"`
		Enabled bool   `yaml:"enabled"`
	} `yaml:"mailer"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.Token.Secret == "" {
		return nil, fmt.Errorf("token.secret must be set")
	}

	return config, nil
}
