// Package config loads the application configuration from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/RamKarthikeya/ApiTestingG/internal/executor"
)

// Config holds the application configuration
type Config struct {
	Environment Environment      `yaml:"environment"`
	Test        TestConfig       `yaml:"test"`
	Generation  GenerationConfig `yaml:"generation"`
	Reporting   ReportingConfig  `yaml:"reporting"`
}

// Environment holds environment-specific configuration
type Environment struct {
	BaseURL string     `yaml:"base_url"`
	Auth    AuthConfig `yaml:"auth"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	Type  string `yaml:"type"`
	Token string `yaml:"token"`
}

// TestConfig holds test execution configuration
type TestConfig struct {
	Concurrency int `yaml:"concurrency"`
	Timeout     int `yaml:"timeout"`
}

// GenerationConfig holds test generation configuration
type GenerationConfig struct {
	AutoProbe     bool   `yaml:"auto_probe"`
	LLMConfigPath string `yaml:"llm_config_path"`
}

// ReportingConfig holds reporting configuration
type ReportingConfig struct {
	OutputDir string `yaml:"output_dir"`
	LogDir    string `yaml:"log_dir"`
}

// LoadConfig loads configuration from path. A missing file is not an
// error: defaults apply, so the CLI works without any setup.
func LoadConfig(path string) (*Config, error) {
	var config Config

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %v", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	// Override auth token from environment variable if set
	if token := os.Getenv("AUTH_TOKEN"); token != "" {
		config.Environment.Auth.Token = token
	}

	// Set default values if not specified
	if config.Test.Concurrency == 0 {
		config.Test.Concurrency = executor.DefaultConcurrency
	}
	if config.Test.Timeout == 0 {
		config.Test.Timeout = 30
	}
	if config.Generation.LLMConfigPath == "" {
		config.Generation.LLMConfigPath = filepath.Join("config", "llm_config.json")
	}
	if config.Reporting.OutputDir == "" {
		config.Reporting.OutputDir = "reports"
	}
	if config.Reporting.LogDir == "" {
		config.Reporting.LogDir = "logs"
	}

	return &config, nil
}
