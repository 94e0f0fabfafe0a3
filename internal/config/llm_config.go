package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/RamKarthikeya/ApiTestingG/internal/llm"
)

// LoadLLMConfig loads LLM configuration from a JSON file. OPENAI_API_KEY
// overrides the key on disk, and a missing file falls back to defaults so
// generation can still run against a local or env-configured endpoint.
func LoadLLMConfig(path string) (*llm.Config, error) {
	config := llm.NewDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read LLM config file: %v", err)
		}
	} else if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse LLM config: %v", err)
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.APIKey = key
	}

	if config.Provider == "" {
		return nil, fmt.Errorf("LLM provider is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	return config, nil
}

// SaveLLMConfig saves LLM configuration to a file
func SaveLLMConfig(config *llm.Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal LLM config: %v", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write LLM config file: %v", err)
	}

	return nil
}
