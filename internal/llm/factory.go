package llm

import (
	"fmt"

	"github.com/RamKarthikeya/ApiTestingG/internal/logger"
)

// NewClient creates a model client based on the configured provider.
func NewClient(config *Config, log *logger.Logger) (Client, error) {
	switch config.Provider {
	case "openai":
		return NewOpenAIClient(config, log), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.Provider)
	}
}
