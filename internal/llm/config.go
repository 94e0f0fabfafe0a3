package llm

// Config represents the configuration for the generative model integration.
type Config struct {
	// Provider specifies which provider to use (currently "openai").
	Provider string `json:"provider"`

	// APIKey is the API key for the provider.
	APIKey string `json:"api_key"`

	// Model specifies which model to use (e.g., "gpt-4").
	Model string `json:"model"`

	// BaseURL points at a custom API endpoint. Optional.
	BaseURL string `json:"base_url,omitempty"`

	// Temperature controls the randomness of the output (0.0 to 1.0).
	Temperature float64 `json:"temperature"`

	// MaxTokens limits the length of the generated response.
	MaxTokens int `json:"max_tokens"`
}

// NewDefaultConfig returns a default configuration.
func NewDefaultConfig() *Config {
	return &Config{
		Provider:    "openai",
		Model:       "gpt-4",
		Temperature: 0.2,
		MaxTokens:   4000,
	}
}
