package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RamKarthikeya/ApiTestingG/internal/logger"
)

func TestNewClient(t *testing.T) {
	log, err := logger.NewLogger(t.TempDir())
	require.NoError(t, err)
	defer log.Close()

	t.Run("openai provider", func(t *testing.T) {
		config := NewDefaultConfig()
		config.APIKey = "test-key"

		client, err := NewClient(config, log)
		require.NoError(t, err)
		assert.IsType(t, &OpenAIClient{}, client)
	})

	t.Run("unknown provider", func(t *testing.T) {
		config := NewDefaultConfig()
		config.Provider = "oracle-9000"

		_, err := NewClient(config, log)
		assert.ErrorContains(t, err, "unsupported LLM provider")
	})
}

func TestDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()
	assert.Equal(t, "openai", config.Provider)
	assert.NotEmpty(t, config.Model)
	assert.Positive(t, config.MaxTokens)
}
