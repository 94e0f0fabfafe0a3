package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/RamKarthikeya/ApiTestingG/internal/logger"
)

// OpenAIClient implements the Client interface using OpenAI's API.
type OpenAIClient struct {
	config *Config
	client *openai.Client
	logger *logger.Logger
}

// NewOpenAIClient creates a new OpenAI client. A custom BaseURL in the
// config routes requests to any OpenAI-compatible endpoint.
func NewOpenAIClient(config *Config, log *logger.Logger) *OpenAIClient {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &OpenAIClient{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
		logger: log,
	}
}

// Complete sends the prompt and returns the raw completion text.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       c.config.Model,
			Temperature: float32(c.config.Temperature),
			MaxTokens:   c.config.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		c.logger.LogGeneration("Complete", prompt, "", err)
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no response from OpenAI")
		c.logger.LogGeneration("Complete", prompt, "", err)
		return "", err
	}

	content := resp.Choices[0].Message.Content
	c.logger.LogGeneration("Complete", prompt, content, nil)
	return content, nil
}
