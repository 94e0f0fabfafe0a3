package llm

import "context"

// systemPrompt pins the model into its test-designer role. The strict output
// instruction lives in the user prompt built by the generator.
const systemPrompt = "You are an expert API test designer. You generate test cases for HTTP endpoints. Always respond in the requested format."

// Client is the boundary to the generative text service. Given a prompt it
// returns raw text which may be non-JSON, may wrap JSON in prose or code
// fences, and may fail outright. Callers must treat the output as untrusted.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
