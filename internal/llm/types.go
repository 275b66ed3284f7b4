package llm

import "context"

type Provider interface {
	// Generate takes system and user messages and returns the model's
	// raw text response
	Generate(ctx context.Context, systemMessages []string, userMessages []string, opts ...Option) (*Response, error)
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model       string
	MaxTokens   int64
	Temperature float64
}

type Response struct {
	Content string
	Model   string
	Usage   Usage
}
