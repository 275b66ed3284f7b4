package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"

	"github.com/mktud1/arq503/internal/config"
)

const (
	maxRetries = 3
	baseDelay  = 2 * time.Second
)

// OpenAI client implementation
type OpenAI struct {
	client  *openai.Client
	cfg     *config.OpenAIConfig
	limiter *rate.Limiter
}

func NewOpenAI(cfg *config.OpenAIConfig, requestsPerMinute int) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is missing")
	}

	var client *openai.Client

	switch cfg.Provider {
	case "azure":
		client = openai.NewClient(
			azure.WithEndpoint(cfg.APIEndpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
		)
	default: // "openai"
		client = openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.APIEndpoint),
		)
	}

	if requestsPerMinute <= 0 {
		requestsPerMinute = 20
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)

	return &OpenAI{
		client:  client,
		cfg:     cfg,
		limiter: limiter,
	}, nil
}

func (o *OpenAI) Generate(ctx context.Context, systemMessages []string, userMessages []string, opts ...Option) (*Response, error) {
	// Apply options
	options := &Options{
		Model:       o.cfg.Model,
		Temperature: 0,
		MaxTokens:   4000,
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(systemMessages)+len(userMessages))
	for _, m := range systemMessages {
		messages = append(messages, openai.SystemMessage(m))
	}
	for _, m := range userMessages {
		messages = append(messages, openai.UserMessage(m))
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := o.client.Chat.Completions.New(
			ctx,
			openai.ChatCompletionNewParams{
				Model:       openai.F(options.Model),
				Messages:    openai.F(messages),
				Temperature: openai.F(options.Temperature),
				MaxTokens:   openai.F(options.MaxTokens),
			},
		)
		if err != nil {
			if isRateLimited(err) && attempt < maxRetries {
				lastErr = err
				select {
				case <-time.After(baseDelay * time.Duration(1<<attempt)):
					continue
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			return nil, err
		}

		response := &Response{
			Model: options.Model,
			Usage: Usage{
				PromptTokens:     resp.Usage.PromptTokens,
				CompletionTokens: resp.Usage.CompletionTokens,
				TotalTokens:      resp.Usage.TotalTokens,
			},
		}
		if len(resp.Choices) > 0 {
			response.Content = resp.Choices[0].Message.Content
		}
		return response, nil
	}

	return nil, fmt.Errorf("rate limited after %d retries: %w", maxRetries, lastErr)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}
