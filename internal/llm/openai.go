package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// CompletionRequest is a single chat-completion call: one system message,
// one user message, no history.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	UserText     string
	Temperature  float32
	MaxTokens    int
}

// CompletionClient issues one completion request against an upstream API.
type CompletionClient interface {
	CreateCompletion(ctx context.Context, req CompletionRequest) (string, error)
}

type openaiClient struct {
	client      *openai.Client
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter
}

// NewOpenAI builds a CompletionClient bound to one API key. rps caps the
// request rate; a burst of 1 keeps hotkey spam from queueing calls.
func NewOpenAI(apiKey string, rps float64, logger *zerolog.Logger) CompletionClient {
	return &openaiClient{
		client:      openai.NewClient(apiKey),
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (c *openaiClient) CreateCompletion(ctx context.Context, req CompletionRequest) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserText},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}
