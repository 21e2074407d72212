// Package openai provides a knowledge backend for OpenAI-compatible chat
// completion APIs, including local Ollama servers.
package openai

import (
	"context"

	"github.com/fwojciec/antmaster"
	"github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT3Dot5Turbo

// DefaultMaxTokens bounds the length of each reply.
const DefaultMaxTokens = 1000

var _ antmaster.Completer = (*Completer)(nil)

// Completer implements antmaster.Completer using the chat completions API.
type Completer struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// Option configures a Completer.
type Option func(*Completer)

// WithMaxTokens bounds the reply length. Non-positive values are ignored.
func WithMaxTokens(n int) Option {
	return func(c *Completer) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// NewCompleter creates a Completer. An empty baseURL targets api.openai.com.
func NewCompleter(apiKey, model, baseURL string, opts ...Option) *Completer {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	c := &Completer{
		client:    openai.NewClientWithConfig(config),
		model:     model,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends a system and a user message and returns the first choice.
func (c *Completer) Complete(ctx context.Context, system, prompt string) (string, error) {
	if prompt == "" {
		return "", antmaster.Errorf(antmaster.EINVALID, "prompt required")
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", antmaster.Errorf(antmaster.EUNAVAILABLE, "openai: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", antmaster.Errorf(antmaster.EINTERNAL, "openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
