// Package anthropic provides a knowledge backend backed by Claude models.
package anthropic

import (
	"context"

	"github.com/fwojciec/antmaster"
	"github.com/liushuangls/go-anthropic/v2"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-3-5-haiku-latest"

// DefaultMaxTokens bounds the length of each reply.
const DefaultMaxTokens = 1000

var _ antmaster.Completer = (*Completer)(nil)

// Completer implements antmaster.Completer using the Messages API.
type Completer struct {
	client    *anthropic.Client
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

// NewCompleter creates a Completer. An empty baseURL targets the public API.
func NewCompleter(apiKey, model, baseURL string, opts ...Option) *Completer {
	var clientOpts []anthropic.ClientOption
	if baseURL != "" {
		clientOpts = append(clientOpts, anthropic.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultModel
	}
	c := &Completer{
		client:    anthropic.NewClient(apiKey, clientOpts...),
		model:     model,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends prompt under the given system prompt and returns the first
// text block of the reply.
func (c *Completer) Complete(ctx context.Context, system, prompt string) (string, error) {
	if prompt == "" {
		return "", antmaster.Errorf(antmaster.EINVALID, "prompt required")
	}

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:  anthropic.Model(c.model),
		System: system,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(prompt),
				},
			},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", antmaster.Errorf(antmaster.EUNAVAILABLE, "anthropic: %v", err)
	}

	for _, content := range resp.Content {
		if content.Text != nil {
			return *content.Text, nil
		}
	}
	return "", antmaster.Errorf(antmaster.EINTERNAL, "anthropic returned no text content")
}
