// Package gemini provides a knowledge backend and token counter backed by
// Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/antmaster"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Completer implements antmaster.Completer at compile time.
var _ antmaster.Completer = (*Completer)(nil)

// Completer implements antmaster.Completer using Google Gemini.
type Completer struct {
	client *genai.Client
	model  string
}

// NewCompleter creates a new Completer. An empty model selects DefaultModel.
func NewCompleter(client *genai.Client, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, model: model}
}

// Complete sends prompt with the system instruction and returns the reply text.
func (c *Completer) Complete(ctx context.Context, system, prompt string) (string, error) {
	if prompt == "" {
		return "", antmaster.Errorf(antmaster.EINVALID, "prompt required")
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(system),
	)
	if err != nil {
		return "", antmaster.Errorf(antmaster.EUNAVAILABLE, "gemini: %v", err)
	}
	if result == nil {
		return "", antmaster.Errorf(antmaster.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig(system string) *genai.GenerateContentConfig {
	temp := float32(0.4)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	return config
}
