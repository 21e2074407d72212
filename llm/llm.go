// Package llm builds the configured knowledge backend and provides
// backend-agnostic decorators.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/anthropic"
	"github.com/fwojciec/antmaster/config"
	"github.com/fwojciec/antmaster/gemini"
	"github.com/fwojciec/antmaster/openai"
	"google.golang.org/genai"
)

// DefaultOllamaURL is used for the ollama provider when no base URL is set.
const DefaultOllamaURL = "http://localhost:11434"

// NewCompleter returns the Completer selected by cfg. A missing API key or
// the "none" provider yields an Unconfigured backend rather than an error so
// that locally answerable questions keep working.
func NewCompleter(ctx context.Context, cfg config.BackendConfig) (antmaster.Completer, error) {
	completer, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.RequestsPerSecond > 0 {
		completer = NewLimitedCompleter(completer, cfg.RequestsPerSecond)
	}
	return completer, nil
}

func newProvider(ctx context.Context, cfg config.BackendConfig) (antmaster.Completer, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case config.ProviderNone:
		return Unconfigured{}, nil

	case config.ProviderOllama:
		// Ollama ignores the key but the client requires one.
		key := cfg.APIKey
		if key == "" {
			key = "ollama"
		}
		return openai.NewCompleter(key, cfg.Model, OllamaBaseURL(cfg.BaseURL), openai.WithMaxTokens(cfg.MaxTokens)), nil
	}

	if cfg.APIKey == "" {
		return Unconfigured{}, nil
	}

	switch provider {
	case config.ProviderGemini, "":
		clientConfig := &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
		if cfg.BaseURL != "" {
			clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
		}
		client, err := genai.NewClient(ctx, clientConfig)
		if err != nil {
			return nil, fmt.Errorf("connect to gemini: %w", err)
		}
		return gemini.NewCompleter(client, cfg.Model), nil

	case config.ProviderOpenAI:
		return openai.NewCompleter(cfg.APIKey, cfg.Model, cfg.BaseURL, openai.WithMaxTokens(cfg.MaxTokens)), nil

	case config.ProviderAnthropic, config.ProviderClaude:
		return anthropic.NewCompleter(cfg.APIKey, cfg.Model, cfg.BaseURL, anthropic.WithMaxTokens(cfg.MaxTokens)), nil

	default:
		return nil, antmaster.Errorf(antmaster.EINVALID, "unsupported backend provider: %s", cfg.Provider)
	}
}

// OllamaBaseURL returns the OpenAI-compatible endpoint of an Ollama server.
func OllamaBaseURL(baseURL string) string {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(baseURL, "/v1") {
		return baseURL
	}
	return baseURL + "/v1"
}

var _ antmaster.Completer = Unconfigured{}

// Unconfigured is the backend used when no knowledge provider is available.
// Every call fails immediately with EUNAVAILABLE.
type Unconfigured struct{}

// Complete always returns an EUNAVAILABLE error.
func (Unconfigured) Complete(context.Context, string, string) (string, error) {
	return "", antmaster.Errorf(antmaster.EUNAVAILABLE, "backend de conocimiento no configurado")
}
