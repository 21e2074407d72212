package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/antmaster"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// DefaultTokenizerModel is the local tokenizer used for description sizes
// when no model is given.
const DefaultTokenizerModel = "gemini-2.0-flash"

var _ antmaster.TokenCounter = (*TokenCounter)(nil)

// TokenCounter reports how many Gemini tokens a species description costs
// when it is embedded in the system prompt. Counting is local; no API key
// is needed.
type TokenCounter struct {
	model string
	tok   *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for model. An empty model selects
// DefaultTokenizerModel. Returns EINVALID if the tokenizer does not know the
// model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultTokenizerModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, antmaster.Errorf(antmaster.EINVALID, "tokenizer for %q: %v", model, err)
	}
	return &TokenCounter{model: model, tok: tok}, nil
}

// Model returns the tokenizer model name.
func (tc *TokenCounter) Model() string {
	return tc.model
}

// CountTokens counts the tokens of text as a user turn. Blank text counts
// as zero.
func (tc *TokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}, nil)
	if err != nil {
		return 0, antmaster.Errorf(antmaster.EINTERNAL, "count tokens: %v", err)
	}
	return int(result.TotalTokens), nil
}
