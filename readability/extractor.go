// Package readability extracts article content with go-readability. It is
// the fallback when the primary extractor finds nothing on a page.
package readability

import (
	"strings"

	"github.com/fwojciec/antmaster"
	"github.com/go-shiori/go-readability"
)

var _ antmaster.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
// Returns ENOTFOUND if readability cannot find an article.
func (e *Extractor) Extract(rawHTML string) (*antmaster.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, antmaster.Errorf(antmaster.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, antmaster.Errorf(antmaster.ENOTFOUND, "readability: %v", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, antmaster.Errorf(antmaster.ENOTFOUND, "readability: no article content")
	}

	return &antmaster.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
