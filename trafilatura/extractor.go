// Package trafilatura extracts the article body of species info pages.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/antmaster"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ antmaster.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to strip wiki chrome (navigation, edit
// links, footers) from an info page.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{EnableFallback: true},
	}
}

// Extract returns the page title and main content. A page with no
// recognizable article body yields ENOTFOUND.
func (e *Extractor) Extract(rawHTML string) (*antmaster.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, antmaster.Errorf(antmaster.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, antmaster.Errorf(antmaster.ENOTFOUND, "no article content: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		if contentHTML, err = renderNode(result.ContentNode); err != nil {
			return nil, err
		}
	}

	return &antmaster.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
