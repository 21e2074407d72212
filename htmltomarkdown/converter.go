// Package htmltomarkdown converts extracted info page HTML into Markdown
// species descriptions.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/antmaster"
)

var _ antmaster.Converter = (*Converter)(nil)

// wikiChrome matches MediaWiki elements that carry no description text.
const wikiChrome = ".mw-editsection, sup.reference, .reference, .navbox, .catlinks, .toc, script, style"

var blankLines = regexp.MustCompile(`\n{3,}`)

// Converter wraps html-to-markdown. Wiki edit links, citation markers and
// navigation boxes are dropped before conversion.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", antmaster.Errorf(antmaster.EINVALID, "empty HTML input")
	}

	cleaned, err := stripChrome(html)
	if err != nil {
		return "", err
	}

	result, err := c.conv.ConvertString(cleaned)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(blankLines.ReplaceAllString(result, "\n\n")), nil
}

func stripChrome(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find(wikiChrome).Remove()
	return doc.Html()
}
