// Package goquery locates representative species images in info page HTML.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/antmaster"
)

var _ antmaster.ImageFinder = (*ImageFinder)(nil)

// ImageSelector names an element and the attribute that holds its image URL.
type ImageSelector struct {
	Selector string
	Attr     string
	Source   string
}

// DefaultImageSelectors are tried in order; the first usable match wins.
var DefaultImageSelectors = []ImageSelector{
	{Selector: `meta[property="og:image"]`, Attr: "content", Source: "og:image"},
	{Selector: `meta[name="twitter:image"]`, Attr: "content", Source: "twitter:image"},
	{Selector: `.infobox img, table.infobox img`, Attr: "src", Source: "infobox"},
	{Selector: `.thumbimage, figure img, .thumb img`, Attr: "src", Source: "thumbnail"},
}

// skipImages matches wiki decoration that is never a species photo.
var skipImages = []string{"logo", "icon", "powered", "poweredby", "magnify", "spacer"}

// ImageFinder picks an image URL from an info page.
type ImageFinder struct {
	selectors []ImageSelector
}

// NewImageFinder creates an ImageFinder. With no selectors it uses
// DefaultImageSelectors.
func NewImageFinder(selectors ...ImageSelector) *ImageFinder {
	if len(selectors) == 0 {
		selectors = DefaultImageSelectors
	}
	return &ImageFinder{selectors: selectors}
}

// FindImage returns the absolute URL of the first image matched by the
// configured selectors, or "" when none matches.
func (f *ImageFinder) FindImage(html, baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", antmaster.Errorf(antmaster.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", antmaster.Errorf(antmaster.EINVALID, "failed to parse HTML: %v", err)
	}

	for _, sel := range f.selectors {
		var found string
		doc.Find(sel.Selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			ref, ok := s.Attr(sel.Attr)
			if !ok || !usableImage(ref) {
				return true
			}
			found = resolveURL(base, ref)
			return found == ""
		})
		if found != "" {
			return found, nil
		}
	}
	return "", nil
}

// resolveURL resolves ref against base. Protocol-relative wiki thumbnails
// ("//upload.example.org/...") inherit the base scheme.
func resolveURL(base *url.URL, ref string) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

func usableImage(ref string) bool {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return false
	}
	for _, skip := range skipImages {
		if strings.Contains(ref, skip) {
			return false
		}
	}
	return true
}
