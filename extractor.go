package antmaster

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}

// ImageFinder locates a representative image on an info page.
type ImageFinder interface {
	// FindImage returns an absolute image URL or "" when the page has none.
	// baseURL resolves relative references.
	FindImage(html, baseURL string) (string, error)
}
