package mock

import "github.com/fwojciec/antmaster"

var _ antmaster.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of antmaster.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*antmaster.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*antmaster.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ antmaster.ImageFinder = (*ImageFinder)(nil)

// ImageFinder is a mock implementation of antmaster.ImageFinder.
type ImageFinder struct {
	FindImageFn func(html, baseURL string) (string, error)
}

func (f *ImageFinder) FindImage(html, baseURL string) (string, error) {
	return f.FindImageFn(html, baseURL)
}
