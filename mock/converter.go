package mock

import "github.com/fwojciec/antmaster"

var _ antmaster.Converter = (*Converter)(nil)

// Converter is a mock implementation of antmaster.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
