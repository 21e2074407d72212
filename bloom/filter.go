// Package bloom tracks scientific names already seen during a catalog
// import using a Bloom filter.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/antmaster/fuzzy"
)

// Filter is a probabilistic set of normalized species names. Names differing
// only in case, punctuation or spacing are the same member.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected names with the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(max(n, 1), fpRate),
	}
}

// Add records name.
func (f *Filter) Add(name string) {
	f.f.AddString(fuzzy.Normalize(name))
}

// Test reports whether name might have been added.
// False positives are possible; false negatives are not.
func (f *Filter) Test(name string) bool {
	return f.f.TestString(fuzzy.Normalize(name))
}

// TestAndAdd reports whether name might have been added, then adds it.
func (f *Filter) TestAndAdd(name string) bool {
	return f.f.TestAndAddString(fuzzy.Normalize(name))
}

// EstimatedCount returns the approximate number of names in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
