// Package catalog imports species into the catalog store, skipping names
// that are already present.
package catalog

import (
	"context"
	"fmt"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/bloom"
)

// falsePositiveRate of the name filter. A false positive costs one extra
// store lookup, never a lost row.
const falsePositiveRate = 0.001

// ImportResult counts the outcome of an import.
type ImportResult struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}

// Importer adds species to a SpeciesService. Duplicates within the batch
// and against the existing catalog are skipped.
type Importer struct {
	Species antmaster.SpeciesService

	// Logger, if set, receives one line per skipped row.
	Logger func(format string, args ...any)
}

// Import creates every species in batch that is not already cataloged.
// Created species have their ID set. Invalid rows are counted and skipped;
// any other store error aborts the import.
func (i *Importer) Import(ctx context.Context, batch []*antmaster.Species) (*ImportResult, error) {
	existing, err := i.Species.FindAllSpecies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	seen := bloom.NewFilter(uint(len(existing)+len(batch)), falsePositiveRate)
	for _, s := range existing {
		seen.Add(s.ScientificName)
	}

	var result ImportResult
	for _, s := range batch {
		if err := s.Validate(); err != nil {
			result.Invalid++
			i.logf("skip invalid row: %v", antmaster.ErrorMessage(err))
			continue
		}
		if seen.TestAndAdd(s.ScientificName) {
			// Might be a false positive; the store's unique index decides.
			if i.isDuplicate(ctx, s.ScientificName) {
				result.Duplicates++
				i.logf("skip duplicate %q", s.ScientificName)
				continue
			}
		}

		switch err := i.Species.CreateSpecies(ctx, s); antmaster.ErrorCode(err) {
		case "":
			result.Created++
		case antmaster.ECONFLICT:
			result.Duplicates++
			i.logf("skip duplicate %q", s.ScientificName)
		case antmaster.EINVALID:
			result.Invalid++
			i.logf("skip invalid row: %v", antmaster.ErrorMessage(err))
		default:
			return &result, fmt.Errorf("create %q: %w", s.ScientificName, err)
		}
	}
	return &result, nil
}

func (i *Importer) isDuplicate(ctx context.Context, name string) bool {
	found, err := i.Species.FindSpecies(ctx, antmaster.SpeciesFilter{ScientificName: &name, Limit: 1})
	return err == nil && len(found) > 0
}

func (i *Importer) logf(format string, args ...any) {
	if i.Logger != nil {
		i.Logger(format, args...)
	}
}
