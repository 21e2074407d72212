package main

import (
	"fmt"

	"github.com/fwojciec/antmaster"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := antmaster.SpeciesFilter{Limit: c.Limit}
	if c.Genus != "" {
		filter.Genus = &c.Genus
	}

	species, err := deps.Species.FindSpecies(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", antmaster.ErrorMessage(err))
		return err
	}

	if len(species) == 0 {
		fmt.Fprintln(deps.Stdout, "No species found. Use 'antmaster import' to load a catalog.")
		return nil
	}

	for _, s := range species {
		fmt.Fprintf(deps.Stdout, "%d  %s  %s\n", s.ID, s.ScientificName, s.InfoURL)
	}

	return nil
}
