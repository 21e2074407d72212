package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/antmaster"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Asker.Ask(deps.Ctx, antmaster.Query{
		Text:           c.Question,
		SpeciesContext: c.Species,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", antmaster.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}

	fmt.Fprintln(deps.Stdout, answer.Answer)
	if len(answer.Species) > 0 {
		fmt.Fprintln(deps.Stdout)
		for _, s := range answer.Species {
			if s.ImageURL != "" {
				fmt.Fprintf(deps.Stdout, "- %s  %s\n", s.ScientificName, s.ImageURL)
				continue
			}
			fmt.Fprintf(deps.Stdout, "- %s\n", s.ScientificName)
		}
	}
	if answer.Error != "" {
		fmt.Fprintf(deps.Stderr, "backend error: %s\n", answer.Error)
	}

	return nil
}
