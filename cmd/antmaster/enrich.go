package main

import (
	"fmt"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/enrich"
)

// Run executes the enrich command.
func (c *EnrichCmd) Run(deps *Dependencies) error {
	result, err := deps.Enricher.Enrich(deps.Ctx, func(e enrich.ProgressEvent) {
		switch e.Type {
		case enrich.ProgressCompleted:
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s\n", e.Completed, e.Total, e.Species)
		case enrich.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s: %s\n", e.Completed, e.Total, e.Species, antmaster.ErrorMessage(e.Error))
		}
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", antmaster.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Updated %d, unchanged %d, skipped %d, failed %d, images %d\n",
		result.Updated, result.Unchanged, result.Skipped, result.Failed, result.Images)
	if result.Tokens > 0 {
		fmt.Fprintf(deps.Stdout, "Descriptions: %d bytes, %d tokens\n", result.Bytes, result.Tokens)
	}
	return nil
}
