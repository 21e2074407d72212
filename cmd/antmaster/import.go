package main

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/csv"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	sep, size := utf8.DecodeRuneInString(c.Separator)
	if size == 0 || size != len(c.Separator) {
		err := antmaster.Errorf(antmaster.EINVALID, "separator must be a single character, got %q", c.Separator)
		fmt.Fprintf(deps.Stderr, "error: %s\n", antmaster.ErrorMessage(err))
		return err
	}

	f, err := os.Open(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	defer f.Close()

	batch, err := csv.NewReader(f).WithComma(sep).ReadAll()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", antmaster.ErrorMessage(err))
		return err
	}

	result, err := deps.Importer.Import(deps.Ctx, batch)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", antmaster.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported %d species (%d duplicates, %d invalid)\n",
		result.Created, result.Duplicates, result.Invalid)
	return nil
}
