package main

import (
	"fmt"

	"github.com/fwojciec/docprimer"
)

// Run executes the clean command.
func (c *CleanCmd) Run(deps *Dependencies) error {
	results, err := deps.Cleaner.CleanDirectory(deps.Ctx, deps.Config.CorpusDir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docprimer.ErrorMessage(err))
		return err
	}

	var changed, failed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(deps.Stderr, "  failed %s: %v\n", r.Path, r.Err)
		case len(r.DiffLines) > 0:
			changed++
		}
	}

	fmt.Fprintf(deps.Stdout, "Cleaned %d documents (%d changed, %d failed)\n", len(results), changed, failed)
	return nil
}
