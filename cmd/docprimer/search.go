package main

import (
	"errors"
	"fmt"

	"github.com/fwojciec/docprimer"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	augmented, err := deps.Augmenter.Augment(deps.Ctx, c.Query)
	if errors.Is(err, docprimer.ErrNoResults) {
		fmt.Fprintln(deps.Stdout, docprimer.NoResultsMessage)
		return nil
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docprimer.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, augmented.Text)
	suffix := ""
	if augmented.Truncated {
		suffix = ", truncated"
	}
	fmt.Fprintf(deps.Stderr, "%d results saved to %s%s\n", augmented.Results, augmented.Path, suffix)
	return nil
}
