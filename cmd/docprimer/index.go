package main

import (
	"fmt"

	"github.com/fwojciec/docprimer"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	n, err := deps.Index.Build(deps.Ctx, deps.Config.CorpusDir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docprimer.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d documents from %s\n", n, deps.Config.CorpusDir)
	return nil
}
