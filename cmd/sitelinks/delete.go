package main

import (
	"fmt"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Scans.DeleteScan(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", notFoundMessage(err, c.ID))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted scan %s\n", c.ID)
	return nil
}
