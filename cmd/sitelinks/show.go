package main

import (
	"fmt"

	"github.com/noteandcode/sitelinks"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	scan, err := deps.Scans.FindScanByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", notFoundMessage(err, c.ID))
		return err
	}

	printRoots(deps.Stdout, scan)
	return nil
}

// notFoundMessage adds a hint to ENOTFOUND errors for a scan ID.
func notFoundMessage(err error, id string) string {
	if sitelinks.ErrorCode(err) == sitelinks.ENOTFOUND {
		return fmt.Sprintf("scan %q not found. Use 'sitelinks history' to see saved scans.", id)
	}
	return sitelinks.ErrorMessage(err)
}
