package main

import (
	"fmt"
	"io"

	"github.com/noteandcode/sitelinks"
)

// Run executes the scan command.
func (c *ScanCmd) Run(deps *Dependencies) error {
	results, err := deps.Batch.Run(deps.Ctx, c.URLs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	var firstErr error
	for _, r := range results {
		if len(results) > 1 {
			fmt.Fprintf(deps.Stdout, "# %s\n", r.URL)
		}

		if r.Err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", describeScanError(r.Err))
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}

		printRoots(deps.Stdout, r.Scan)
		if r.Scan.ID != "" {
			fmt.Fprintf(deps.Stderr, "Saved scan %s\n", r.Scan.ID)
		}
	}

	return firstErr
}

// describeScanError turns a scan failure into a message for the user.
func describeScanError(err error) string {
	switch sitelinks.ErrorCode(err) {
	case sitelinks.EFETCH:
		return "could not load page: " + err.Error()
	case sitelinks.EFORBIDDEN:
		return "scraping not allowed by robots.txt"
	case sitelinks.EINTERNAL:
		return err.Error()
	default:
		return sitelinks.ErrorMessage(err)
	}
}

// printRoots writes one root per line, or a notice when there are none.
func printRoots(w io.Writer, scan *sitelinks.Scan) {
	if scan.Empty() {
		fmt.Fprintln(w, "No related sites found.")
		return
	}
	for _, root := range scan.Roots {
		fmt.Fprintln(w, root)
	}
}
