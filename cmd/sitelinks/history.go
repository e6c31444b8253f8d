package main

import (
	"fmt"
	"time"

	"github.com/noteandcode/sitelinks"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := sitelinks.ScanFilter{Limit: c.Limit}
	if c.URL != "" {
		url, err := sitelinks.NormalizeInputURL(c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitelinks.ErrorMessage(err))
			return err
		}
		filter.URL = &url
	}

	scans, err := deps.Scans.FindScans(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitelinks.ErrorMessage(err))
		return err
	}

	if len(scans) == 0 {
		fmt.Fprintln(deps.Stdout, "No saved scans. Use 'sitelinks scan --save' to record one.")
		return nil
	}

	for _, s := range scans {
		fmt.Fprintf(deps.Stdout, "%s  %s  %3d  %s\n", s.ID, s.CreatedAt.Local().Format(time.DateTime), len(s.Roots), s.URL)
	}

	return nil
}
