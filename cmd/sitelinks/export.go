package main

import (
	"bytes"
	"fmt"

	"github.com/noteandcode/sitelinks"
	"github.com/noteandcode/sitelinks/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	scan, err := deps.Scans.FindScanByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", notFoundMessage(err, c.ID))
		return err
	}

	// Render fully before touching the output file.
	var buf bytes.Buffer
	if err := deps.Exporter.Export(&buf, scan); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitelinks.ErrorMessage(err))
		return err
	}

	if err := fs.WriteFile(c.Out, buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(deps.Stderr, "error: could not write %s\n", c.Out)
		return fmt.Errorf("writing export: %w", err)
	}

	fmt.Fprintf(deps.Stdout, "Exported %d links to %s\n", len(scan.Roots), c.Out)
	return nil
}
