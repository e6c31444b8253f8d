// Package excelize writes scan results as xlsx workbooks.
package excelize

import (
	"fmt"
	"io"

	"github.com/noteandcode/sitelinks"
	"github.com/xuri/excelize/v2"
)

// Sheet and header names of exported workbooks.
const (
	SheetName  = "Results"
	HeaderName = "Links"
)

// Ensure Exporter implements sitelinks.ResultExporter at compile time.
var _ sitelinks.ResultExporter = (*Exporter)(nil)

// Exporter writes a scan's roots to a single-sheet workbook, one root per
// row below a header row.
type Exporter struct{}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes scan to w as an xlsx workbook.
func (e *Exporter) Export(w io.Writer, scan *sitelinks.Scan) error {
	if scan == nil || scan.Empty() {
		return sitelinks.Errorf(sitelinks.EINVALID, "no results to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	if err := setCell(f, 1, HeaderName); err != nil {
		return err
	}
	for i, root := range scan.Roots {
		if err := setCell(f, i+2, root); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// setCell writes value to the first column of row.
func setCell(f *excelize.File, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("setting %s: %w", cell, err)
	}
	return nil
}
