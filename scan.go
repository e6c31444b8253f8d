package sitelinks

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Scan is the outcome of discovering the foreign sites linked from one page.
type Scan struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Roots     []string  `json:"roots"`
	Hash      string    `json:"hash"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the scan contains invalid fields.
func (s *Scan) Validate() error {
	if s.URL == "" {
		return Errorf(EINVALID, "scan URL required")
	}
	return nil
}

// Empty reports whether the scan found no foreign sites.
func (s *Scan) Empty() bool {
	return len(s.Roots) == 0
}

// HashRoots returns a stable fingerprint of a sorted root list.
// Two scans with the same roots share a hash.
func HashRoots(roots []string) string {
	h := xxhash.Sum64String(strings.Join(roots, "\n"))
	return strconv.FormatUint(h, 16)
}

// ScanService represents a service for persisting scans.
type ScanService interface {
	// CreateScan stores a scan, assigning its ID and CreatedAt.
	CreateScan(ctx context.Context, scan *Scan) error

	// FindScanByID retrieves a scan by ID.
	// Returns ENOTFOUND if the scan does not exist.
	FindScanByID(ctx context.Context, id string) (*Scan, error)

	// FindScans retrieves scans matching the filter, newest first.
	FindScans(ctx context.Context, filter ScanFilter) ([]*Scan, error)

	// DeleteScan permanently removes a scan.
	// Returns ENOTFOUND if the scan does not exist.
	DeleteScan(ctx context.Context, id string) error
}

// ScanFilter represents a filter for FindScans.
type ScanFilter struct {
	URL *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ResultExporter writes a scan's roots in a tabular file format.
type ResultExporter interface {
	// Export writes the scan to w.
	// Returns EINVALID if the scan has no roots.
	Export(w io.Writer, scan *Scan) error
}
