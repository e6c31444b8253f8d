package mock

import (
	"context"
	"io"

	"github.com/noteandcode/sitelinks"
)

var _ sitelinks.ScanService = (*ScanService)(nil)

// ScanService is a mock implementation of sitelinks.ScanService.
type ScanService struct {
	CreateScanFn   func(ctx context.Context, scan *sitelinks.Scan) error
	FindScanByIDFn func(ctx context.Context, id string) (*sitelinks.Scan, error)
	FindScansFn    func(ctx context.Context, filter sitelinks.ScanFilter) ([]*sitelinks.Scan, error)
	DeleteScanFn   func(ctx context.Context, id string) error
}

func (s *ScanService) CreateScan(ctx context.Context, scan *sitelinks.Scan) error {
	return s.CreateScanFn(ctx, scan)
}

func (s *ScanService) FindScanByID(ctx context.Context, id string) (*sitelinks.Scan, error) {
	return s.FindScanByIDFn(ctx, id)
}

func (s *ScanService) FindScans(ctx context.Context, filter sitelinks.ScanFilter) ([]*sitelinks.Scan, error) {
	return s.FindScansFn(ctx, filter)
}

func (s *ScanService) DeleteScan(ctx context.Context, id string) error {
	return s.DeleteScanFn(ctx, id)
}

var _ sitelinks.ResultExporter = (*ResultExporter)(nil)

// ResultExporter is a mock implementation of sitelinks.ResultExporter.
type ResultExporter struct {
	ExportFn func(w io.Writer, scan *sitelinks.Scan) error
}

func (e *ResultExporter) Export(w io.Writer, scan *sitelinks.Scan) error {
	return e.ExportFn(w, scan)
}
