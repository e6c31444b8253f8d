package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/noteandcode/sitelinks"
)

// Ensure LoggingScanService implements sitelinks.ScanService.
var _ sitelinks.ScanService = (*LoggingScanService)(nil)

// LoggingScanService wraps a ScanService with debug logging.
type LoggingScanService struct {
	next   sitelinks.ScanService
	logger *slog.Logger
}

// NewLoggingScanService creates a new LoggingScanService.
func NewLoggingScanService(next sitelinks.ScanService, logger *slog.Logger) *LoggingScanService {
	return &LoggingScanService{next: next, logger: logger}
}

func (s *LoggingScanService) CreateScan(ctx context.Context, scan *sitelinks.Scan) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create scan",
			"id", scan.ID,
			"url", scan.URL,
			"count", len(scan.Roots),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateScan(ctx, scan)
}

func (s *LoggingScanService) FindScanByID(ctx context.Context, id string) (scan *sitelinks.Scan, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find scan",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindScanByID(ctx, id)
}

func (s *LoggingScanService) FindScans(ctx context.Context, filter sitelinks.ScanFilter) (scans []*sitelinks.Scan, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find scans",
			"count", len(scans),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindScans(ctx, filter)
}

func (s *LoggingScanService) DeleteScan(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("delete scan",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteScan(ctx, id)
}
