// Package slog provides logging decorators for sitelinks services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/noteandcode/sitelinks"
)

// Ensure LoggingLinkFetcher implements sitelinks.LinkFetcher.
var _ sitelinks.LinkFetcher = (*LoggingLinkFetcher)(nil)

// LoggingLinkFetcher wraps a LinkFetcher with logging.
type LoggingLinkFetcher struct {
	next   sitelinks.LinkFetcher
	logger *slog.Logger
}

// NewLoggingLinkFetcher creates a new LoggingLinkFetcher.
func NewLoggingLinkFetcher(next sitelinks.LinkFetcher, logger *slog.Logger) *LoggingLinkFetcher {
	return &LoggingLinkFetcher{next: next, logger: logger}
}

// FetchLinks delegates to the wrapped fetcher and logs the operation.
func (f *LoggingLinkFetcher) FetchLinks(ctx context.Context, url string) (links []string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch links",
			"url", url,
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchLinks(ctx, url)
}

// Ensure LoggingPermissionChecker implements sitelinks.PermissionChecker.
var _ sitelinks.PermissionChecker = (*LoggingPermissionChecker)(nil)

// LoggingPermissionChecker wraps a PermissionChecker with logging.
type LoggingPermissionChecker struct {
	next   sitelinks.PermissionChecker
	logger *slog.Logger
}

// NewLoggingPermissionChecker creates a new LoggingPermissionChecker.
func NewLoggingPermissionChecker(next sitelinks.PermissionChecker, logger *slog.Logger) *LoggingPermissionChecker {
	return &LoggingPermissionChecker{next: next, logger: logger}
}

// IsAllowed delegates to the wrapped checker and logs the decision.
func (c *LoggingPermissionChecker) IsAllowed(ctx context.Context, url string) (allowed bool) {
	defer func(begin time.Time) {
		c.logger.Info("robots check",
			"url", url,
			"allowed", allowed,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.IsAllowed(ctx, url)
}
