// Package scan discovers the foreign sites linked from a page. It
// coordinates the robots.txt check, link fetching, filtering, and
// optional persistence of the result.
package scan

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/noteandcode/sitelinks"
)

// Scanner runs a single scan.
type Scanner struct {
	Permissions sitelinks.PermissionChecker
	Fetcher     sitelinks.LinkFetcher

	// Scans stores results when set.
	Scans sitelinks.ScanService
}

// Scan fetches rawURL and returns the foreign root URLs it links to.
// Returns EINVALID for an unusable URL, EFORBIDDEN when robots.txt denies
// access, and EFETCH when the page cannot be loaded. A scan that finds
// nothing is a success with no roots.
func (s *Scanner) Scan(ctx context.Context, rawURL string) (*sitelinks.Scan, error) {
	target, err := sitelinks.NormalizeInputURL(rawURL)
	if err != nil {
		return nil, err
	}

	if !s.Permissions.IsAllowed(ctx, target) {
		return nil, sitelinks.Errorf(sitelinks.EFORBIDDEN, "scraping not allowed by robots.txt")
	}

	links, err := s.Fetcher.FetchLinks(ctx, target)
	if err != nil {
		return nil, err
	}

	roots := sitelinks.FilterLinks(links, target)
	scan := &sitelinks.Scan{
		URL:       target,
		Roots:     roots,
		Hash:      sitelinks.HashRoots(roots),
		CreatedAt: time.Now().UTC(),
	}

	if s.Scans != nil {
		if err := s.Scans.CreateScan(ctx, scan); err != nil {
			return nil, err
		}
	}

	return scan, nil
}

// domainOf returns the lowercased host of a normalized URL, or "" when it
// cannot be parsed.
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
