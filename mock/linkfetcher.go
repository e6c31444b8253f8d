package mock

import (
	"context"

	"github.com/noteandcode/sitelinks"
)

var _ sitelinks.LinkFetcher = (*LinkFetcher)(nil)

// LinkFetcher is a mock implementation of sitelinks.LinkFetcher.
type LinkFetcher struct {
	FetchLinksFn func(ctx context.Context, url string) ([]string, error)
}

func (f *LinkFetcher) FetchLinks(ctx context.Context, url string) ([]string, error) {
	return f.FetchLinksFn(ctx, url)
}

var _ sitelinks.PermissionChecker = (*PermissionChecker)(nil)

// PermissionChecker is a mock implementation of sitelinks.PermissionChecker.
type PermissionChecker struct {
	IsAllowedFn func(ctx context.Context, url string) bool
}

func (p *PermissionChecker) IsAllowed(ctx context.Context, url string) bool {
	return p.IsAllowedFn(ctx, url)
}
