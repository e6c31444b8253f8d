package scan_test

import (
	"context"
	"errors"
	"testing"

	"github.com/noteandcode/sitelinks"
	"github.com/noteandcode/sitelinks/mock"
	"github.com/noteandcode/sitelinks/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allowAll() *mock.PermissionChecker {
	return &mock.PermissionChecker{
		IsAllowedFn: func(ctx context.Context, url string) bool { return true },
	}
}

func fetcherReturning(links []string, err error) *mock.LinkFetcher {
	return &mock.LinkFetcher{
		FetchLinksFn: func(ctx context.Context, url string) ([]string, error) {
			return links, err
		},
	}
}

func TestScanner_Scan(t *testing.T) {
	t.Parallel()

	t.Run("returns filtered roots", func(t *testing.T) {
		t.Parallel()

		var fetchedURL string
		scanner := &scan.Scanner{
			Permissions: allowAll(),
			Fetcher: &mock.LinkFetcher{
				FetchLinksFn: func(ctx context.Context, url string) ([]string, error) {
					fetchedURL = url
					return []string{
						"https://foo.com/",
						"https://bar.org",
						"https://example.com/about",
						"https://blog.example.com/",
						"https://foo.com/page",
					}, nil
				},
			},
		}

		result, err := scanner.Scan(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", fetchedURL)
		assert.Equal(t, "https://example.com", result.URL)
		assert.Equal(t, []string{"https://bar.org/", "https://foo.com/"}, result.Roots)
		assert.Equal(t, sitelinks.HashRoots(result.Roots), result.Hash)
		assert.False(t, result.CreatedAt.IsZero())
	})

	t.Run("prefixes scheme on bare host", func(t *testing.T) {
		t.Parallel()

		var checked, fetched string
		scanner := &scan.Scanner{
			Permissions: &mock.PermissionChecker{
				IsAllowedFn: func(ctx context.Context, url string) bool {
					checked = url
					return true
				},
			},
			Fetcher: &mock.LinkFetcher{
				FetchLinksFn: func(ctx context.Context, url string) ([]string, error) {
					fetched = url
					return nil, nil
				},
			},
		}

		_, err := scanner.Scan(context.Background(), "  example.com ")

		require.NoError(t, err)
		assert.Equal(t, "http://example.com", checked)
		assert.Equal(t, "http://example.com", fetched)
	})

	t.Run("empty result is a success", func(t *testing.T) {
		t.Parallel()

		scanner := &scan.Scanner{
			Permissions: allowAll(),
			Fetcher:     fetcherReturning([]string{"https://example.com/a"}, nil),
		}

		result, err := scanner.Scan(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.True(t, result.Empty())
	})

	t.Run("robots denial skips fetching", func(t *testing.T) {
		t.Parallel()

		fetched := false
		scanner := &scan.Scanner{
			Permissions: &mock.PermissionChecker{
				IsAllowedFn: func(ctx context.Context, url string) bool { return false },
			},
			Fetcher: &mock.LinkFetcher{
				FetchLinksFn: func(ctx context.Context, url string) ([]string, error) {
					fetched = true
					return nil, nil
				},
			},
		}

		_, err := scanner.Scan(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Equal(t, sitelinks.EFORBIDDEN, sitelinks.ErrorCode(err))
		assert.False(t, fetched)
	})

	t.Run("fetch error propagates without saving", func(t *testing.T) {
		t.Parallel()

		saved := false
		scanner := &scan.Scanner{
			Permissions: allowAll(),
			Fetcher:     fetcherReturning(nil, sitelinks.Errorf(sitelinks.EFETCH, "could not load page")),
			Scans: &mock.ScanService{
				CreateScanFn: func(ctx context.Context, scan *sitelinks.Scan) error {
					saved = true
					return nil
				},
			},
		}

		result, err := scanner.Scan(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, sitelinks.EFETCH, sitelinks.ErrorCode(err))
		assert.False(t, saved)
	})

	t.Run("invalid URL is rejected", func(t *testing.T) {
		t.Parallel()

		scanner := &scan.Scanner{Permissions: allowAll(), Fetcher: fetcherReturning(nil, nil)}

		_, err := scanner.Scan(context.Background(), "   ")

		require.Error(t, err)
		assert.Equal(t, sitelinks.EINVALID, sitelinks.ErrorCode(err))
	})

	t.Run("saves scan when service is set", func(t *testing.T) {
		t.Parallel()

		var saved *sitelinks.Scan
		scanner := &scan.Scanner{
			Permissions: allowAll(),
			Fetcher:     fetcherReturning([]string{"https://foo.com/"}, nil),
			Scans: &mock.ScanService{
				CreateScanFn: func(ctx context.Context, scan *sitelinks.Scan) error {
					scan.ID = "saved-id"
					saved = scan
					return nil
				},
			},
		}

		result, err := scanner.Scan(context.Background(), "https://example.com")

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "saved-id", result.ID)
		assert.Equal(t, []string{"https://foo.com/"}, saved.Roots)
	})

	t.Run("save error is returned", func(t *testing.T) {
		t.Parallel()

		scanner := &scan.Scanner{
			Permissions: allowAll(),
			Fetcher:     fetcherReturning(nil, nil),
			Scans: &mock.ScanService{
				CreateScanFn: func(ctx context.Context, scan *sitelinks.Scan) error {
					return errors.New("disk full")
				},
			},
		}

		_, err := scanner.Scan(context.Background(), "https://example.com")

		require.EqualError(t, err, "disk full")
	})
}
