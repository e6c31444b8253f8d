package scan_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/noteandcode/sitelinks"
	"github.com/noteandcode/sitelinks/mock"
	"github.com/noteandcode/sitelinks/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_Run(t *testing.T) {
	t.Parallel()

	t.Run("keeps input order and isolates failures", func(t *testing.T) {
		t.Parallel()

		batch := &scan.Batch{
			Scanner: &scan.Scanner{
				Permissions: allowAll(),
				Fetcher: &mock.LinkFetcher{
					FetchLinksFn: func(ctx context.Context, url string) ([]string, error) {
						switch url {
						case "https://slow.com":
							time.Sleep(30 * time.Millisecond)
							return []string{"https://a.com/"}, nil
						case "https://broken.com":
							return nil, sitelinks.Errorf(sitelinks.EFETCH, "could not load page")
						default:
							return []string{"https://b.com/"}, nil
						}
					},
				},
			},
			Concurrency: 3,
		}

		results, err := batch.Run(context.Background(), []string{"https://slow.com", "https://broken.com", "fast.com"})

		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "https://slow.com", results[0].URL)
		require.NoError(t, results[0].Err)
		assert.Equal(t, []string{"https://a.com/"}, results[0].Scan.Roots)

		assert.Equal(t, sitelinks.EFETCH, sitelinks.ErrorCode(results[1].Err))
		assert.Nil(t, results[1].Scan)

		assert.Equal(t, "fast.com", results[2].URL)
		require.NoError(t, results[2].Err)
		assert.Equal(t, "http://fast.com", results[2].Scan.URL)
	})

	t.Run("bounds concurrency", func(t *testing.T) {
		t.Parallel()

		var running, peak atomic.Int32
		batch := &scan.Batch{
			Scanner: &scan.Scanner{
				Permissions: allowAll(),
				Fetcher: &mock.LinkFetcher{
					FetchLinksFn: func(ctx context.Context, url string) ([]string, error) {
						n := running.Add(1)
						for {
							p := peak.Load()
							if n <= p || peak.CompareAndSwap(p, n) {
								break
							}
						}
						time.Sleep(10 * time.Millisecond)
						running.Add(-1)
						return nil, nil
					},
				},
			},
			Concurrency: 2,
		}

		urls := []string{"https://a.com", "https://b.com", "https://c.com", "https://d.com", "https://e.com"}
		_, err := batch.Run(context.Background(), urls)

		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("rate limits by host", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var domains []string
		limiter := &recordingLimiter{wait: func(domain string) {
			mu.Lock()
			domains = append(domains, domain)
			mu.Unlock()
		}}

		batch := &scan.Batch{
			Scanner:     &scan.Scanner{Permissions: allowAll(), Fetcher: fetcherReturning(nil, nil)},
			RateLimiter: limiter,
			Concurrency: 1,
		}

		_, err := batch.Run(context.Background(), []string{"https://Example.com/a", "example.com/b", "https://other.org"})

		require.NoError(t, err)
		assert.Equal(t, []string{"example.com", "example.com", "other.org"}, domains)
	})

	t.Run("invalid URL fails only its entry", func(t *testing.T) {
		t.Parallel()

		batch := &scan.Batch{
			Scanner: &scan.Scanner{Permissions: allowAll(), Fetcher: fetcherReturning(nil, nil)},
		}

		results, err := batch.Run(context.Background(), []string{"", "https://ok.com"})

		require.NoError(t, err)
		assert.Equal(t, sitelinks.EINVALID, sitelinks.ErrorCode(results[0].Err))
		assert.NoError(t, results[1].Err)
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		batch := &scan.Batch{
			Scanner: &scan.Scanner{
				Permissions: allowAll(),
				Fetcher: &mock.LinkFetcher{
					FetchLinksFn: func(ctx context.Context, url string) ([]string, error) {
						return nil, ctx.Err()
					},
				},
			},
			RateLimiter: scan.NewDomainLimiter(1),
		}

		results, err := batch.Run(ctx, []string{"https://a.com"})

		require.ErrorIs(t, err, context.Canceled)
		require.Len(t, results, 1)
		assert.Error(t, results[0].Err)
	})
}

type recordingLimiter struct {
	wait func(domain string)
}

func (l *recordingLimiter) Wait(ctx context.Context, domain string) error {
	l.wait(domain)
	return nil
}
