package scan

import (
	"context"

	"github.com/noteandcode/sitelinks"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of scans a Batch runs at once.
const DefaultConcurrency = 2

// Batch scans several URLs concurrently.
type Batch struct {
	Scanner     *Scanner
	RateLimiter sitelinks.DomainLimiter
	Concurrency int
}

// Result is the outcome of scanning one URL in a batch.
type Result struct {
	URL  string
	Scan *sitelinks.Scan
	Err  error
}

// Run scans urls and returns one result per URL in input order. A failed
// scan is reported in its result and does not stop the others. Run only
// returns an error when ctx is done.
func (b *Batch) Run(ctx context.Context, urls []string) ([]Result, error) {
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]Result, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, rawURL := range urls {
		g.Go(func() error {
			results[i] = b.scanOne(gctx, rawURL)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (b *Batch) scanOne(ctx context.Context, rawURL string) Result {
	result := Result{URL: rawURL}

	target, err := sitelinks.NormalizeInputURL(rawURL)
	if err != nil {
		result.Err = err
		return result
	}

	if b.RateLimiter != nil {
		if err := b.RateLimiter.Wait(ctx, domainOf(target)); err != nil {
			result.Err = err
			return result
		}
	}

	result.Scan, result.Err = b.Scanner.Scan(ctx, target)
	return result
}
