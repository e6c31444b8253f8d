// Package fetch retrieves the anchor hrefs of a rendered page through a
// sitelinks.Engine, tolerating slow loads, stale elements and transient
// failures of a whole extraction pass.
package fetch

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/noteandcode/sitelinks"
)

// Default timeouts for loading a page, waiting for its first anchor and
// running one extraction pass.
const (
	DefaultLoadTimeout = 60 * time.Second
	DefaultWaitTimeout = 15 * time.Second
	DefaultPassTimeout = 15 * time.Second
)

// Ensure LinkFetcher implements sitelinks.LinkFetcher at compile time.
var _ sitelinks.LinkFetcher = (*LinkFetcher)(nil)

// LinkFetcher collects the anchor hrefs of a page.
// Every call opens its own engine session, so a LinkFetcher is safe for
// concurrent use when its Engine is.
type LinkFetcher struct {
	Engine      sitelinks.Engine
	LoadTimeout time.Duration
	WaitTimeout time.Duration
	PassTimeout time.Duration
	Retry       RetryPolicy

	// Log, if set, receives degraded-path events (slow load, exhausted retries).
	Log LogFunc
}

// NewLinkFetcher returns a LinkFetcher with default timeouts and retry policy.
func NewLinkFetcher(engine sitelinks.Engine) *LinkFetcher {
	return &LinkFetcher{
		Engine:      engine,
		LoadTimeout: DefaultLoadTimeout,
		WaitTimeout: DefaultWaitTimeout,
		PassTimeout: DefaultPassTimeout,
		Retry:       DefaultRetryPolicy(),
	}
}

// FetchLinks loads the page and returns its sorted, deduplicated absolute
// HTTP(S) hrefs. Only a page that cannot be loaded at all is an error.
func (f *LinkFetcher) FetchLinks(ctx context.Context, url string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session, err := f.Engine.Open(ctx)
	if err != nil {
		if sitelinks.ErrorCode(err) == sitelinks.EFETCH {
			return nil, err
		}
		return nil, sitelinks.WrapError(sitelinks.EFETCH, err, "could not open session for %s", url)
	}
	defer session.Close()

	if err := f.load(ctx, session, url); err != nil {
		return nil, err
	}

	if err := f.waitForAnchors(ctx, session); err != nil {
		return nil, err
	}

	links := make(map[string]struct{})
	policy := f.Retry
	if policy.OnRetry == nil && f.Log != nil {
		policy.OnRetry = func(attempt int, err error) {
			f.logf("  retry extraction %s (attempt %d): %v", url, attempt+1, err)
		}
	}
	passTimeout := timeoutOrDefault(f.PassTimeout, DefaultPassTimeout)
	err = policy.Do(ctx, func(ctx context.Context) error {
		passCtx, cancel := context.WithTimeout(ctx, passTimeout)
		defer cancel()
		return collectPass(passCtx, session, links)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		f.logf("  extraction of %s gave up after retries, keeping %d links: %v", url, len(links), err)
	}

	result := make([]string, 0, len(links))
	for link := range links {
		result = append(result, link)
	}
	slices.Sort(result)
	return result, nil
}

// load navigates the session to url. A load that merely times out is not
// fatal because the partial DOM may already hold anchors. Engines without
// partial content report a timeout as EFETCH instead.
func (f *LinkFetcher) load(ctx context.Context, session sitelinks.Session, url string) error {
	loadCtx, cancel := context.WithTimeout(ctx, timeoutOrDefault(f.LoadTimeout, DefaultLoadTimeout))
	defer cancel()

	err := session.Load(loadCtx, url)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case sitelinks.ErrorCode(err) == sitelinks.EFETCH:
		return err
	case errors.Is(err, context.DeadlineExceeded):
		f.logf("  load of %s timed out, extracting partial content", url)
		return nil
	default:
		return sitelinks.WrapError(sitelinks.EFETCH, err, "could not load %s", url)
	}
}

// waitForAnchors gives dynamic pages time to render their first anchor.
// Running out of time is not an error; only the caller's context is.
func (f *LinkFetcher) waitForAnchors(ctx context.Context, session sitelinks.Session) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeoutOrDefault(f.WaitTimeout, DefaultWaitTimeout))
	defer cancel()

	if err := session.WaitElements(waitCtx, sitelinks.AnchorSelector); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		f.logf("  no anchors appeared: %v", err)
	}
	return nil
}

func (f *LinkFetcher) logf(format string, args ...any) {
	if f.Log != nil {
		f.Log(format, args...)
	}
}

func timeoutOrDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
