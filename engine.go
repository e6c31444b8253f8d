package sitelinks

import "context"

// AnchorSelector matches the hyperlink elements of a page.
const AnchorSelector = "a"

// Engine opens isolated sessions for loading pages.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Engine interface {
	// Open acquires a fresh session. The caller must Close it.
	Open(ctx context.Context) (Session, error)
}

// Session is a single loaded page and the resources backing it.
type Session interface {
	// Load navigates to the URL.
	// Returns an EFETCH error when the page cannot be retrieved at all.
	// A context deadline is returned unwrapped so callers can tell a slow
	// load apart from a failed one.
	Load(ctx context.Context, url string) error

	// WaitElements blocks until at least one element matches selector
	// or the context is done.
	WaitElements(ctx context.Context, selector string) error

	// Elements returns the elements currently matching selector.
	Elements(ctx context.Context, selector string) ([]Element, error)

	// Close releases the session. Safe to call more than once.
	Close() error
}

// Element is a handle to a node in a loaded page.
// Reads may fail once the node has been detached from the document.
type Element interface {
	// Attribute returns the named attribute as the page resolves it.
	// For href this is the absolute URL. Missing attributes return "".
	Attribute(ctx context.Context, name string) (string, error)
}

// LinkFetcher retrieves the raw anchor hrefs of a page.
type LinkFetcher interface {
	// FetchLinks returns the deduplicated absolute HTTP(S) hrefs found on
	// the page. Returns an EFETCH error only when the page could not be
	// loaded; partial extraction failures yield a smaller result.
	FetchLinks(ctx context.Context, url string) ([]string, error)
}

// PermissionChecker decides whether a URL may be fetched.
type PermissionChecker interface {
	// IsAllowed reports whether the URL may be fetched.
	// Any failure to obtain or parse the policy reports false.
	IsAllowed(ctx context.Context, url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
