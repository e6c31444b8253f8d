// Package http provides net/http implementations of sitelinks.Engine and
// sitelinks.PermissionChecker for static sites that don't require
// JavaScript rendering.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/noteandcode/sitelinks"
	"github.com/noteandcode/sitelinks/goquery"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 60 * time.Second

// DefaultUserAgent identifies requests made by this package.
const DefaultUserAgent = "sitelinks/1.0 (+https://github.com/noteandcode/sitelinks)"

// maxBodyBytes limits the size of pages we will read.
const maxBodyBytes = 10 << 20

// Ensure Engine implements sitelinks.Engine at compile time.
var _ sitelinks.Engine = (*Engine)(nil)

// Engine loads pages with plain HTTP requests. Unlike rod.Engine, it does
// not execute JavaScript, so anchors created by scripts are not seen.
type Engine struct {
	client    *http.Client
	userAgent string
}

// Option configures an Engine or a RobotsChecker.
type Option func(*options)

type options struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	cacheTTL  time.Duration
}

// WithTimeout sets the timeout for HTTP requests.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with requests.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithClient sets the HTTP client used for requests.
func WithClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithCacheTTL sets how long a RobotsChecker keeps a host's policy.
func WithCacheTTL(d time.Duration) Option {
	return func(o *options) {
		o.cacheTTL = d
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		cacheTTL:  DefaultRobotsCacheTTL,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: o.timeout}
	}
	return o
}

// NewEngine creates a new HTTP-based Engine.
func NewEngine(opts ...Option) *Engine {
	o := newOptions(opts)
	return &Engine{
		client:    o.client,
		userAgent: o.userAgent,
	}
}

// Open returns a session that has not loaded anything yet.
func (e *Engine) Open(ctx context.Context) (sitelinks.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &session{engine: e}, nil
}

// session holds the parsed document of one request.
type session struct {
	engine *Engine
	doc    *goquery.Document
}

// Load fetches url and parses the response body.
func (s *session) Load(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return sitelinks.WrapError(sitelinks.EFETCH, err, "invalid request for %s", url)
	}
	req.Header.Set("User-Agent", s.engine.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.engine.client.Do(req)
	if err != nil {
		return loadError(err, url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return sitelinks.WrapError(sitelinks.EFETCH, fmt.Errorf("HTTP %d", resp.StatusCode), "could not load %s", url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return loadError(err, url)
	}

	doc, err := goquery.NewDocument(string(body), resp.Request.URL.String())
	if err != nil {
		return sitelinks.WrapError(sitelinks.EFETCH, err, "parsing %s", url)
	}
	s.doc = doc
	return nil
}

// loadError marks a failed request as EFETCH. A static page has no partial
// content to fall back on, so a timeout is a failure too. Only cancellation
// is passed through.
func loadError(err error, url string) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return sitelinks.WrapError(sitelinks.EFETCH, err, "timed out loading %s", url)
	}
	return sitelinks.WrapError(sitelinks.EFETCH, err, "could not load %s", url)
}

// WaitElements reports immediately whether selector matches; a static
// document never changes.
func (s *session) WaitElements(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.doc == nil || len(s.doc.Elements(selector)) == 0 {
		return sitelinks.Errorf(sitelinks.ENOTFOUND, "no element matches %q", selector)
	}
	return nil
}

// Elements returns the elements matching selector. Without a loaded
// document there are none.
func (s *session) Elements(ctx context.Context, selector string) ([]sitelinks.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.doc == nil {
		return nil, nil
	}
	return s.doc.Elements(selector), nil
}

// Close releases the parsed document.
func (s *session) Close() error {
	s.doc = nil
	return nil
}
