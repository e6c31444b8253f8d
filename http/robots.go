package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/noteandcode/sitelinks"
	"github.com/temoto/robotstxt"
)

// DefaultRobotsCacheTTL is how long a host's robots.txt policy is reused.
const DefaultRobotsCacheTTL = time.Hour

// robotsAgent is the user agent group consulted in robots.txt.
const robotsAgent = "*"

// maxRobotsBodyBytes limits the size of robots.txt responses we will read.
const maxRobotsBodyBytes = 512 * 1024

// Ensure RobotsChecker implements sitelinks.PermissionChecker at compile time.
var _ sitelinks.PermissionChecker = (*RobotsChecker)(nil)

// RobotsChecker decides whether a URL may be fetched according to its
// host's robots.txt. It fails closed: a policy that cannot be fetched or
// parsed disallows everything. Policies are cached per scheme and host.
//
// RobotsChecker is safe for concurrent use.
type RobotsChecker struct {
	client    *http.Client
	userAgent string
	cacheTTL  time.Duration

	mu    sync.Mutex
	cache map[string]robotsEntry
}

// robotsEntry is a cached policy. Nil data disallows everything.
type robotsEntry struct {
	data      *robotstxt.RobotsData
	fetchedAt time.Time
}

// NewRobotsChecker creates a new RobotsChecker.
func NewRobotsChecker(opts ...Option) *RobotsChecker {
	o := newOptions(opts)
	return &RobotsChecker{
		client:    o.client,
		userAgent: o.userAgent,
		cacheTTL:  o.cacheTTL,
		cache:     make(map[string]robotsEntry),
	}
}

// IsAllowed reports whether robots.txt permits fetching rawURL.
func (c *RobotsChecker) IsAllowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}

	data := c.policy(ctx, u)
	if data == nil {
		return false
	}
	return data.TestAgent(u.RequestURI(), robotsAgent)
}

// policy returns the cached robots.txt of the URL's origin, fetching it
// when missing or stale.
func (c *RobotsChecker) policy(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	key := u.Scheme + "://" + strings.ToLower(u.Host)

	c.mu.Lock()
	entry, ok := c.cache[key]
	c.mu.Unlock()
	if ok && time.Since(entry.fetchedAt) < c.cacheTTL {
		return entry.data
	}

	data, cacheable := c.fetch(ctx, key+"/robots.txt")
	if cacheable {
		c.mu.Lock()
		c.cache[key] = robotsEntry{data: data, fetchedAt: time.Now()}
		c.mu.Unlock()
	}
	return data
}

// fetch retrieves and parses robots.txt. Transport failures are not
// cached so a later call can retry.
func (c *RobotsChecker) fetch(ctx context.Context, robotsURL string) (data *robotstxt.RobotsData, cacheable bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, http.NoBody)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	// Access-controlled robots.txt means the site does not want crawlers.
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, true
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBodyBytes))
	if err != nil {
		return nil, false
	}

	// 4xx allows everything, 5xx disallows everything.
	data, err = robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, true
	}
	return data, true
}
