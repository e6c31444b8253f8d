package sitelinks

import (
	"net/url"
	"slices"
	"strings"
)

// FilterLinks reduces raw hrefs to the sorted, deduplicated root URLs of
// sites unrelated to baseURL. Links that do not parse, embed the base URL,
// point at a related host, or have a non-root path are dropped.
// FilterLinks never fails and performs no I/O.
func FilterLinks(links []string, baseURL string) []string {
	base := strings.TrimRight(baseURL, "/")
	baseHost := ""
	if u, err := url.Parse(base); err == nil {
		baseHost = strings.ToLower(u.Hostname())
	}

	seen := make(map[string]struct{})
	for _, link := range links {
		u, ok := parseHTTPURL(link)
		if !ok {
			continue
		}

		// Share and redirect links often carry the origin URL in a query parameter.
		if base != "" && strings.Contains(link, base) {
			continue
		}

		if IsRelatedHost(u.Hostname(), baseHost) {
			continue
		}

		if strings.Trim(u.Path, "/") != "" {
			continue
		}

		seen[RootURL(u)] = struct{}{}
	}

	roots := make([]string, 0, len(seen))
	for root := range seen {
		roots = append(roots, root)
	}
	slices.Sort(roots)
	return roots
}

// IsRelatedHost reports whether host and baseHost belong to the same site.
// Hosts are related when equal, when host is a subdomain of baseHost, or
// when either contains the other as a substring. Comparison is
// case-insensitive. An empty host is never related.
//
// The substring rule is deliberately coarse: "notbigcorp.com" and
// "bigcorp.com" are related.
func IsRelatedHost(host, baseHost string) bool {
	host = strings.ToLower(host)
	baseHost = strings.ToLower(baseHost)

	if host == "" || baseHost == "" {
		return false
	}
	if host == baseHost || strings.HasSuffix(host, "."+baseHost) {
		return true
	}
	return strings.Contains(host, baseHost) || strings.Contains(baseHost, host)
}

// RootURL returns the site root of u as scheme://host/ with the host lowercased.
// Userinfo, path, query and fragment are discarded; a port is kept.
func RootURL(u *url.URL) string {
	return u.Scheme + "://" + strings.ToLower(u.Host) + "/"
}

// IsHTTPURL reports whether s is an absolute http or https URL with a host.
func IsHTTPURL(s string) bool {
	_, ok := parseHTTPURL(s)
	return ok
}

func parseHTTPURL(s string) (*url.URL, bool) {
	if s == "" {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if u.Host == "" {
		return nil, false
	}
	return u, true
}

// NormalizeInputURL prepares a user-supplied URL for scanning.
// Surrounding whitespace is trimmed and http:// is prefixed when the
// input does not already start with "http" in any letter case.
func NormalizeInputURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", Errorf(EINVALID, "URL required")
	}
	if !strings.HasPrefix(strings.ToLower(raw), "http") {
		raw = "http://" + raw
	}
	if !IsHTTPURL(raw) {
		return "", Errorf(EINVALID, "invalid URL %q", raw)
	}
	return raw, nil
}
