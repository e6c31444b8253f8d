// Package goquery provides static HTML documents whose elements behave like
// the nodes of a rendered page, backed by github.com/PuerkitoBio/goquery.
package goquery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/noteandcode/sitelinks"
)

// urlAttributes are resolved to absolute URLs on read, matching the DOM
// properties of the same name.
var urlAttributes = map[string]bool{
	"href":   true,
	"src":    true,
	"action": true,
}

// Document is a parsed HTML page.
type Document struct {
	doc  *goquery.Document
	base *url.URL
}

// NewDocument parses html fetched from pageURL. Relative URLs resolve
// against pageURL, or against the document's <base href> when present.
func NewDocument(html string, pageURL string) (*Document, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, sitelinks.Errorf(sitelinks.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitelinks.Errorf(sitelinks.EINVALID, "failed to parse HTML: %v", err)
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if resolved := resolveURL(base, href); resolved != nil {
			base = resolved
		}
	}

	return &Document{doc: doc, base: base}, nil
}

// Elements returns the elements matching selector in document order.
func (d *Document) Elements(selector string) []sitelinks.Element {
	var elements []sitelinks.Element
	d.doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		elements = append(elements, &element{sel: sel, base: d.base})
	})
	return elements
}

// element is a node of a static document. Reads never go stale.
type element struct {
	sel  *goquery.Selection
	base *url.URL
}

// Attribute returns the named attribute. URL attributes are resolved
// against the document base; values that do not parse are returned as written.
func (e *element) Attribute(_ context.Context, name string) (string, error) {
	val, exists := e.sel.Attr(name)
	if !exists {
		return "", nil
	}
	val = strings.TrimSpace(val)
	if !urlAttributes[name] {
		return val, nil
	}

	resolved := resolveURL(e.base, val)
	if resolved == nil {
		return val, nil
	}
	return resolved.String(), nil
}

// resolveURL resolves a possibly relative href against base.
// Returns nil if the href cannot be parsed.
func resolveURL(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil
	}
	return base.ResolveReference(ref)
}
