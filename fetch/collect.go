package fetch

import (
	"context"
	"errors"
	"iter"

	"github.com/noteandcode/sitelinks"
)

// errAllStale reports a pass in which no anchor could be read, which
// happens when the page replaces its DOM while it is being scanned.
var errAllStale = errors.New("every anchor went stale during extraction")

// hrefs lazily reads the href of each element. Elements whose read fails,
// typically because the node went stale, are skipped and the sequence
// continues; failed counts them. Each call to the returned sequence
// rereads every element.
func hrefs(ctx context.Context, elements []sitelinks.Element, failed *int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, el := range elements {
			if ctx.Err() != nil {
				return
			}
			href, err := el.Attribute(ctx, "href")
			if err != nil {
				if failed != nil {
					*failed++
				}
				continue
			}
			if href == "" {
				continue
			}
			if !yield(href) {
				return
			}
		}
	}
}

// collectPass enumerates the anchors of the session once and adds every
// absolute HTTP(S) href to links. Links read before ctx ends stay in links
// even though the pass then fails with the context error.
func collectPass(ctx context.Context, session sitelinks.Session, links map[string]struct{}) error {
	elements, err := session.Elements(ctx, sitelinks.AnchorSelector)
	if err != nil {
		return err
	}

	var failed int
	for href := range hrefs(ctx, elements, &failed) {
		if sitelinks.IsHTTPURL(href) {
			links[href] = struct{}{}
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(elements) > 0 && failed == len(elements) {
		return errAllStale
	}
	return nil
}
