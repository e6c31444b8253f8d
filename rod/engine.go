// Package rod provides a headless Chrome implementation of sitelinks.Engine.
package rod

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/noteandcode/sitelinks"
)

// Ensure Engine implements sitelinks.Engine at compile time.
var _ sitelinks.Engine = (*Engine)(nil)

// Engine renders pages in headless Chrome. Each session gets its own
// incognito browser context, so sessions share no cookies or storage.
// Engine is safe for concurrent use by multiple goroutines.
type Engine struct {
	manager *BrowserManager
	closed  atomic.Bool
}

// NewEngine launches a managed headless Chrome browser.
// Close must be called when the Engine is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewEngine(opts ...ManagerOption) (*Engine, error) {
	manager, err := NewBrowserManager(opts...)
	if err != nil {
		return nil, err
	}
	return &Engine{manager: manager}, nil
}

// Open creates an incognito context with a blank page.
func (e *Engine) Open(ctx context.Context) (sitelinks.Session, error) {
	if e.closed.Load() {
		return nil, sitelinks.Errorf(sitelinks.EINVALID, "engine is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lease, err := e.manager.Acquire()
	if err != nil {
		return nil, err
	}

	incognito, err := lease.Browser.Incognito()
	if err != nil {
		lease.Release()
		return nil, sitelinks.WrapError(sitelinks.EFETCH, err, "creating browser context")
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = incognito.Close()
		lease.Release()
		return nil, sitelinks.WrapError(sitelinks.EFETCH, err, "creating page")
	}

	return &session{
		page:      page,
		incognito: incognito,
		lease:     lease,
	}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	return e.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (e *Engine) LauncherPID() int {
	return e.manager.LauncherPID()
}

// session is one incognito page. It holds a lease so its browser is not
// shut down while the session is open.
type session struct {
	page      *rod.Page
	incognito *rod.Browser
	lease     *Lease
	closeOnce sync.Once
	closeErr  error
}

// Load navigates to url and waits for the load event.
func (s *session) Load(ctx context.Context, url string) error {
	page := s.page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return loadError(err, url)
	}

	if err := page.WaitLoad(); err != nil {
		return loadError(err, url)
	}

	return nil
}

// WaitElements blocks until selector matches or ctx is done.
func (s *session) WaitElements(ctx context.Context, selector string) error {
	_, err := s.page.Context(ctx).Element(selector)
	return err
}

// Elements returns the elements currently matching selector without waiting.
func (s *session) Elements(ctx context.Context, selector string) ([]sitelinks.Element, error) {
	els, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}

	elements := make([]sitelinks.Element, 0, len(els))
	for _, el := range els {
		elements = append(elements, &element{el: el})
	}
	return elements, nil
}

// Close closes the page, disposes its incognito context and releases the
// browser lease.
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		pageErr := s.page.Close()
		ctxErr := s.incognito.Close()
		s.lease.Release()
		s.closeErr = errors.Join(pageErr, ctxErr)
	})
	return s.closeErr
}

// element wraps a remote DOM node.
type element struct {
	el *rod.Element
}

// Attribute reads the DOM property of the node. For href this is the
// absolute URL resolved against the document base.
func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	v, err := e.el.Context(ctx).Property(name)
	if err != nil {
		return "", err
	}
	if v.Nil() {
		return "", nil
	}
	return v.Str(), nil
}

// loadError keeps context errors intact and marks everything else as a
// page that could not be loaded.
func loadError(err error, url string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return sitelinks.WrapError(sitelinks.EFETCH, err, "could not load %s", url)
}
