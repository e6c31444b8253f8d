package mock

import (
	"context"

	"github.com/noteandcode/sitelinks"
)

var _ sitelinks.Engine = (*Engine)(nil)

// Engine is a mock implementation of sitelinks.Engine.
type Engine struct {
	OpenFn func(ctx context.Context) (sitelinks.Session, error)
}

func (e *Engine) Open(ctx context.Context) (sitelinks.Session, error) {
	return e.OpenFn(ctx)
}

var _ sitelinks.Session = (*Session)(nil)

// Session is a mock implementation of sitelinks.Session.
type Session struct {
	LoadFn         func(ctx context.Context, url string) error
	WaitElementsFn func(ctx context.Context, selector string) error
	ElementsFn     func(ctx context.Context, selector string) ([]sitelinks.Element, error)
	CloseFn        func() error
}

func (s *Session) Load(ctx context.Context, url string) error {
	return s.LoadFn(ctx, url)
}

func (s *Session) WaitElements(ctx context.Context, selector string) error {
	return s.WaitElementsFn(ctx, selector)
}

func (s *Session) Elements(ctx context.Context, selector string) ([]sitelinks.Element, error) {
	return s.ElementsFn(ctx, selector)
}

func (s *Session) Close() error {
	return s.CloseFn()
}

var _ sitelinks.Element = (*Element)(nil)

// Element is a mock implementation of sitelinks.Element.
type Element struct {
	AttributeFn func(ctx context.Context, name string) (string, error)
}

func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	return e.AttributeFn(ctx, name)
}

// Href returns an Element whose href attribute is always href.
func Href(href string) *Element {
	return &Element{
		AttributeFn: func(_ context.Context, _ string) (string, error) {
			return href, nil
		},
	}
}
