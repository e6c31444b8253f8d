package rod_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/noteandcode/sitelinks"
	"github.com/noteandcode/sitelinks/mock"
	"github.com/noteandcode/sitelinks/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingEngine(t *testing.T) {
	t.Parallel()

	t.Run("logs loads and element counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Engine{
			OpenFn: func(context.Context) (sitelinks.Session, error) {
				return &mock.Session{
					LoadFn: func(context.Context, string) error { return nil },
					ElementsFn: func(context.Context, string) ([]sitelinks.Element, error) {
						return []sitelinks.Element{mock.Href("https://a.io/"), mock.Href("https://b.io/")}, nil
					},
				}, nil
			},
		}

		engine := rod.NewLoggingEngine(inner, logger)
		session, err := engine.Open(context.Background())
		require.NoError(t, err)
		require.NoError(t, session.Load(context.Background(), "https://example.com"))
		elements, err := session.Elements(context.Background(), "a")
		require.NoError(t, err)

		assert.Len(t, elements, 2)
		output := buf.String()
		assert.Contains(t, output, "session open")
		assert.Contains(t, output, "url=https://example.com")
		assert.Contains(t, output, "count=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs open failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Engine{
			OpenFn: func(context.Context) (sitelinks.Session, error) {
				return nil, errors.New("browser crashed")
			},
		}

		_, err := rod.NewLoggingEngine(inner, logger).Open(context.Background())

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"browser crashed\"")
	})
}
