package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/noteandcode/sitelinks"
)

// Ensure LoggingEngine implements sitelinks.Engine.
var _ sitelinks.Engine = (*LoggingEngine)(nil)

// LoggingEngine wraps an Engine with debug logging of session lifecycles.
type LoggingEngine struct {
	next   sitelinks.Engine
	logger *slog.Logger
}

// NewLoggingEngine creates a new LoggingEngine.
func NewLoggingEngine(next sitelinks.Engine, logger *slog.Logger) *LoggingEngine {
	return &LoggingEngine{next: next, logger: logger}
}

// Open logs session creation and returns a session that logs page loads.
func (e *LoggingEngine) Open(ctx context.Context) (s sitelinks.Session, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("session open",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	s, err = e.next.Open(ctx)
	if err != nil {
		return nil, err
	}
	return &loggingSession{Session: s, logger: e.logger}, nil
}

type loggingSession struct {
	sitelinks.Session
	logger *slog.Logger
}

func (s *loggingSession) Load(ctx context.Context, url string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("load",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.Session.Load(ctx, url)
}

func (s *loggingSession) Elements(ctx context.Context, selector string) (elements []sitelinks.Element, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("elements",
			"selector", selector,
			"count", len(elements),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.Session.Elements(ctx, selector)
}
