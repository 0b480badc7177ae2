package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
)

// New creates a logger writing to stdout and, when a Sentry DSN is set, to Sentry.
// A failed Sentry init is logged and the logger keeps writing to stdout only.
func New(cfg Config, extractors ...Extractor) *slog.Logger {
	return NewWriter(os.Stdout, cfg, extractors...)
}

// NewWriter is New with a custom destination for the stdout handler.
func NewWriter(w io.Writer, cfg Config, extractors ...Extractor) *slog.Logger {
	out := newStreamHandler(w, cfg)

	if cfg.SentryDSN == "" {
		return slog.New(WithExtractors(out, extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(out).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return slog.New(WithExtractors(out, extractors...))
	}

	return slog.New(WithExtractors(fanout{out, newSentryHandler(cfg)}, extractors...))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Flush waits up to timeout for buffered Sentry events to be delivered.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// Tenant adds the tenant id carried by the context, if any.
func Tenant() Extractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := mailer.TenantFromContext(ctx)
		if id == "" {
			return slog.Attr{}, false
		}
		return slog.String("tenant_id", id), true
	}
}

func newStreamHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if cfg.Format == FormatText {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func newSentryHandler(cfg Config) slog.Handler {
	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	switch ParseLevel(cfg.SentryLevel) {
	case slog.LevelError:
		logLevel = []slog.Level{slog.LevelError}
	case slog.LevelInfo:
		logLevel = []slog.Level{slog.LevelInfo, slog.LevelWarn, slog.LevelError}
	case slog.LevelDebug:
		logLevel = []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}
	}

	return sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())
}
