package postmark

import (
	"io"
	"log/slog"
	"net/http"
)

// ClientFactory builds a Client for a validated server token.
type ClientFactory func(token string) Client

// Option configures a Sender.
type Option func(*Sender)

// WithClient injects a ready Client. Credential resolution is skipped.
func WithClient(c Client) Option {
	return func(s *Sender) {
		s.client = c
	}
}

// WithClientFactory overrides how the Client is built once a token is resolved.
func WithClientFactory(f ClientFactory) Option {
	return func(s *Sender) {
		if f != nil {
			s.newClient = f
		}
	}
}

// WithHTTPClient sets the *http.Client used by the default client factory.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Sender) {
		s.httpClient = hc
	}
}

// WithLogger sets the logger for routing decisions and delivery errors.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sender) {
		if l != nil {
			s.logger = l
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
