package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/mailgate/pkg/health"
	"github.com/dmitrymomot/mailgate/pkg/mailer"
)

const defaultMaxBodyBytes = 10 << 20

// Mailer is the delivery surface the API needs.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool, args *mailer.Args) error
	Queue(ctx context.Context, to, subject, body string, isHTML bool, args *mailer.Args) error
	SendTemplate(ctx context.Context, params mailer.TemplateParams) error
}

// Settings reads and writes tenant delivery settings.
type Settings interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, tenantID, name, value string) error
	Delete(ctx context.Context, tenantID, name string) error
}

// Server exposes email delivery over HTTP.
type Server struct {
	mailer       Mailer
	settings     Settings
	checks       health.Checks
	logger       *slog.Logger
	maxBodyBytes int64
}

// Option configures a Server.
type Option func(*Server)

// WithSettings enables the /v1/settings routes.
func WithSettings(s Settings) Option {
	return func(srv *Server) {
		srv.settings = s
	}
}

// WithChecks sets the readiness checks run by /readyz.
func WithChecks(checks health.Checks) Option {
	return func(srv *Server) {
		srv.checks = checks
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) {
		if l != nil {
			srv.logger = l
		}
	}
}

// WithMaxBodyBytes caps request bodies. Default: 10 MiB.
func WithMaxBodyBytes(n int64) Option {
	return func(srv *Server) {
		if n > 0 {
			srv.maxBodyBytes = n
		}
	}
}

// New creates a Server delivering through m.
func New(m Mailer, opts ...Option) *Server {
	s := &Server{
		mailer:       m,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID, s.recoverer, s.logRequests, middleware.CleanPath)

	r.Get("/healthz", health.LivenessHandler())
	r.Get("/readyz", health.ReadinessHandler(s.checks, health.WithLogger(s.logger)))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequestSize(s.maxBodyBytes), tenant)

		r.Post("/emails", s.sendEmail)

		if s.settings != nil {
			r.Get("/settings/{name}", s.getSetting)
			r.Put("/settings/{name}", s.putSetting)
			r.Delete("/settings/{name}", s.deleteSetting)
		}
	})

	return r
}
