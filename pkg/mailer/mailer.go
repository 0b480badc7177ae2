package mailer

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// Enqueuer defers delivery to a background worker.
type Enqueuer interface {
	EnqueueEmail(ctx context.Context, email QueuedEmail) error
}

// QueuedEmail is the payload handed to an Enqueuer.
type QueuedEmail struct {
	Args     *Args
	To       string
	Subject  string
	Body     string
	TenantID string
	IsHTML   bool
}

// Mailer is the host-facing client: it sends through a Sender, optionally
// defers through an Enqueuer and renders local markdown templates.
type Mailer struct {
	sender   Sender
	enqueuer Enqueuer
	renderer *Renderer
	logger   *slog.Logger
	config   Config
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithEnqueuer enables background delivery for Queue.
func WithEnqueuer(e Enqueuer) Option {
	return func(m *Mailer) {
		m.enqueuer = e
	}
}

// WithRenderer enables SendTemplate.
func WithRenderer(r *Renderer) Option {
	return func(m *Mailer) {
		m.renderer = r
	}
}

// WithConfig overrides the default mailer configuration.
func WithConfig(cfg Config) Option {
	return func(m *Mailer) {
		m.config = cfg
	}
}

// WithLogger sets the logger. A discard logger is used by default.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Mailer delivering through sender.
func New(sender Sender, opts ...Option) *Mailer {
	m := &Mailer{
		sender: sender,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		config: Config{
			FallbackSubject: "Notification",
			DefaultLayout:   "base.html",
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send delivers an email immediately.
func (m *Mailer) Send(ctx context.Context, to, subject, body string, isHTML bool, args *Args) error {
	if !Addressed(to, args) {
		return ErrNoRecipient
	}
	if err := m.sender.Send(ctx, to, subject, body, isHTML, args); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}

// Queue defers delivery to the configured Enqueuer.
// Without an Enqueuer the email is sent inline.
func (m *Mailer) Queue(ctx context.Context, to, subject, body string, isHTML bool, args *Args) error {
	if !Addressed(to, args) {
		return ErrNoRecipient
	}

	if m.enqueuer == nil {
		m.logger.DebugContext(ctx, "no enqueuer configured, sending inline",
			slog.String("subject", subject),
		)
		return m.Send(ctx, to, subject, body, isHTML, args)
	}

	err := m.enqueuer.EnqueueEmail(ctx, QueuedEmail{
		To:       to,
		Subject:  subject,
		Body:     body,
		IsHTML:   isHTML,
		Args:     args,
		TenantID: TenantFromContext(ctx),
	})
	if err != nil {
		return errors.Join(ErrQueueFailed, err)
	}
	return nil
}

// TemplateParams describes an email rendered from a local template.
type TemplateParams struct {
	Data     any    // Template data
	Args     *Args  // Optional sending arguments
	To       string // Recipients, "," or ";" separated
	Template string // Template filename (e.g., "welcome.md")
	Subject  string // Overrides the frontmatter subject
	Layout   string // Overrides the default layout
}

// SendTemplate renders a local markdown template and sends the result as HTML.
// Subject resolution: params.Subject > frontmatter > config fallback.
func (m *Mailer) SendTemplate(ctx context.Context, params TemplateParams) error {
	if !Addressed(params.To, params.Args) {
		return ErrNoRecipient
	}
	if m.renderer == nil {
		return errors.Join(ErrRenderFailed, errors.New("no renderer configured"))
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}

	out, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	subject := params.Subject
	if subject == "" {
		subject = out.Subject
	}
	if subject == "" {
		subject = m.config.FallbackSubject
	}

	return m.Send(ctx, params.To, subject, out.HTML, true, params.Args)
}
