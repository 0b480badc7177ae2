package postmark

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
)

// SMTPSettings is the part of the SMTP configuration the Postmark sender
// relies on: the user name doubles as a fallback API key, and the default
// from address fills in messages without a sender.
type SMTPSettings interface {
	UserName(ctx context.Context) (string, error)
	DefaultFromAddress(ctx context.Context) (string, error)
}

// Sender delivers email through Postmark and falls back to an SMTP backup
// when Postmark is disabled or, in auto mode, has no usable API key.
// It implements both mailer.Sender and mailer.MessageSender.
type Sender struct {
	client     Client
	clients    map[string]Client
	backup     mailer.MessageSender
	smtp       SMTPSettings
	newClient  ClientFactory
	httpClient *http.Client
	logger     *slog.Logger
	cfg        Config
	mu         sync.Mutex
}

var (
	_ mailer.Sender        = (*Sender)(nil)
	_ mailer.MessageSender = (*Sender)(nil)
)

// New creates a Postmark sender.
// smtpCfg may be nil when an API key is configured and every message sets From.
// backup may be nil when UsePostmark is true.
func New(cfg Config, smtpCfg SMTPSettings, backup mailer.MessageSender, opts ...Option) *Sender {
	s := &Sender{
		cfg:     cfg,
		smtp:    smtpCfg,
		backup:  backup,
		clients: make(map[string]Client),
		logger:  discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newClient == nil {
		s.newClient = s.defaultClientFactory
	}
	return s
}

// Send composes a message and delivers it. See SendMessage for routing.
func (s *Sender) Send(ctx context.Context, to, subject, body string, isHTML bool, args *mailer.Args) error {
	msg, err := mailer.BuildMessage(to, subject, body, isHTML, args)
	if err != nil {
		return err
	}
	return s.SendMessage(ctx, msg)
}

// SendMessage routes a message:
//   - UsePostmark false: SMTP backup, hints are not inspected.
//   - a non-zero PostmarkTemplateId: templated send by id.
//   - otherwise a non-empty PostmarkAlias: templated send by alias.
//   - otherwise: plain Postmark send.
//
// With UsePostmark unset, a missing API key routes to the backup while a
// malformed POSTMARK_API_KEY fails with ErrConfiguration.
// With UsePostmark true, any credential problem fails with ErrConfiguration.
func (s *Sender) SendMessage(ctx context.Context, msg *mailer.Message) error {
	if msg == nil || !msg.HasRecipients() {
		return mailer.ErrNoRecipient
	}

	m := s.cfg.mode()
	if m == modeDisabled {
		return s.sendBackup(ctx, msg, "postmark disabled")
	}

	client, err := s.resolveClient(ctx)
	if err != nil {
		if m == modeAuto && errors.Is(err, errNoAPIKey) {
			s.logger.InfoContext(ctx, "postmark api key not configured, using smtp backup")
			return s.sendBackup(ctx, msg, "postmark api key not configured")
		}
		s.logger.ErrorContext(ctx, "postmark credentials unusable", slog.Any("error", err))
		return err
	}

	h := readHints(msg.Properties)
	pm, err := s.toMessage(ctx, msg, h)
	if err != nil {
		return err
	}

	ref, templated := h.template()
	if !templated {
		resp, err := client.SendMessage(ctx, pm)
		if err != nil {
			s.logger.ErrorContext(ctx, "postmark send failed", slog.Any("error", err))
			return err
		}
		s.logSent(ctx, resp, "plain")
		return nil
	}

	tm, err := toTemplatedMessage(pm, ref, h.model)
	if err != nil {
		return err
	}
	resp, err := client.SendTemplatedMessage(ctx, tm)
	if err != nil {
		s.logger.ErrorContext(ctx, "postmark templated send failed",
			slog.Int64("template_id", ref.ID()),
			slog.String("template_alias", ref.Alias()),
			slog.Any("error", err),
		)
		return err
	}
	s.logSent(ctx, resp, "templated")
	return nil
}

func (s *Sender) sendBackup(ctx context.Context, msg *mailer.Message, reason string) error {
	if s.backup == nil {
		return ErrNoBackup
	}
	s.logger.DebugContext(ctx, "routing email to smtp backup", slog.String("reason", reason))
	return s.backup.SendMessage(ctx, msg)
}

func (s *Sender) logSent(ctx context.Context, resp *Response, kind string) {
	if resp == nil {
		return
	}
	s.logger.DebugContext(ctx, "postmark email sent",
		slog.String("message_id", resp.MessageID),
		slog.String("kind", kind),
	)
}

func (s *Sender) defaultClientFactory(token string) Client {
	return NewClient(token,
		WithBaseURL(s.cfg.BaseURL),
		WithTransport(s.transport()),
	)
}

func (s *Sender) transport() *http.Client {
	if s.httpClient != nil {
		return s.httpClient
	}
	if s.cfg.Timeout > 0 {
		return &http.Client{Timeout: s.cfg.Timeout}
	}
	return nil
}
