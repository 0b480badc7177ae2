package smtp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
)

// Dialer delivers composed gomail messages.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// DialerFactory builds a Dialer for resolved settings.
type DialerFactory func(s Settings) Dialer

// Sender delivers messages over SMTP. It implements mailer.MessageSender and
// mailer.Sender, and is the backup path of the Postmark sender.
type Sender struct {
	cfg    Configuration
	dial   DialerFactory
	logger *slog.Logger
}

var (
	_ mailer.Sender        = (*Sender)(nil)
	_ mailer.MessageSender = (*Sender)(nil)
)

// Option configures a Sender.
type Option func(*Sender)

// WithDialer overrides how SMTP connections are made.
func WithDialer(f DialerFactory) Option {
	return func(s *Sender) {
		if f != nil {
			s.dial = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sender) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an SMTP sender reading its settings from cfg on every send.
func New(cfg Configuration, opts ...Option) *Sender {
	s := &Sender{
		cfg:    cfg,
		dial:   NewDialer,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDialer returns a gomail dialer. Port 465 or EnableSSL use implicit TLS;
// other ports upgrade with STARTTLS when the server offers it.
func NewDialer(s Settings) Dialer {
	d := gomail.NewDialer(s.Host, s.Port, s.UserName, s.Password)
	if s.EnableSSL {
		d.SSL = true
	}
	return d
}

// Send composes a message and delivers it.
func (s *Sender) Send(ctx context.Context, to, subject, body string, isHTML bool, args *mailer.Args) error {
	msg, err := mailer.BuildMessage(to, subject, body, isHTML, args)
	if err != nil {
		return err
	}
	return s.SendMessage(ctx, msg)
}

// SendMessage delivers msg through the configured SMTP server.
func (s *Sender) SendMessage(ctx context.Context, msg *mailer.Message) error {
	if msg == nil || !msg.HasRecipients() {
		return mailer.ErrNoRecipient
	}

	settings, err := Load(ctx, s.cfg)
	if err != nil {
		return errors.Join(ErrSettings, err)
	}
	if settings.Host == "" {
		return ErrNotConfigured
	}

	m, err := buildMessage(msg, settings)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dial(settings).DialAndSend(m); err != nil {
		s.logger.ErrorContext(ctx, "smtp send failed",
			slog.String("host", settings.Host),
			slog.Int("port", settings.Port),
			slog.Any("error", err),
		)
		return errors.Join(ErrSendFailed, err)
	}

	s.logger.DebugContext(ctx, "smtp email sent", slog.String("host", settings.Host))
	return nil
}

func buildMessage(msg *mailer.Message, settings Settings) (*gomail.Message, error) {
	m := gomail.NewMessage()

	switch {
	case strings.TrimSpace(msg.From) != "":
		m.SetHeader("From", strings.TrimSpace(msg.From))
	case settings.FromAddress != "":
		m.SetAddressHeader("From", settings.FromAddress, settings.FromName)
	default:
		return nil, ErrNoSender
	}

	if len(msg.To) > 0 {
		m.SetHeader("To", msg.To...)
	}
	if len(msg.CC) > 0 {
		m.SetHeader("Cc", msg.CC...)
	}
	if len(msg.BCC) > 0 {
		m.SetHeader("Bcc", msg.BCC...)
	}
	if replyTo := msg.FirstReplyTo(); replyTo != "" {
		m.SetHeader("Reply-To", replyTo)
	}
	m.SetHeader("Subject", msg.Subject)

	// First occurrence of a name wins, matching the Postmark translator.
	seen := make(map[string]struct{}, len(msg.Headers))
	for _, h := range msg.Headers {
		name := strings.TrimSpace(h.Name)
		if name == "" || reservedHeader(name) {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		m.SetHeader(name, h.Value)
	}

	contentType := "text/plain"
	if msg.IsHTML {
		contentType = "text/html"
	}
	m.SetBody(contentType, msg.Body)

	for _, a := range msg.Attachments {
		data, err := a.Bytes()
		if err != nil {
			return nil, errors.Join(ErrAttachment, err)
		}
		opts := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if header := attachmentHeader(a); len(header) > 0 {
			opts = append(opts, gomail.SetHeader(header))
		}
		if a.ContentID != "" {
			m.Embed(a.Filename, opts...)
		} else {
			m.Attach(a.Filename, opts...)
		}
	}

	return m, nil
}

func attachmentHeader(a mailer.Attachment) map[string][]string {
	header := map[string][]string{}
	if a.ContentType != "" {
		header["Content-Type"] = []string{fmt.Sprintf("%s; name=%q", a.ContentType, a.Filename)}
	}
	if a.ContentID != "" {
		header["Content-ID"] = []string{"<" + strings.Trim(a.ContentID, "<>") + ">"}
	}
	return header
}

// reservedHeader reports headers the sender sets itself.
func reservedHeader(name string) bool {
	switch strings.ToLower(name) {
	case "from", "to", "cc", "bcc", "reply-to", "subject", "content-type", "mime-version":
		return true
	}
	return false
}
