package smtp_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
	"github.com/dmitrymomot/mailgate/pkg/mailer/smtp"
)

type fakeDialer struct {
	err      error
	messages []*gomail.Message
	settings smtp.Settings
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.messages = append(d.messages, m...)
	return d.err
}

func (d *fakeDialer) factory() smtp.DialerFactory {
	return func(s smtp.Settings) smtp.Dialer {
		d.settings = s
		return d
	}
}

func testConfig() smtp.Config {
	return smtp.Config{
		Host:               "smtp.example.com",
		Port:               2525,
		UserName:           "user",
		Password:           "secret",
		DefaultFromAddress: "noreply@example.com",
		DefaultFromName:    "Example",
	}
}

func TestSender_SendMessage(t *testing.T) {
	t.Parallel()

	d := &fakeDialer{}
	s := smtp.New(smtp.Static(testConfig()), smtp.WithDialer(d.factory()))

	err := s.SendMessage(context.Background(), &mailer.Message{
		To:      []string{"a@example.com", "b@example.com"},
		CC:      []string{"c@example.com"},
		BCC:     []string{"d@example.com"},
		ReplyTo: []string{"reply@example.com"},
		Subject: "Hello",
		Body:    "<p>Hi</p>",
		IsHTML:  true,
		Headers: []mailer.Header{
			{Name: "X-Campaign", Value: "spring"},
			{Name: "Subject", Value: "ignored"},
		},
	})
	require.NoError(t, err)
	require.Len(t, d.messages, 1)

	require.Equal(t, "smtp.example.com", d.settings.Host)
	require.Equal(t, 2525, d.settings.Port)
	require.Equal(t, "user", d.settings.UserName)
	require.Equal(t, "secret", d.settings.Password)

	m := d.messages[0]
	require.Equal(t, []string{`"Example" <noreply@example.com>`}, m.GetHeader("From"))
	require.Equal(t, []string{"a@example.com", "b@example.com"}, m.GetHeader("To"))
	require.Equal(t, []string{"c@example.com"}, m.GetHeader("Cc"))
	require.Equal(t, []string{"d@example.com"}, m.GetHeader("Bcc"))
	require.Equal(t, []string{"reply@example.com"}, m.GetHeader("Reply-To"))
	require.Equal(t, []string{"Hello"}, m.GetHeader("Subject"))
	require.Equal(t, []string{"spring"}, m.GetHeader("X-Campaign"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "Content-Type: text/html")
}

func TestSender_DuplicateHeadersFirstWins(t *testing.T) {
	t.Parallel()

	d := &fakeDialer{}
	s := smtp.New(smtp.Static(testConfig()), smtp.WithDialer(d.factory()))

	require.NoError(t, s.SendMessage(context.Background(), &mailer.Message{
		To:      []string{"a@example.com"},
		Subject: "Hello",
		Body:    "hi",
		Headers: []mailer.Header{
			{Name: "X-Campaign", Value: "spring"},
			{Name: "x-campaign", Value: "summer"},
			{Name: " ", Value: "blank"},
		},
	}))

	m := d.messages[0]
	require.Equal(t, []string{"spring"}, m.GetHeader("X-Campaign"))
	require.Empty(t, m.GetHeader("x-campaign"))
}

func TestSender_CcOnlyRecipients(t *testing.T) {
	t.Parallel()

	d := &fakeDialer{}
	s := smtp.New(smtp.Static(testConfig()), smtp.WithDialer(d.factory()))

	require.NoError(t, s.SendMessage(context.Background(), &mailer.Message{
		CC:      []string{"c@example.com"},
		Subject: "Hello",
		Body:    "hi",
	}))

	m := d.messages[0]
	require.Empty(t, m.GetHeader("To"))
	require.Equal(t, []string{"c@example.com"}, m.GetHeader("Cc"))
}

func TestSender_ExplicitFrom(t *testing.T) {
	t.Parallel()

	d := &fakeDialer{}
	s := smtp.New(smtp.Static(testConfig()), smtp.WithDialer(d.factory()))

	require.NoError(t, s.Send(context.Background(), "a@example.com", "s", "plain", false, &mailer.Args{From: "team@example.com"}))
	require.Equal(t, []string{"team@example.com"}, d.messages[0].GetHeader("From"))

	var buf bytes.Buffer
	_, err := d.messages[0].WriteTo(&buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "Content-Type: text/plain")
}

func TestSender_Attachments(t *testing.T) {
	t.Parallel()

	att := mailer.NewAttachment("report.txt", "text/plain", []byte("report body"))
	// Drained by another transport before reaching SMTP.
	_, err := io.ReadAll(att.Content)
	require.NoError(t, err)

	inline := mailer.NewAttachment("logo.png", "image/png", []byte("png"))
	inline.ContentID = "logo"

	d := &fakeDialer{}
	s := smtp.New(smtp.Static(testConfig()), smtp.WithDialer(d.factory()))

	require.NoError(t, s.SendMessage(context.Background(), &mailer.Message{
		To:          []string{"a@example.com"},
		Subject:     "Report",
		Body:        "see attached",
		Attachments: []mailer.Attachment{att, inline},
	}))

	var buf bytes.Buffer
	_, err = d.messages[0].WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	require.Contains(t, raw, base64.StdEncoding.EncodeToString([]byte("report body")))
	require.Contains(t, raw, `filename="report.txt"`)
	require.Contains(t, raw, "Content-ID: <logo>")
}

func TestSender_Errors(t *testing.T) {
	t.Parallel()

	t.Run("no recipient", func(t *testing.T) {
		t.Parallel()
		s := smtp.New(smtp.Static(testConfig()))
		require.ErrorIs(t, s.SendMessage(context.Background(), &mailer.Message{}), mailer.ErrNoRecipient)
	})

	t.Run("no host", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.Host = ""
		s := smtp.New(smtp.Static(cfg))
		require.ErrorIs(t, s.Send(context.Background(), "a@example.com", "s", "b", false, nil), smtp.ErrNotConfigured)
	})

	t.Run("no sender", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.DefaultFromAddress = ""
		d := &fakeDialer{}
		s := smtp.New(smtp.Static(cfg), smtp.WithDialer(d.factory()))
		require.ErrorIs(t, s.Send(context.Background(), "a@example.com", "s", "b", false, nil), smtp.ErrNoSender)
		require.Empty(t, d.messages)
	})

	t.Run("dial failure", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("connection refused")
		d := &fakeDialer{err: boom}
		s := smtp.New(smtp.Static(testConfig()), smtp.WithDialer(d.factory()))

		err := s.Send(context.Background(), "a@example.com", "s", "b", false, nil)
		require.ErrorIs(t, err, smtp.ErrSendFailed)
		require.ErrorIs(t, err, boom)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		d := &fakeDialer{}
		s := smtp.New(smtp.Static(testConfig()), smtp.WithDialer(d.factory()))
		require.ErrorIs(t, s.Send(ctx, "a@example.com", "s", "b", false, nil), context.Canceled)
		require.Empty(t, d.messages)
	})
}

type failingConfig struct {
	smtp.Configuration
}

func (failingConfig) Host(context.Context) (string, error) {
	return "", errors.New("settings store unavailable")
}

func TestSender_SettingsError(t *testing.T) {
	t.Parallel()

	s := smtp.New(failingConfig{Configuration: smtp.Static(testConfig())})
	err := s.Send(context.Background(), "a@example.com", "s", "b", false, nil)
	require.ErrorIs(t, err, smtp.ErrSettings)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.EnableSSL = true

	got, err := smtp.Load(context.Background(), smtp.Static(cfg))
	require.NoError(t, err)
	require.Equal(t, smtp.Settings{
		Host:        "smtp.example.com",
		Port:        2525,
		UserName:    "user",
		Password:    "secret",
		FromAddress: "noreply@example.com",
		FromName:    "Example",
		EnableSSL:   true,
	}, got)
}
