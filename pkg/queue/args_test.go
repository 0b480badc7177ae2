package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
	"github.com/dmitrymomot/mailgate/pkg/mailer/postmark"
)

func TestSendEmailArgs_Kind(t *testing.T) {
	t.Parallel()

	args := SendEmailArgs{}
	assert.Equal(t, "mailgate:send_email", args.Kind())
	assert.Equal(t, QueueEmail, args.InsertOpts().Queue)
}

func TestSendEmailArgs_RoundTrip(t *testing.T) {
	t.Parallel()

	email := mailer.QueuedEmail{
		To:       "a@example.com, b@example.com",
		Subject:  "Welcome",
		Body:     "<b>hi</b>",
		IsHTML:   true,
		TenantID: "acme",
		Args: &mailer.Args{
			From: "Team <team@example.com>",
			CC:   []string{"c@example.com"},
			Properties: mailer.Properties{
				postmark.PropertyTemplateID:    int64(12345),
				postmark.PropertyTemplateModel: map[string]any{"name": "Ann"},
			},
			Attachments: []mailer.Attachment{
				mailer.NewAttachment("a.txt", "text/plain", []byte("hello")),
			},
		},
	}

	args, err := NewSendEmailArgs(email)
	require.NoError(t, err)

	raw, err := json.Marshal(args)
	require.NoError(t, err)

	var decoded SendEmailArgs
	require.NoError(t, json.Unmarshal(raw, &decoded))

	out, err := decoded.MailerArgs()
	require.NoError(t, err)

	assert.Equal(t, "Team <team@example.com>", out.From)
	assert.Equal(t, []string{"c@example.com"}, out.CC)
	assert.Equal(t, json.Number("12345"), out.Properties[postmark.PropertyTemplateID])
	assert.Equal(t, map[string]any{"name": "Ann"}, out.Properties[postmark.PropertyTemplateModel])

	require.Len(t, out.Attachments, 1)
	data, err := out.Attachments[0].Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, "a.txt", out.Attachments[0].Filename)
	assert.Equal(t, "text/plain", out.Attachments[0].ContentType)
}

func TestNewSendEmailArgs_NilArgs(t *testing.T) {
	t.Parallel()

	args, err := NewSendEmailArgs(mailer.QueuedEmail{To: "a@example.com", Subject: "s"})
	require.NoError(t, err)
	assert.Nil(t, args.Properties)

	out, err := args.MailerArgs()
	require.NoError(t, err)
	assert.Nil(t, out.Properties)
}

func TestNewSendEmailArgs_UnencodableProperties(t *testing.T) {
	t.Parallel()

	_, err := NewSendEmailArgs(mailer.QueuedEmail{
		To:   "a@example.com",
		Args: &mailer.Args{Properties: mailer.Properties{"fn": func() {}}},
	})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
