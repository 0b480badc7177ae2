package queue

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/riverqueue/river"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
)

// QueueEmail is the River queue send jobs run on.
const QueueEmail = "email"

// SendEmailArgs is the River job payload for one deferred email.
type SendEmailArgs struct {
	Properties  json.RawMessage  `json:"properties,omitempty"`
	To          string           `json:"to"`
	Subject     string           `json:"subject"`
	Body        string           `json:"body"`
	From        string           `json:"from,omitempty"`
	TenantID    string           `json:"tenant_id,omitempty"`
	CC          []string         `json:"cc,omitempty"`
	Attachments []AttachmentArgs `json:"attachments,omitempty"`
	IsHTML      bool             `json:"is_html"`
}

// AttachmentArgs is an attachment copied into the job payload.
type AttachmentArgs struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	ContentID   string `json:"content_id,omitempty"`
	Data        []byte `json:"data"`
}

// Kind implements river.JobArgs.
func (SendEmailArgs) Kind() string {
	return "mailgate:send_email"
}

// InsertOpts implements river.JobArgsWithInsertOpts.
func (SendEmailArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{Queue: QueueEmail}
}

// NewSendEmailArgs copies a queued email into a job payload.
// Attachment content is read in full; properties must be JSON-encodable.
func NewSendEmailArgs(email mailer.QueuedEmail) (SendEmailArgs, error) {
	args := SendEmailArgs{
		To:       email.To,
		Subject:  email.Subject,
		Body:     email.Body,
		IsHTML:   email.IsHTML,
		TenantID: email.TenantID,
	}
	if email.Args == nil {
		return args, nil
	}

	args.From = email.Args.From
	args.CC = email.Args.CC

	for _, a := range email.Args.Attachments {
		data, err := a.Bytes()
		if err != nil {
			return SendEmailArgs{}, errors.Join(ErrInvalidPayload, err)
		}
		args.Attachments = append(args.Attachments, AttachmentArgs{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			ContentID:   a.ContentID,
			Data:        data,
		})
	}

	if len(email.Args.Properties) > 0 {
		raw, err := json.Marshal(email.Args.Properties)
		if err != nil {
			return SendEmailArgs{}, errors.Join(ErrInvalidPayload, err)
		}
		args.Properties = raw
	}

	return args, nil
}

// MailerArgs rebuilds the sending arguments. Numbers in properties decode
// as json.Number so integer template ids keep their integer form.
func (a SendEmailArgs) MailerArgs() (*mailer.Args, error) {
	out := &mailer.Args{
		From: a.From,
		CC:   a.CC,
	}

	for _, att := range a.Attachments {
		m := mailer.NewAttachment(att.Filename, att.ContentType, att.Data)
		m.ContentID = att.ContentID
		out.Attachments = append(out.Attachments, m)
	}

	if len(a.Properties) > 0 && !bytes.Equal(a.Properties, []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(a.Properties))
		dec.UseNumber()
		var props map[string]any
		if err := dec.Decode(&props); err != nil {
			return nil, errors.Join(ErrInvalidPayload, err)
		}
		out.Properties = mailer.Properties(props)
	}

	return out, nil
}
