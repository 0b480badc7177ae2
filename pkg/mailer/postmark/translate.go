package postmark

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
)

const defaultContentType = "application/octet-stream"

// toMessage converts a generic message into the Postmark wire form.
// It is deterministic: translating the same message twice yields equal payloads.
func (s *Sender) toMessage(ctx context.Context, msg *mailer.Message, h hints) (*Message, error) {
	from, err := s.senderAddress(ctx, msg)
	if err != nil {
		return nil, err
	}

	attachments, err := toAttachments(msg.Attachments)
	if err != nil {
		return nil, err
	}

	out := &Message{
		From:          from,
		To:            joinAddresses(msg.To),
		Cc:            joinAddresses(msg.CC),
		Bcc:           joinAddresses(msg.BCC),
		Subject:       msg.Subject,
		Tag:           h.tag,
		ReplyTo:       msg.FirstReplyTo(),
		Headers:       toHeaders(msg.Headers),
		Attachments:   attachments,
		TrackOpens:    s.cfg.TrackOpens,
		TrackLinks:    s.cfg.TrackLinks,
		MessageStream: s.cfg.MessageStream,
	}

	body := msg.Body
	if msg.IsHTML {
		out.HTMLBody = &body
	} else {
		out.TextBody = &body
	}

	return out, nil
}

// toTemplatedMessage copies the addressing fields of a plain message and
// attaches a template reference and model.
func toTemplatedMessage(msg *Message, ref TemplateRef, model map[string]any) (*TemplatedMessage, error) {
	if !ref.valid() {
		return nil, ErrInvalidTemplate
	}
	if model == nil {
		model = map[string]any{}
	}

	return &TemplatedMessage{
		TemplateID:    ref.id,
		TemplateAlias: ref.alias,
		TemplateModel: model,
		From:          msg.From,
		To:            msg.To,
		Cc:            msg.Cc,
		Bcc:           msg.Bcc,
		Tag:           msg.Tag,
		ReplyTo:       msg.ReplyTo,
		Headers:       msg.Headers,
		Attachments:   msg.Attachments,
		TrackOpens:    msg.TrackOpens,
		TrackLinks:    msg.TrackLinks,
		MessageStream: msg.MessageStream,
	}, nil
}

func (s *Sender) senderAddress(ctx context.Context, msg *mailer.Message) (string, error) {
	if from := strings.TrimSpace(msg.From); from != "" {
		return from, nil
	}
	if s.smtp == nil {
		return "", ErrNoSender
	}
	from, err := s.smtp.DefaultFromAddress(ctx)
	if err != nil {
		return "", errors.Join(ErrNoSender, err)
	}
	if from == "" {
		return "", ErrNoSender
	}
	return from, nil
}

func joinAddresses(addrs []string) string {
	return strings.Join(addrs, ", ")
}

// toHeaders drops blank names and keeps the first occurrence of each
// case-insensitive name.
func toHeaders(headers []mailer.Header) []Header {
	if len(headers) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(headers))
	out := make([]Header, 0, len(headers))
	for _, h := range headers {
		name := strings.TrimSpace(h.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Header{Name: name, Value: h.Value})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func toAttachments(attachments []mailer.Attachment) ([]Attachment, error) {
	if len(attachments) == 0 {
		return nil, nil
	}
	out := make([]Attachment, 0, len(attachments))
	for _, a := range attachments {
		data, err := a.Bytes()
		if err != nil {
			return nil, fmt.Errorf("postmark: %w", err)
		}
		contentType := a.ContentType
		if contentType == "" {
			contentType = defaultContentType
		}
		out = append(out, Attachment{
			Name:        a.Filename,
			Content:     base64.StdEncoding.EncodeToString(data),
			ContentType: contentType,
			ContentID:   a.ContentID,
		})
	}
	return out, nil
}
