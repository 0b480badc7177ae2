package postmark

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	pm "github.com/mrz1836/postmark"
)

// DefaultBaseURL is the public Postmark API endpoint.
const DefaultBaseURL = "https://api.postmarkapp.com"

// maxErrorMessage bounds the provider message kept on an APIError.
const maxErrorMessage = 4 << 10

// Client delivers messages through the Postmark API.
type Client interface {
	SendMessage(ctx context.Context, msg *Message) (*Response, error)
	SendTemplatedMessage(ctx context.Context, msg *TemplatedMessage) (*Response, error)
}

// SDKClient implements Client on top of github.com/mrz1836/postmark.
type SDKClient struct {
	api *pm.Client
}

var _ Client = (*SDKClient)(nil)

// ClientOption configures the underlying SDK client.
type ClientOption func(*pm.Client)

// WithBaseURL overrides the API endpoint. Empty values are ignored.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *pm.Client) {
		if baseURL != "" {
			c.BaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTransport sets the underlying *http.Client. Nil values are ignored.
func WithTransport(hc *http.Client) ClientOption {
	return func(c *pm.Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// NewClient creates a Postmark client authenticated with a server token.
// Account-level endpoints are not used, so no account token is set.
func NewClient(token string, opts ...ClientOption) *SDKClient {
	api := pm.NewClient(token, "")
	api.BaseURL = DefaultBaseURL
	api.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(api)
	}
	return &SDKClient{api: api}
}

// SendMessage sends a plain message.
func (c *SDKClient) SendMessage(ctx context.Context, msg *Message) (*Response, error) {
	if msg == nil {
		return nil, errors.Join(ErrProvider, errors.New("nil message"))
	}
	res, err := c.api.SendEmail(ctx, toEmail(msg))
	return toResponse(res, err)
}

// SendTemplatedMessage sends a message rendered from a server-side template.
func (c *SDKClient) SendTemplatedMessage(ctx context.Context, msg *TemplatedMessage) (*Response, error) {
	if msg == nil {
		return nil, errors.Join(ErrProvider, errors.New("nil templated message"))
	}
	if (msg.TemplateID != 0) == (msg.TemplateAlias != "") {
		return nil, ErrInvalidTemplate
	}
	res, err := c.api.SendTemplatedEmail(ctx, toTemplatedEmail(msg))
	return toResponse(res, err)
}

// toResponse prefers the error code Postmark put in the body over the
// transport error, so rejected requests surface as *APIError.
func toResponse(res pm.EmailResponse, err error) (*Response, error) {
	if res.ErrorCode != 0 {
		return nil, &APIError{
			ErrorCode: int(res.ErrorCode),
			Message:   truncate(res.Message, maxErrorMessage),
		}
	}
	if err != nil {
		return nil, errors.Join(ErrProvider, err)
	}
	return &Response{
		SubmittedAt: res.SubmittedAt,
		To:          res.To,
		MessageID:   res.MessageID,
		Message:     res.Message,
	}, nil
}

func toEmail(msg *Message) pm.Email {
	return pm.Email{
		From:          msg.From,
		To:            msg.To,
		Cc:            msg.Cc,
		Bcc:           msg.Bcc,
		Subject:       msg.Subject,
		Tag:           msg.Tag,
		HTMLBody:      deref(msg.HTMLBody),
		TextBody:      deref(msg.TextBody),
		ReplyTo:       msg.ReplyTo,
		Headers:       toSDKHeaders(msg.Headers),
		TrackOpens:    msg.TrackOpens,
		TrackLinks:    string(msg.TrackLinks),
		Attachments:   toSDKAttachments(msg.Attachments),
		MessageStream: msg.MessageStream,
	}
}

func toTemplatedEmail(msg *TemplatedMessage) pm.TemplatedEmail {
	return pm.TemplatedEmail{
		TemplateID:    msg.TemplateID,
		TemplateAlias: msg.TemplateAlias,
		TemplateModel: msg.TemplateModel,
		From:          msg.From,
		To:            msg.To,
		Cc:            msg.Cc,
		Bcc:           msg.Bcc,
		Tag:           msg.Tag,
		ReplyTo:       msg.ReplyTo,
		Headers:       toSDKHeaders(msg.Headers),
		TrackOpens:    msg.TrackOpens,
		TrackLinks:    string(msg.TrackLinks),
		Attachments:   toSDKAttachments(msg.Attachments),
		MessageStream: msg.MessageStream,
	}
}

func toSDKHeaders(headers []Header) []pm.Header {
	if len(headers) == 0 {
		return nil
	}
	out := make([]pm.Header, 0, len(headers))
	for _, h := range headers {
		out = append(out, pm.Header{Name: h.Name, Value: h.Value})
	}
	return out
}

func toSDKAttachments(attachments []Attachment) []pm.Attachment {
	if len(attachments) == 0 {
		return nil
	}
	out := make([]pm.Attachment, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, pm.Attachment{
			Name:        a.Name,
			Content:     a.Content,
			ContentType: a.ContentType,
			ContentID:   a.ContentID,
		})
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
