package mailer

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Message is a transport-neutral email message.
type Message struct {
	Properties  Properties   // Delivery hints for specific transports
	From        string       // Sender address; empty means the transport default
	Subject     string       // Email subject
	Body        string       // HTML or plain text content, see IsHTML
	To          []string     // Recipients
	CC          []string     // Carbon copy recipients
	BCC         []string     // Blind carbon copy recipients
	ReplyTo     []string     // Reply-to addresses; transports use the first one
	Headers     []Header     // Custom headers in insertion order
	Attachments []Attachment // File attachments
	IsHTML      bool         // Body is HTML when true, plain text otherwise
}

// Header is a single custom message header.
type Header struct {
	Name  string
	Value string
}

// SetHeader appends a header. Header names are case-insensitive; an existing
// header with the same name is replaced in place.
func (m *Message) SetHeader(name, value string) {
	for i, h := range m.Headers {
		if strings.EqualFold(h.Name, name) {
			m.Headers[i].Value = value
			return
		}
	}
	m.Headers = append(m.Headers, Header{Name: name, Value: value})
}

// Header returns the value of the first header matching name case-insensitively.
func (m *Message) Header(name string) (string, bool) {
	for _, h := range m.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// HasRecipients reports whether any of To, CC or BCC holds a non-blank address.
func (m *Message) HasRecipients() bool {
	for _, list := range [][]string{m.To, m.CC, m.BCC} {
		for _, addr := range list {
			if strings.TrimSpace(addr) != "" {
				return true
			}
		}
	}
	return false
}

// FirstReplyTo returns the first reply-to address or an empty string.
func (m *Message) FirstReplyTo() string {
	for _, addr := range m.ReplyTo {
		if addr != "" {
			return addr
		}
	}
	return ""
}

// Attachment represents an email attachment.
// Content must be seekable: transports rewind it before reading, so the same
// attachment can be read more than once.
type Attachment struct {
	Content     io.ReadSeeker // Raw file content
	Filename    string        // Display name for the attachment
	ContentType string        // MIME type (e.g., "application/pdf")
	ContentID   string        // Optional Content-ID for inline attachments
}

// NewAttachment wraps in-memory data as an Attachment.
func NewAttachment(filename, contentType string, data []byte) Attachment {
	return Attachment{
		Content:     bytes.NewReader(data),
		Filename:    filename,
		ContentType: contentType,
	}
}

// Bytes rewinds the content to the start and reads it fully.
func (a Attachment) Bytes() ([]byte, error) {
	if a.Content == nil {
		return nil, nil
	}
	if _, err := a.Content.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("mailer: rewind attachment %q: %w", a.Filename, err)
	}
	data, err := io.ReadAll(a.Content)
	if err != nil {
		return nil, fmt.Errorf("mailer: read attachment %q: %w", a.Filename, err)
	}
	return data, nil
}
