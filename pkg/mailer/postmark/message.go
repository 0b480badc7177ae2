package postmark

import "time"

// Message is the translated form of a plain email. Field names and JSON tags
// follow the Postmark API; SDKClient maps it onto the SDK request.
// Exactly one of HTMLBody and TextBody is set.
type Message struct {
	HTMLBody      *string      `json:"HtmlBody,omitempty"`
	TextBody      *string      `json:"TextBody,omitempty"`
	From          string       `json:"From"`
	To            string       `json:"To"`
	Cc            string       `json:"Cc"`
	Bcc           string       `json:"Bcc"`
	Subject       string       `json:"Subject"`
	Tag           string       `json:"Tag,omitempty"`
	ReplyTo       string       `json:"ReplyTo,omitempty"`
	TrackLinks    LinkTracking `json:"TrackLinks,omitempty"`
	MessageStream string       `json:"MessageStream,omitempty"`
	Headers       []Header     `json:"Headers,omitempty"`
	Attachments   []Attachment `json:"Attachments,omitempty"`
	TrackOpens    bool         `json:"TrackOpens"`
}

// TemplatedMessage is the translated form of a server-side template email.
// Exactly one of TemplateID and TemplateAlias is set.
type TemplatedMessage struct {
	TemplateModel map[string]any `json:"TemplateModel"`
	TemplateAlias string         `json:"TemplateAlias,omitempty"`
	From          string         `json:"From"`
	To            string         `json:"To"`
	Cc            string         `json:"Cc"`
	Bcc           string         `json:"Bcc"`
	Tag           string         `json:"Tag,omitempty"`
	ReplyTo       string         `json:"ReplyTo,omitempty"`
	TrackLinks    LinkTracking   `json:"TrackLinks,omitempty"`
	MessageStream string         `json:"MessageStream,omitempty"`
	Headers       []Header       `json:"Headers,omitempty"`
	Attachments   []Attachment   `json:"Attachments,omitempty"`
	TemplateID    int64          `json:"TemplateId,omitempty"`
	TrackOpens    bool           `json:"TrackOpens"`
}

// Header is a custom email header.
type Header struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// Attachment is a base64-encoded file attachment.
type Attachment struct {
	Name        string `json:"Name"`
	Content     string `json:"Content"`
	ContentType string `json:"ContentType"`
	ContentID   string `json:"ContentID,omitempty"`
}

// Response is the delivery receipt returned by Postmark.
type Response struct {
	SubmittedAt time.Time `json:"SubmittedAt"`
	To          string    `json:"To"`
	MessageID   string    `json:"MessageID"`
	Message     string    `json:"Message"`
	ErrorCode   int       `json:"ErrorCode"`
}

// TemplateRef references a server-side template by id or by alias, never both.
type TemplateRef struct {
	alias string
	id    int64
}

// TemplateByID references a template by its numeric id.
func TemplateByID(id int64) TemplateRef {
	return TemplateRef{id: id}
}

// TemplateByAlias references a template by its alias.
func TemplateByAlias(alias string) TemplateRef {
	return TemplateRef{alias: alias}
}

// ID returns the template id, zero when referenced by alias.
func (r TemplateRef) ID() int64 { return r.id }

// Alias returns the template alias, empty when referenced by id.
func (r TemplateRef) Alias() string { return r.alias }

func (r TemplateRef) valid() bool {
	return (r.id != 0) != (r.alias != "")
}
