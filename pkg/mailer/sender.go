package mailer

import "context"

// Sender is the generic "send email" abstraction host code depends on.
// Implementations decide which transport delivers the message.
type Sender interface {
	// Send composes a message for a single recipient list and delivers it.
	// args may be nil.
	Send(ctx context.Context, to, subject, body string, isHTML bool, args *Args) error
}

// MessageSender delivers an already composed Message.
type MessageSender interface {
	SendMessage(ctx context.Context, msg *Message) error
}

// Args carries optional sending arguments beyond the basic fields.
type Args struct {
	Properties  Properties   // Transport-specific delivery hints
	From        string       // Overrides the transport default sender
	CC          []string     // Carbon copy recipients
	Attachments []Attachment // File attachments
}
