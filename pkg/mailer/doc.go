// Package mailer defines the transport-neutral email model and the sending
// abstraction that host code programs against.
//
// Application code builds or describes a message and hands it to a Sender.
// Which transport actually delivers it (a provider API, a backup SMTP relay,
// a background queue) is decided by the Sender implementation, never by the
// caller.
//
// # Architecture
//
// The package consists of four pieces:
//
//   - Message: the generic message (recipients, subject, body, headers,
//     attachments, reply-to and open-ended Properties)
//   - Sender / MessageSender: interfaces implemented by transports
//   - Mailer: a host-facing client that sends, queues, or renders local
//     markdown templates before sending
//   - Renderer: converts markdown templates with YAML frontmatter to HTML
//
// # Usage
//
//	backup := smtp.New(smtpCfg)
//	engine := postmark.New(postmarkCfg, smtpCfg, backup)
//
//	m := mailer.New(engine)
//
//	err := m.Send(ctx, "user@example.com", "Welcome", "<p>Hello</p>", true, nil)
//
// # Properties
//
// Properties carry optional delivery hints for a specific transport. Values
// are read through Lookup, which reports whether a key was present with the
// expected type, present with another type, or absent:
//
//	id, state := mailer.Lookup[string](msg.Properties, "PostmarkAlias")
//	if state == mailer.LookupPresent {
//		// use id
//	}
//
// # Queueing
//
// Mailer.Queue hands the message to an Enqueuer (see pkg/queue) so that a
// worker process delivers it later. Without an Enqueuer the message is sent
// inline.
//
// # Templates
//
// Local templates are markdown files with optional YAML frontmatter:
//
//	---
//	Subject: Welcome {{.Name}}!
//	---
//
//	# Welcome
//
//	Hello {{.Name}}, welcome to our service!
//
// They are unrelated to provider-side templates, which are referenced by id
// or alias through Properties.
//
// # Errors
//
//   - ErrNoRecipient: no recipient specified
//   - ErrTemplateNotFound / ErrLayoutNotFound: missing template files
//   - ErrRenderFailed / ErrInvalidFrontmatter: template problems
//   - ErrSendFailed: the Sender returned an error
//   - ErrQueueFailed: the Enqueuer returned an error
package mailer
