// Package postmark delivers email through the Postmark HTTP API and decides,
// per message, between a templated send, a plain send and an SMTP backup.
//
// # Routing
//
// Config.UsePostmark is a tri-state switch:
//
//   - false: every message goes to the backup sender. Hints are not read
//     and no Postmark client is ever built.
//   - true: every message goes to Postmark. A missing or malformed API key
//     fails with ErrConfiguration.
//   - nil: Postmark is used when an API key resolves and the backup when
//     none is configured. A malformed POSTMARK_API_KEY still fails with
//     ErrConfiguration.
//
// When Postmark is used, message properties select the API call:
//
//	"PostmarkTemplateId" (integer, non-zero) → /email/withTemplate by id
//	"PostmarkAlias"      (string, non-empty) → /email/withTemplate by alias
//	otherwise                                → /email
//
// "TemplateModel" supplies template variables and "PostmarkTag" sets the tag.
// Hints of the wrong type are ignored. The provider-or-backup choice is made
// before any network call; a Postmark failure is returned as is and never
// retried over SMTP.
//
// # Credentials
//
// The server token comes from Config.APIKey, or from the SMTP user name
// when the key is empty, and must parse as a UUID. The user name is read on
// every send, so a tenant-aware SMTP configuration yields the tenant's own
// token. One client is built per distinct token and reused afterwards.
//
// # Usage
//
//	smtpCfg := smtp.Config{Host: "smtp.example.com", Port: 587}
//	backup := smtp.New(smtpCfg)
//
//	sender := postmark.New(postmarkCfg, smtpCfg, backup,
//		postmark.WithLogger(log),
//	)
//
//	err := sender.Send(ctx, "user@example.com", "Welcome", "", true, &mailer.Args{
//		Properties: mailer.Properties{
//			postmark.PropertyTemplateAlias: "welcome",
//			postmark.PropertyTemplateModel: map[string]any{"name": "Alice"},
//		},
//	})
package postmark
