// Package smtp sends mailer messages over SMTP using gomail.
//
// Settings come from a Configuration, resolved on every send so that a
// tenant-aware implementation can serve different servers per tenant.
// Static wraps fixed values loaded from the environment:
//
//	cfg := smtp.Config{Host: "smtp.example.com", Port: 587, DefaultFromAddress: "noreply@example.com"}
//	sender := smtp.New(smtp.Static(cfg), smtp.WithLogger(log))
//
//	err := sender.Send(ctx, "user@example.com", "Hello", "<p>Hi</p>", true, nil)
//
// Attachments are rewound before they are read. Attachments with a
// ContentID are embedded inline and can be referenced as cid:<id> from HTML.
package smtp
