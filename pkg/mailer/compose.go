package mailer

import "strings"

// BuildMessage composes a Message from the basic sending parameters.
// to may hold several addresses separated by "," or ";".
// Cc recipients in args count as addressing, so to may be empty.
func BuildMessage(to, subject, body string, isHTML bool, args *Args) (*Message, error) {
	msg := &Message{
		To:      SplitAddresses(to),
		Subject: subject,
		Body:    body,
		IsHTML:  isHTML,
	}

	if args != nil {
		msg.From = strings.TrimSpace(args.From)
		msg.CC = compact(args.CC)
		msg.Attachments = args.Attachments
		msg.Properties = args.Properties.Clone()
	}

	if !msg.HasRecipients() {
		return nil, ErrNoRecipient
	}
	return msg, nil
}

// Addressed reports whether to or args.CC names at least one recipient.
func Addressed(to string, args *Args) bool {
	if len(SplitAddresses(to)) > 0 {
		return true
	}
	return args != nil && len(compact(args.CC)) > 0
}

// SplitAddresses splits a list of addresses separated by "," or ";" and drops
// blank entries.
func SplitAddresses(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})
	return compact(fields)
}

func compact(addrs []string) []string {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
