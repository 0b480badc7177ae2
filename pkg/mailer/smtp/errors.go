package smtp

import "errors"

var (
	ErrNotConfigured = errors.New("smtp: host is not configured")
	ErrNoSender      = errors.New("smtp: no sender address")
	ErrSettings      = errors.New("smtp: failed to load settings")
	ErrAttachment    = errors.New("smtp: failed to read attachment")
	ErrSendFailed    = errors.New("smtp: failed to send email")
)
