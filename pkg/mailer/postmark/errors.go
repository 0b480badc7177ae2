package postmark

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates the API key is missing or not UUID-shaped.
	ErrConfiguration = errors.New("postmark: API key is not set or not in the correct format")

	// ErrProvider indicates the Postmark API rejected the request or could not be reached.
	ErrProvider = errors.New("postmark: provider request failed")

	// ErrInvalidTemplate indicates a template reference with neither or both of id and alias.
	ErrInvalidTemplate = errors.New("postmark: template reference must set exactly one of id or alias")

	// ErrNoBackup indicates the SMTP backup path was selected but no backup sender is configured.
	ErrNoBackup = errors.New("postmark: backup sender is not configured")

	// ErrNoSender indicates no sender address was given and none could be resolved.
	ErrNoSender = errors.New("postmark: sender address could not be resolved")
)

// APIError is returned when Postmark rejects a request with a non-zero
// error code. It matches ErrProvider with errors.Is.
type APIError struct {
	Message   string
	ErrorCode int
}

// Error implements error.
func (e *APIError) Error() string {
	return fmt.Sprintf("postmark: api error (code %d): %s", e.ErrorCode, e.Message)
}

// Unwrap allows errors.Is(err, ErrProvider).
func (e *APIError) Unwrap() error {
	return ErrProvider
}
