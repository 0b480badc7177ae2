package api

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
	"github.com/dmitrymomot/mailgate/pkg/mailer/postmark"
	"github.com/dmitrymomot/mailgate/pkg/mailer/smtp"
	"github.com/dmitrymomot/mailgate/pkg/queue"
	"github.com/dmitrymomot/mailgate/pkg/settings"
)

// errBadRequest marks request bodies that could not be decoded.
var errBadRequest = errors.New("api: malformed request")

// HTTPError is the JSON error body.
type HTTPError struct {
	Err       error  `json:"-"`
	Message   string `json:"error"`
	ErrorCode string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
	Code      int    `json:"-"`
}

func (e *HTTPError) Error() string { return e.Message }

func (e *HTTPError) Unwrap() error { return e.Err }

// classify maps a delivery or settings error to a status and a stable code.
func classify(err error) *HTTPError {
	e := &HTTPError{Err: err, Message: err.Error()}

	var apiErr *postmark.APIError
	switch {
	case errors.Is(err, errBadRequest):
		e.Code, e.ErrorCode = http.StatusBadRequest, "bad_request"
	case errors.Is(err, mailer.ErrNoRecipient):
		e.Code, e.ErrorCode = http.StatusBadRequest, "no_recipient"
	case errors.Is(err, postmark.ErrInvalidTemplate):
		e.Code, e.ErrorCode = http.StatusBadRequest, "invalid_template"
	case errors.Is(err, mailer.ErrTemplateNotFound), errors.Is(err, mailer.ErrLayoutNotFound):
		e.Code, e.ErrorCode = http.StatusBadRequest, "template_not_found"
	case errors.Is(err, settings.ErrUnknownName):
		e.Code, e.ErrorCode = http.StatusNotFound, "unknown_setting"
	case errors.Is(err, settings.ErrInvalidValue):
		e.Code, e.ErrorCode = http.StatusBadRequest, "invalid_setting"
	case errors.Is(err, postmark.ErrConfiguration):
		e.Code, e.ErrorCode = http.StatusUnprocessableEntity, "postmark_configuration"
	case errors.Is(err, postmark.ErrNoBackup), errors.Is(err, smtp.ErrNotConfigured):
		e.Code, e.ErrorCode = http.StatusUnprocessableEntity, "backup_not_configured"
	case errors.Is(err, postmark.ErrNoSender), errors.Is(err, smtp.ErrNoSender):
		e.Code, e.ErrorCode = http.StatusUnprocessableEntity, "no_sender"
	case errors.As(err, &apiErr):
		e.Code, e.ErrorCode = http.StatusBadGateway, "provider_rejected"
	case errors.Is(err, postmark.ErrProvider), errors.Is(err, smtp.ErrSendFailed):
		e.Code, e.ErrorCode = http.StatusBadGateway, "delivery_failed"
	case errors.Is(err, queue.ErrEnqueueFailed), errors.Is(err, mailer.ErrQueueFailed):
		e.Code, e.ErrorCode = http.StatusServiceUnavailable, "queue_unavailable"
	default:
		e.Code, e.ErrorCode = http.StatusInternalServerError, "internal"
		e.Message = http.StatusText(http.StatusInternalServerError)
	}
	return e
}
