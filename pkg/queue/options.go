package queue

import (
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
	"github.com/dmitrymomot/mailgate/pkg/mailer/postmark"
)

const defaultWorkers = 10

type config struct {
	logger    *slog.Logger
	permanent func(error) bool
	workers   int
}

func newConfig() *config {
	return &config{
		workers:   defaultWorkers,
		permanent: IsPermanent,
	}
}

// Option configures a Manager.
type Option func(*config)

// WithLogger sets the logger for job processing.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithWorkers sets the number of concurrent send workers. Default: 10.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithPermanentError overrides which send errors cancel a job instead of retrying it.
func WithPermanentError(fn func(error) bool) Option {
	return func(c *config) {
		if fn != nil {
			c.permanent = fn
		}
	}
}

// IsPermanent reports errors that a retry cannot fix: a missing recipient
// or a missing or malformed Postmark API key.
func IsPermanent(err error) bool {
	return errors.Is(err, mailer.ErrNoRecipient) ||
		errors.Is(err, postmark.ErrConfiguration) ||
		errors.Is(err, ErrInvalidPayload)
}

type enqueueConfig struct {
	scheduledAt *time.Time
	tags        []string
	maxAttempts int
	priority    int
}

// EnqueueOption configures a single insert.
type EnqueueOption func(*enqueueConfig)

// ScheduledAt delays the send until t.
func ScheduledAt(t time.Time) EnqueueOption {
	return func(c *enqueueConfig) {
		c.scheduledAt = &t
	}
}

// ScheduledIn delays the send by d.
func ScheduledIn(d time.Duration) EnqueueOption {
	return func(c *enqueueConfig) {
		t := time.Now().Add(d)
		c.scheduledAt = &t
	}
}

// MaxAttempts caps retries. River's default applies when unset.
func MaxAttempts(n int) EnqueueOption {
	return func(c *enqueueConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// Priority sets the job priority, 1 (highest) to 4.
func Priority(p int) EnqueueOption {
	return func(c *enqueueConfig) {
		c.priority = p
	}
}

// Tags attaches metadata tags to the job.
func Tags(tags ...string) EnqueueOption {
	return func(c *enqueueConfig) {
		c.tags = append(c.tags, tags...)
	}
}
