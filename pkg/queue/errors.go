package queue

import "errors"

var (
	// ErrPoolRequired is returned when a manager or enqueuer is created without a database pool.
	ErrPoolRequired = errors.New("queue: pool is required")

	// ErrSenderRequired is returned when a manager is created without a sender.
	ErrSenderRequired = errors.New("queue: sender is required")

	// ErrInvalidPayload is returned when an email cannot be encoded into or decoded from a job.
	ErrInvalidPayload = errors.New("queue: invalid payload")

	// ErrEnqueueFailed is returned when River rejects the insert.
	ErrEnqueueFailed = errors.New("queue: failed to enqueue email")

	// ErrMigrate is returned when River's schema migration fails.
	ErrMigrate = errors.New("queue: failed to migrate river schema")

	ErrAlreadyStarted = errors.New("queue: already started")
	ErrNotStarted     = errors.New("queue: not started")
)
