package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
)

// inserter is the part of *river.Client the Enqueuer uses.
type inserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
	InsertTx(ctx context.Context, tx pgx.Tx, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// Enqueuer inserts send jobs without processing them.
// It implements mailer.Enqueuer.
type Enqueuer struct {
	client inserter
	logger *slog.Logger
}

var _ mailer.Enqueuer = (*Enqueuer)(nil)

// NewEnqueuer creates an insert-only River client.
func NewEnqueuer(pool *pgxpool.Pool, logger *slog.Logger) (*Enqueuer, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{Logger: logger})
	if err != nil {
		return nil, errors.Join(ErrEnqueueFailed, err)
	}

	return &Enqueuer{client: client, logger: logger}, nil
}

// EnqueueEmail implements mailer.Enqueuer with default insert options.
func (e *Enqueuer) EnqueueEmail(ctx context.Context, email mailer.QueuedEmail) error {
	return e.Enqueue(ctx, email)
}

// Enqueue inserts a send job.
func (e *Enqueuer) Enqueue(ctx context.Context, email mailer.QueuedEmail, opts ...EnqueueOption) error {
	args, insertOpts, err := buildJob(email, opts...)
	if err != nil {
		return err
	}

	res, err := e.client.Insert(ctx, args, insertOpts)
	if err != nil {
		return errors.Join(ErrEnqueueFailed, err)
	}
	e.logInserted(ctx, res)
	return nil
}

// EnqueueTx inserts a send job inside tx. The job becomes visible on commit.
func (e *Enqueuer) EnqueueTx(ctx context.Context, tx pgx.Tx, email mailer.QueuedEmail, opts ...EnqueueOption) error {
	args, insertOpts, err := buildJob(email, opts...)
	if err != nil {
		return err
	}

	res, err := e.client.InsertTx(ctx, tx, args, insertOpts)
	if err != nil {
		return errors.Join(ErrEnqueueFailed, err)
	}
	e.logInserted(ctx, res)
	return nil
}

func (e *Enqueuer) logInserted(ctx context.Context, res *rivertype.JobInsertResult) {
	if res == nil || res.Job == nil {
		return
	}
	e.logger.DebugContext(ctx, "email queued",
		slog.Int64("job_id", res.Job.ID),
		slog.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
}

func buildJob(email mailer.QueuedEmail, opts ...EnqueueOption) (SendEmailArgs, *river.InsertOpts, error) {
	if !mailer.Addressed(email.To, email.Args) {
		return SendEmailArgs{}, nil, mailer.ErrNoRecipient
	}

	args, err := NewSendEmailArgs(email)
	if err != nil {
		return SendEmailArgs{}, nil, err
	}

	cfg := &enqueueConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	insertOpts := &river.InsertOpts{Queue: QueueEmail}
	if cfg.scheduledAt != nil {
		insertOpts.ScheduledAt = *cfg.scheduledAt
	}
	if cfg.maxAttempts > 0 {
		insertOpts.MaxAttempts = cfg.maxAttempts
	}
	if cfg.priority > 0 {
		insertOpts.Priority = cfg.priority
	}
	if len(cfg.tags) > 0 {
		insertOpts.Tags = cfg.tags
	}

	return args, insertOpts, nil
}
