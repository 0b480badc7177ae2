package queue

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
)

// sendEmailWorker delivers queued emails through a mailer.Sender.
type sendEmailWorker struct {
	river.WorkerDefaults[SendEmailArgs]
	sender    mailer.Sender
	logger    *slog.Logger
	permanent func(error) bool
}

func (w *sendEmailWorker) Work(ctx context.Context, job *river.Job[SendEmailArgs]) error {
	a := job.Args

	args, err := a.MailerArgs()
	if err != nil {
		return river.JobCancel(err)
	}

	ctx = mailer.WithTenant(ctx, a.TenantID)

	w.logger.DebugContext(ctx, "sending queued email",
		slog.Int64("job_id", job.ID),
		slog.Int("attempt", job.Attempt),
	)

	if err := w.sender.Send(ctx, a.To, a.Subject, a.Body, a.IsHTML, args); err != nil {
		if w.permanent(err) {
			w.logger.ErrorContext(ctx, "queued email cancelled",
				slog.Int64("job_id", job.ID),
				slog.Any("error", err),
			)
			return river.JobCancel(err)
		}
		w.logger.WarnContext(ctx, "queued email failed",
			slog.Int64("job_id", job.ID),
			slog.Int("attempt", job.Attempt),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}
