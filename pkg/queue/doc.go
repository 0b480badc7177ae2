// Package queue defers email delivery to background workers using River
// (Postgres-native queue).
//
// A queued email is copied into a [SendEmailArgs] job payload: attachments are
// read in full and delivery properties are stored as JSON. Workers rebuild the
// sending arguments, restore the tenant on the context and hand the message to
// a [mailer.Sender], usually the Postmark sender with its SMTP backup.
//
// # Enqueueing
//
// [Enqueuer] is an insert-only client that implements [mailer.Enqueuer]:
//
//	enq, err := queue.NewEnqueuer(pool, logger)
//	if err != nil {
//	    return err
//	}
//	m := mailer.New(sender, mailer.WithEnqueuer(enq))
//	err = m.Queue(ctx, "user@example.com", "Welcome", body, true, nil)
//
// Per-insert options control scheduling and retries:
//
//	err := enq.Enqueue(ctx, email,
//	    queue.ScheduledIn(time.Hour),
//	    queue.MaxAttempts(5),
//	    queue.Tags("welcome"),
//	)
//
// [Enqueuer.EnqueueTx] inserts inside a caller transaction, so the job only
// becomes visible when the transaction commits.
//
// # Processing
//
// [Manager] runs the workers and embeds an [Enqueuer]:
//
//	if err := queue.Migrate(ctx, pool, logger); err != nil {
//	    return err
//	}
//	manager, err := queue.NewManager(pool, sender,
//	    queue.WithLogger(logger),
//	    queue.WithWorkers(20),
//	)
//	if err := manager.Start(ctx); err != nil {
//	    return err
//	}
//	defer manager.Stop(context.Background())
//
// # Retries
//
// Errors reported by [IsPermanent] cancel the job: a missing recipient, a
// missing or malformed Postmark API key, or a payload that cannot be decoded.
// Everything else is returned to River and retried with its backoff policy.
// [WithPermanentError] replaces the classification.
//
// # Health Checks
//
// [Healthcheck] fails when the manager is nil, not started, or its database
// does not answer a ping.
package queue
