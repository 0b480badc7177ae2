package queue

import (
	"context"
	"errors"
	"fmt"
)

// ErrHealthcheckFailed wraps every readiness failure of the email queue.
var ErrHealthcheckFailed = errors.New("queue: healthcheck failed")

var (
	errManagerNil = errors.New("no queue manager configured")
	errNotRunning = errors.New("email workers are not running")
)

// Healthcheck reports the email queue as ready once its workers run and
// the Postgres pool backing River accepts a ping.
func Healthcheck(m *Manager) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := m.ready(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

func (m *Manager) ready(ctx context.Context) error {
	if m == nil {
		return errManagerNil
	}
	if !m.running() {
		return errNotRunning
	}
	if err := m.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

func (m *Manager) running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}
