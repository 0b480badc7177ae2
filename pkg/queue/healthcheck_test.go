package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthcheck_NilManager(t *testing.T) {
	t.Parallel()

	err := Healthcheck(nil)(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHealthcheckFailed)
	assert.ErrorIs(t, err, errManagerNil)
}

func TestHealthcheck_NotStarted(t *testing.T) {
	t.Parallel()

	err := Healthcheck(&Manager{})(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHealthcheckFailed)
	assert.ErrorIs(t, err, errNotRunning)
}

func TestNewManager_RequiresPoolAndSender(t *testing.T) {
	t.Parallel()

	_, err := NewManager(nil, &MockSender{})
	assert.ErrorIs(t, err, ErrPoolRequired)

	_, err = NewEnqueuer(nil, nil)
	assert.ErrorIs(t, err, ErrPoolRequired)

	assert.ErrorIs(t, Migrate(context.Background(), nil, nil), ErrPoolRequired)
}

func TestManager_StopBeforeStart(t *testing.T) {
	t.Parallel()

	m := &Manager{}
	assert.ErrorIs(t, m.Stop(context.Background()), ErrNotStarted)
}
