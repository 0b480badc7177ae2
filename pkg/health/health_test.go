package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func TestRun_NoChecks(t *testing.T) {
	t.Parallel()

	report := Run(context.Background(), nil)
	assert.True(t, report.Healthy())
	assert.NoError(t, report.Err())
}

func TestRun_MixedResults(t *testing.T) {
	t.Parallel()

	report := Run(context.Background(), Checks{
		"postgres": ok,
		"redis":    func(context.Context) error { return errors.New("connection refused") },
		"queue":    func(context.Context) error { return errors.New("not started") },
	})

	assert.False(t, report.Healthy())
	require.Len(t, report.Checks, 3)
	assert.Equal(t, StatusHealthy, report.Checks["postgres"].Status)
	assert.Equal(t, StatusUnhealthy, report.Checks["redis"].Status)
	assert.Equal(t, "connection refused", report.Checks["redis"].Error)

	err := report.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, err.Error(), "queue: not started\nredis: connection refused")
}

func TestRun_Timeout(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	defer close(block)

	report := Run(context.Background(), Checks{
		"slow": func(context.Context) error {
			<-block
			return nil
		},
	}, WithTimeout(20*time.Millisecond))

	assert.False(t, report.Healthy())
	assert.Equal(t, ErrCheckTimeout.Error(), report.Checks["slow"].Error)
}

func TestRun_NilCheck(t *testing.T) {
	t.Parallel()

	report := Run(context.Background(), Checks{"noop": nil})
	assert.True(t, report.Healthy())
}

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	t.Run("healthy plain text", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		ReadinessHandler(Checks{"db": ok})(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("unhealthy json", func(t *testing.T) {
		t.Parallel()

		checks := Checks{"db": func(context.Context) error { return errors.New("down") }}
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		ReadinessHandler(checks)(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var report Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Equal(t, StatusUnhealthy, report.Status)
		assert.Equal(t, "down", report.Checks["db"].Error)
	})

	t.Run("unhealthy plain text lists failures", func(t *testing.T) {
		t.Parallel()

		checks := Checks{
			"redis": func(context.Context) error { return errors.New("connection refused") },
			"db":    func(context.Context) error { return errors.New("down") },
			"queue": ok,
		}
		rec := httptest.NewRecorder()
		ReadinessHandler(checks)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "health: check failed\ndb: down\nredis: connection refused", rec.Body.String())
	})

	t.Run("format query", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		ReadinessHandler(nil)(rec, httptest.NewRequest(http.MethodGet, "/readyz?format=json", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})
}
