package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &out))
	return out
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewWriter_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWriter(&buf, Config{Level: "info", Format: FormatJSON})

	log.Debug("hidden")
	assert.Zero(t, buf.Len())

	log.Info("email sent", slog.String("to", "a@example.com"))
	line := decodeLine(t, &buf)
	assert.Equal(t, "email sent", line["msg"])
	assert.Equal(t, "a@example.com", line["to"])
}

func TestNewWriter_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWriter(&buf, Config{Level: "debug", Format: FormatText})

	log.Debug("dialing", slog.String("host", "smtp.example.com"))
	assert.True(t, strings.Contains(buf.String(), "msg=dialing"))
	assert.True(t, strings.Contains(buf.String(), "host=smtp.example.com"))
}

func TestTenantExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWriter(&buf, Config{Format: FormatJSON}, Tenant())

	log.InfoContext(mailer.WithTenant(context.Background(), "acme"), "queued")
	assert.Equal(t, "acme", decodeLine(t, &buf)["tenant_id"])

	buf.Reset()
	log.InfoContext(context.Background(), "queued")
	_, ok := decodeLine(t, &buf)["tenant_id"]
	assert.False(t, ok)
}

func TestWithExtractors_KeepsExtractorsAcrossWith(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := WithExtractors(slog.NewJSONHandler(&buf, nil), nil, Tenant())
	log := slog.New(h).With("component", "queue").WithGroup("job")

	log.InfoContext(mailer.WithTenant(context.Background(), "acme"), "done", slog.Int("id", 1))

	line := decodeLine(t, &buf)
	assert.Equal(t, "queue", line["component"])
	job, ok := line["job"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "acme", job["tenant_id"])
	assert.EqualValues(t, 1, job["id"])
}

func TestWithExtractors_NoneReturnsNext(t *testing.T) {
	t.Parallel()

	next := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	assert.Same(t, next, WithExtractors(next, nil))
}

type errHandler struct {
	slog.Handler
	err error
}

func (h errHandler) Handle(context.Context, slog.Record) error { return h.err }

func TestFanout(t *testing.T) {
	t.Parallel()

	var info, errs bytes.Buffer
	h := fanout{
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	}
	log := slog.New(h)

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))

	log.Info("one")
	assert.NotZero(t, info.Len())
	assert.Zero(t, errs.Len())

	log.Error("two")
	assert.NotZero(t, errs.Len())
}

func TestFanout_PropagatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	h := fanout{errHandler{Handler: slog.NewJSONHandler(&bytes.Buffer{}, nil), err: boom}}

	err := h.Handle(context.Background(), slog.NewRecord(time.Time{}, slog.LevelInfo, "x", 0))
	assert.ErrorIs(t, err, boom)
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	log := Discard()
	require.NotNil(t, log)
	log.Error("dropped")
}
