package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailgate/internal/config"
	"github.com/dmitrymomot/mailgate/pkg/logger"
	"github.com/dmitrymomot/mailgate/pkg/mailer/postmark"
	"github.com/dmitrymomot/mailgate/pkg/mailer/smtp"
)

func TestNew_WithoutBackends(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		Postmark: postmark.DefaultConfig(),
		SMTP:     smtp.Config{Host: "smtp.example.com", Port: 587},
	}
	cfg.Postmark.UsePostmark = postmark.Bool(false)

	a, err := New(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	assert.Nil(t, a.Pool)
	assert.Nil(t, a.Redis)
	assert.Nil(t, a.Queue)
	assert.Empty(t, a.Checks)
	assert.Empty(t, a.StartHooks())
	assert.Len(t, a.StopHooks(), 1)
	require.NoError(t, a.Migrate(context.Background()))

	host, err := a.Settings.Host(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", host)
}

func TestNew_ServerRoutes(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), config.Config{Postmark: postmark.DefaultConfig()}, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	h := a.Server().Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPut, "/v1/settings/smtp.host", strings.NewReader(`{"value":"smtp.acme.example.com"}`))
	req.Header.Set("X-Tenant-ID", "acme")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// No Postmark key and no SMTP user name: auto mode falls back to SMTP,
	// which has no default sender for this tenant.
	req = httptest.NewRequest(http.MethodPost, "/v1/emails", strings.NewReader(`{"to":"user@example.com","subject":"s","body":"b"}`))
	req.Header.Set("X-Tenant-ID", "acme")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
