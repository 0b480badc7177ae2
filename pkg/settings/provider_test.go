package settings_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
	"github.com/dmitrymomot/mailgate/pkg/mailer/smtp"
	"github.com/dmitrymomot/mailgate/pkg/settings"
)

// countingStore wraps a MemoryStore and counts reads.
type countingStore struct {
	*settings.MemoryStore
	err   error
	reads atomic.Int32
	delay time.Duration
}

func (s *countingStore) Get(ctx context.Context, tenantID, name string) (string, bool, error) {
	s.reads.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return "", false, s.err
	}
	return s.MemoryStore.Get(ctx, tenantID, name)
}

func defaults() smtp.Config {
	return smtp.Config{
		Host:               "smtp.default.example.com",
		Port:               587,
		UserName:           "default-user",
		DefaultFromAddress: "noreply@example.com",
		DefaultFromName:    "Example",
	}
}

func TestProvider_Fallbacks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := settings.NewMemoryStore()
	require.NoError(t, store.Set(ctx, settings.HostTenant, settings.SMTPHost, "smtp.host.example.com"))
	require.NoError(t, store.Set(ctx, "acme", settings.SMTPHost, "smtp.acme.example.com"))

	p := settings.NewProvider(store, defaults())

	host, err := p.Host(ctx)
	require.NoError(t, err)
	require.Equal(t, "smtp.host.example.com", host)

	host, err = p.Host(mailer.WithTenant(ctx, "acme"))
	require.NoError(t, err)
	require.Equal(t, "smtp.acme.example.com", host)

	// Tenants without their own row use the host row.
	host, err = p.Host(mailer.WithTenant(ctx, "globex"))
	require.NoError(t, err)
	require.Equal(t, "smtp.host.example.com", host)

	// Nothing stored: static default.
	user, err := p.UserName(mailer.WithTenant(ctx, "acme"))
	require.NoError(t, err)
	require.Equal(t, "default-user", user)

	port, err := p.Port(ctx)
	require.NoError(t, err)
	require.Equal(t, 587, port)

	ssl, err := p.EnableSSL(ctx)
	require.NoError(t, err)
	require.False(t, ssl)
}

func TestProvider_ImplementsSMTPConfiguration(t *testing.T) {
	t.Parallel()

	ctx := mailer.WithTenant(context.Background(), "acme")
	store := settings.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "acme", settings.SMTPPort, "2525"))
	require.NoError(t, store.Set(ctx, "acme", settings.SMTPEnableSSL, "true"))

	got, err := smtp.Load(ctx, settings.NewProvider(store, defaults()))
	require.NoError(t, err)
	require.Equal(t, 2525, got.Port)
	require.True(t, got.EnableSSL)
	require.Equal(t, "noreply@example.com", got.FromAddress)
	require.Equal(t, "Example", got.FromName)
}

func TestProvider_CachesLookups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := &countingStore{MemoryStore: settings.NewMemoryStore()}
	p := settings.NewProvider(store, defaults(), settings.WithTTL(time.Minute))

	for range 3 {
		_, err := p.Host(ctx)
		require.NoError(t, err)
	}
	// Misses are cached too: one read of the host row.
	require.Equal(t, int32(1), store.reads.Load())
}

func TestProvider_SetInvalidatesCache(t *testing.T) {
	t.Parallel()

	ctx := mailer.WithTenant(context.Background(), "acme")
	p := settings.NewProvider(settings.NewMemoryStore(), defaults())

	host, err := p.Host(ctx)
	require.NoError(t, err)
	require.Equal(t, "smtp.default.example.com", host)

	require.NoError(t, p.Set(ctx, "acme", settings.SMTPHost, "smtp.acme.example.com"))
	host, err = p.Host(ctx)
	require.NoError(t, err)
	require.Equal(t, "smtp.acme.example.com", host)

	require.NoError(t, p.Delete(ctx, "acme", settings.SMTPHost))
	host, err = p.Host(ctx)
	require.NoError(t, err)
	require.Equal(t, "smtp.default.example.com", host)
}

func TestProvider_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := settings.NewProvider(settings.NewMemoryStore(), defaults())

	require.ErrorIs(t, p.Set(ctx, "", "smtp.unknown", "x"), settings.ErrUnknownName)
	require.ErrorIs(t, p.Set(ctx, "", settings.SMTPPort, "http"), settings.ErrInvalidValue)
	require.ErrorIs(t, p.Set(ctx, "", settings.SMTPPort, "70000"), settings.ErrInvalidValue)
	require.ErrorIs(t, p.Set(ctx, "", settings.SMTPEnableSSL, "maybe"), settings.ErrInvalidValue)
	require.ErrorIs(t, p.Delete(ctx, "", "smtp.unknown"), settings.ErrUnknownName)

	_, err := p.Get(ctx, "smtp.unknown")
	require.ErrorIs(t, err, settings.ErrUnknownName)
}

func TestProvider_InvalidStoredPort(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := settings.NewMemoryStore()
	require.NoError(t, store.Set(ctx, settings.HostTenant, settings.SMTPPort, "abc"))

	_, err := settings.NewProvider(store, defaults()).Port(ctx)
	require.ErrorIs(t, err, settings.ErrInvalidValue)
}

func TestProvider_StoreError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	store := &countingStore{MemoryStore: settings.NewMemoryStore(), err: boom}

	_, err := settings.NewProvider(store, defaults()).UserName(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestProvider_ConcurrentLoadsCollapse(t *testing.T) {
	t.Parallel()

	store := &countingStore{MemoryStore: settings.NewMemoryStore(), delay: 50 * time.Millisecond}
	p := settings.NewProvider(store, defaults())

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			host, err := p.Host(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "smtp.default.example.com", host)
		}()
	}
	wg.Wait()

	require.Less(t, store.reads.Load(), int32(10))
}

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := settings.NewMemoryCache()

	_, err := c.Get(ctx, "k")
	require.ErrorIs(t, err, settings.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", settings.Entry{Value: "v", Found: true}, time.Minute))
	e, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, settings.Entry{Value: "v", Found: true}, e)

	require.NoError(t, c.Set(ctx, "short", settings.Entry{}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	_, err = c.Get(ctx, "short")
	require.ErrorIs(t, err, settings.ErrCacheMiss)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, settings.ErrCacheMiss)
}

func TestNames(t *testing.T) {
	t.Parallel()

	p := settings.NewProvider(settings.NewMemoryStore(), defaults())
	for _, name := range settings.Names() {
		_, err := p.Get(context.Background(), name)
		require.NoError(t, err, name)
	}
}
