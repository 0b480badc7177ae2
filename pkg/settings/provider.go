package settings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
	"github.com/dmitrymomot/mailgate/pkg/mailer/smtp"
)

// Setting names.
const (
	SMTPHost               = "smtp.host"
	SMTPPort               = "smtp.port"
	SMTPUserName           = "smtp.username"
	SMTPPassword           = "smtp.password"
	SMTPEnableSSL          = "smtp.enable_ssl"
	DefaultFromAddress     = "mail.default_from_address"
	DefaultFromDisplayName = "mail.default_from_display_name"
)

// Names lists every setting the provider resolves.
func Names() []string {
	return []string{SMTPHost, SMTPPort, SMTPUserName, SMTPPassword, SMTPEnableSSL, DefaultFromAddress, DefaultFromDisplayName}
}

// Provider resolves SMTP settings for the tenant found in the context.
// A value is taken from the tenant's row, else the host row, else the
// static default. It implements smtp.Configuration.
type Provider struct {
	store    Store
	cache    Cache
	logger   *slog.Logger
	group    singleflight.Group
	defaults smtp.Config
	ttl      time.Duration
}

var _ smtp.Configuration = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithCache sets the lookup cache. Defaults to an in-memory cache.
func WithCache(c Cache) Option {
	return func(p *Provider) {
		if c != nil {
			p.cache = c
		}
	}
}

// WithTTL sets how long lookups are cached. Default: 5 minutes.
func WithTTL(d time.Duration) Option {
	return func(p *Provider) {
		p.ttl = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProvider creates a settings provider over store with static fallbacks.
func NewProvider(store Store, defaults smtp.Config, opts ...Option) *Provider {
	p := &Provider{
		store:    store,
		defaults: defaults,
		ttl:      5 * time.Minute,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = NewMemoryCache()
	}
	return p
}

func (p *Provider) Host(ctx context.Context) (string, error) {
	return p.Get(ctx, SMTPHost)
}

func (p *Provider) Port(ctx context.Context) (int, error) {
	v, err := p.Get(ctx, SMTPPort)
	if err != nil {
		return 0, err
	}
	port, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, errors.Join(ErrInvalidValue, fmt.Errorf("%s=%q: %w", SMTPPort, v, err))
	}
	return port, nil
}

func (p *Provider) UserName(ctx context.Context) (string, error) {
	return p.Get(ctx, SMTPUserName)
}

func (p *Provider) Password(ctx context.Context) (string, error) {
	return p.Get(ctx, SMTPPassword)
}

func (p *Provider) EnableSSL(ctx context.Context) (bool, error) {
	v, err := p.Get(ctx, SMTPEnableSSL)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, errors.Join(ErrInvalidValue, fmt.Errorf("%s=%q: %w", SMTPEnableSSL, v, err))
	}
	return b, nil
}

func (p *Provider) DefaultFromAddress(ctx context.Context) (string, error) {
	return p.Get(ctx, DefaultFromAddress)
}

func (p *Provider) DefaultFromDisplayName(ctx context.Context) (string, error) {
	return p.Get(ctx, DefaultFromDisplayName)
}

// Get resolves a setting for the tenant in ctx.
func (p *Provider) Get(ctx context.Context, name string) (string, error) {
	def, ok := p.defaultValue(name)
	if !ok {
		return "", ErrUnknownName
	}

	if tenant := mailer.TenantFromContext(ctx); tenant != HostTenant {
		v, found, err := p.lookup(ctx, tenant, name)
		if err != nil {
			return "", err
		}
		if found {
			return v, nil
		}
	}

	v, found, err := p.lookup(ctx, HostTenant, name)
	if err != nil {
		return "", err
	}
	if found {
		return v, nil
	}
	return def, nil
}

// Set stores a value for tenantID and drops its cached lookup.
func (p *Provider) Set(ctx context.Context, tenantID, name, value string) error {
	if _, ok := p.defaultValue(name); !ok {
		return ErrUnknownName
	}
	if err := validate(name, value); err != nil {
		return err
	}
	if err := p.store.Set(ctx, tenantID, name, value); err != nil {
		return err
	}
	p.invalidate(ctx, tenantID, name)
	return nil
}

// Delete removes the value for tenantID so lookups fall back again.
func (p *Provider) Delete(ctx context.Context, tenantID, name string) error {
	if _, ok := p.defaultValue(name); !ok {
		return ErrUnknownName
	}
	if err := p.store.Delete(ctx, tenantID, name); err != nil {
		return err
	}
	p.invalidate(ctx, tenantID, name)
	return nil
}

func (p *Provider) lookup(ctx context.Context, tenant, name string) (string, bool, error) {
	key := cacheKey(tenant, name)

	if e, err := p.cache.Get(ctx, key); err == nil {
		return e.Value, e.Found, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		p.logger.WarnContext(ctx, "settings cache read failed", slog.String("key", key), slog.Any("error", err))
	}

	res, err, _ := p.group.Do(key, func() (any, error) {
		v, found, err := p.store.Get(ctx, tenant, name)
		if err != nil {
			return nil, err
		}
		e := Entry{Value: v, Found: found}
		if err := p.cache.Set(ctx, key, e, p.ttl); err != nil {
			p.logger.WarnContext(ctx, "settings cache write failed", slog.String("key", key), slog.Any("error", err))
		}
		return e, nil
	})
	if err != nil {
		return "", false, err
	}
	e := res.(Entry)
	return e.Value, e.Found, nil
}

func (p *Provider) invalidate(ctx context.Context, tenant, name string) {
	if err := p.cache.Delete(ctx, cacheKey(tenant, name)); err != nil {
		p.logger.WarnContext(ctx, "settings cache invalidation failed", slog.String("name", name), slog.Any("error", err))
	}
}

func (p *Provider) defaultValue(name string) (string, bool) {
	switch name {
	case SMTPHost:
		return p.defaults.Host, true
	case SMTPPort:
		return strconv.Itoa(p.defaults.Port), true
	case SMTPUserName:
		return p.defaults.UserName, true
	case SMTPPassword:
		return p.defaults.Password, true
	case SMTPEnableSSL:
		return strconv.FormatBool(p.defaults.EnableSSL), true
	case DefaultFromAddress:
		return p.defaults.DefaultFromAddress, true
	case DefaultFromDisplayName:
		return p.defaults.DefaultFromName, true
	default:
		return "", false
	}
}

func validate(name, value string) error {
	switch name {
	case SMTPPort:
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err != nil || n <= 0 || n > 65535 {
			return errors.Join(ErrInvalidValue, fmt.Errorf("%s must be a port number", name))
		}
	case SMTPEnableSSL:
		if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
			return errors.Join(ErrInvalidValue, fmt.Errorf("%s must be a boolean", name))
		}
	}
	return nil
}

func cacheKey(tenant, name string) string {
	if tenant == HostTenant {
		tenant = "_host"
	}
	return tenant + ":" + name
}
