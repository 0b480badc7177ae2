// Package app assembles the service from its configuration.
package app

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/mailgate/internal/api"
	"github.com/dmitrymomot/mailgate/internal/config"
	"github.com/dmitrymomot/mailgate/pkg/health"
	"github.com/dmitrymomot/mailgate/pkg/mailer"
	"github.com/dmitrymomot/mailgate/pkg/mailer/postmark"
	"github.com/dmitrymomot/mailgate/pkg/mailer/smtp"
	"github.com/dmitrymomot/mailgate/pkg/queue"
	"github.com/dmitrymomot/mailgate/pkg/settings"
)

// App holds the wired components. Pool, Redis and Queue are nil when the
// configuration does not enable them.
type App struct {
	Logger   *slog.Logger
	Pool     *pgxpool.Pool
	Redis    redis.UniversalClient
	Settings *settings.Provider
	SMTP     *smtp.Sender
	Postmark *postmark.Sender
	Queue    *queue.Manager
	Mailer   *mailer.Mailer
	Checks   health.Checks
	cfg      config.Config
}

// New connects the configured backends and builds the delivery chain:
// Postmark first, SMTP as backup, both reading tenant settings.
// Call Close when done, also on error paths after New succeeds.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	a := &App{Logger: log, Checks: health.Checks{}, cfg: cfg}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	providerOpts := []settings.Option{
		settings.WithTTL(cfg.Settings.CacheTTL),
		settings.WithLogger(log.With(slog.String("component", "settings"))),
	}
	if cfg.Settings.RedisURL != "" {
		rdb, err := settings.OpenRedis(ctx, cfg.Settings.RedisURL, cfg.Settings.RetryAttempts, cfg.Settings.RetryInterval)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = rdb
		a.Checks["redis"] = settings.RedisHealthcheck(rdb)
		providerOpts = append(providerOpts, settings.WithCache(settings.NewRedisCache(rdb, "")))
	}
	a.Settings = settings.NewProvider(store, cfg.SMTP, providerOpts...)

	a.SMTP = smtp.New(a.Settings, smtp.WithLogger(log.With(slog.String("component", "smtp"))))
	a.Postmark = postmark.New(cfg.Postmark, a.Settings, a.SMTP,
		postmark.WithLogger(log.With(slog.String("component", "postmark"))),
	)

	var renderOpts []mailer.RendererOption
	if cfg.Mailer.SanitizeHTML {
		renderOpts = append(renderOpts, mailer.SanitizeWith(mailer.EmailPolicy()))
	}
	mailerOpts := []mailer.Option{
		mailer.WithConfig(cfg.Mailer),
		mailer.WithLogger(log.With(slog.String("component", "mailer"))),
		mailer.WithRenderer(mailer.NewRenderer(os.DirFS(cfg.Mailer.TemplateDir), ".", cfg.Mailer.LayoutDir, renderOpts...)),
	}

	if a.Pool != nil && cfg.Queue.Enabled {
		manager, err := queue.NewManager(a.Pool, a.Postmark,
			queue.WithLogger(log.With(slog.String("component", "queue"))),
			queue.WithWorkers(cfg.Queue.Workers),
		)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Queue = manager
		a.Checks["queue"] = queue.Healthcheck(manager)
		mailerOpts = append(mailerOpts, mailer.WithEnqueuer(manager))
	}

	a.Mailer = mailer.New(a.Postmark, mailerOpts...)
	return a, nil
}

func (a *App) openStore(ctx context.Context) (settings.Store, error) {
	if a.cfg.Settings.DatabaseURL == "" {
		a.Logger.WarnContext(ctx, "DATABASE_CONN_URL is not set, tenant settings are kept in memory and the queue is disabled")
		return settings.NewMemoryStore(), nil
	}

	pool, err := settings.Connect(ctx, a.cfg.Settings)
	if err != nil {
		return nil, err
	}
	a.Pool = pool
	a.Checks["postgres"] = settings.Healthcheck(pool)
	return settings.NewPGStore(pool), nil
}

// Migrate applies the settings schema and River's schema.
// It is a no-op without a database.
func (a *App) Migrate(ctx context.Context) error {
	if a.Pool == nil {
		return nil
	}
	if err := settings.Migrate(ctx, a.Pool, a.cfg.Settings.MigrationsTable, a.Logger); err != nil {
		return err
	}
	return queue.Migrate(ctx, a.Pool, a.Logger)
}

// Server builds the HTTP API over the wired mailer and settings.
func (a *App) Server() *api.Server {
	return api.New(a.Mailer,
		api.WithSettings(a.Settings),
		api.WithChecks(a.Checks),
		api.WithLogger(a.Logger.With(slog.String("component", "api"))),
	)
}

// StartHooks returns the hooks run before the server accepts requests.
func (a *App) StartHooks() []api.Hook {
	if a.Queue == nil {
		return nil
	}
	return []api.Hook{a.Queue.Start}
}

// StopHooks returns the hooks run after the server stops.
func (a *App) StopHooks() []api.Hook {
	var hooks []api.Hook
	if a.Queue != nil {
		hooks = append(hooks, func(ctx context.Context) error {
			if err := a.Queue.Stop(ctx); err != nil && !errors.Is(err, queue.ErrNotStarted) {
				return err
			}
			return nil
		})
	}
	return append(hooks, func(context.Context) error {
		a.Close()
		return nil
	})
}

// Close releases the database pool and the Redis client.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("failed to close redis client", slog.Any("error", err))
		}
		a.Redis = nil
	}
	if a.Pool != nil {
		a.Pool.Close()
		a.Pool = nil
	}
}
