// Package settings resolves SMTP settings per tenant.
//
// Values live in the PostgreSQL table mail_settings (tenant_id, name, value),
// created by the migrations embedded in this package. A lookup for the tenant
// in the context (see mailer.WithTenant) checks the tenant's row, then the
// host row (tenant_id = ''), then the static default from smtp.Config.
//
// Store lookups are cached, misses included, in a Cache: MemoryCache for a
// single instance or RedisCache when instances share settings. Concurrent
// misses for the same key are collapsed with singleflight.
//
// # Usage
//
//	pool, err := settings.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := settings.Migrate(ctx, pool, cfg.MigrationsTable, log); err != nil {
//		return err
//	}
//
//	provider := settings.NewProvider(settings.NewPGStore(pool), smtpCfg,
//		settings.WithTTL(cfg.CacheTTL),
//	)
//	backup := smtp.New(provider)
//
// # Environment
//
//	DATABASE_CONN_URL         - PostgreSQL URL (optional)
//	DATABASE_MIGRATIONS_TABLE - goose version table (default: mailgate_migrations)
//	REDIS_URL                 - Redis URL for the shared cache (optional)
//	SETTINGS_CACHE_TTL        - lookup cache lifetime (default: 5m)
package settings
