package settings

import "errors"

var (
	ErrParseDatabaseURL  = errors.New("settings: failed to parse database configuration")
	ErrDatabaseConnect   = errors.New("settings: failed to open database connection")
	ErrRedisURL          = errors.New("settings: invalid redis connection URL")
	ErrRedisConnect      = errors.New("settings: failed to establish redis connection")
	ErrSetDialect        = errors.New("settings migrator: failed to set dialect")
	ErrApplyMigrations   = errors.New("settings migrator: failed to apply migrations")
	ErrHealthcheckFailed = errors.New("settings: healthcheck failed")

	ErrStore        = errors.New("settings: store operation failed")
	ErrUnknownName  = errors.New("settings: unknown setting name")
	ErrInvalidValue = errors.New("settings: invalid setting value")

	// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
	ErrCacheMiss = errors.New("settings: cache miss")
)
