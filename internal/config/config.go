// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/mailgate/internal/api"
	"github.com/dmitrymomot/mailgate/pkg/logger"
	"github.com/dmitrymomot/mailgate/pkg/mailer"
	"github.com/dmitrymomot/mailgate/pkg/mailer/postmark"
	"github.com/dmitrymomot/mailgate/pkg/mailer/smtp"
	"github.com/dmitrymomot/mailgate/pkg/settings"
)

// ErrLoad is returned when the environment cannot be parsed.
var ErrLoad = errors.New("config: failed to load configuration")

// Config is the full service configuration.
type Config struct {
	Log      logger.Config
	HTTP     api.Config
	Postmark postmark.Config
	SMTP     smtp.Config
	Settings settings.Config
	Mailer   mailer.Config
	Queue    Queue
}

// Queue configures background delivery. It needs DATABASE_CONN_URL.
type Queue struct {
	Enabled bool `env:"QUEUE_ENABLED" envDefault:"true"`
	Workers int  `env:"QUEUE_WORKERS" envDefault:"10"`
}

// Load reads the given dotenv files, or .env when none are given, then
// parses the environment. Missing dotenv files are ignored; variables
// already set in the environment win over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, errors.Join(ErrLoad, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Join(ErrLoad, err)
	}
	return cfg, nil
}
