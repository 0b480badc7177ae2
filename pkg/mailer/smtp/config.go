package smtp

import "context"

// Configuration supplies SMTP settings. Every accessor takes a context
// because implementations may resolve values per tenant from storage.
type Configuration interface {
	Host(ctx context.Context) (string, error)
	Port(ctx context.Context) (int, error)
	UserName(ctx context.Context) (string, error)
	Password(ctx context.Context) (string, error)
	EnableSSL(ctx context.Context) (bool, error)
	DefaultFromAddress(ctx context.Context) (string, error)
	DefaultFromDisplayName(ctx context.Context) (string, error)
}

// Config holds static SMTP settings.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Host               string `env:"SMTP_HOST"`
	UserName           string `env:"SMTP_USERNAME"`
	Password           string `env:"SMTP_PASSWORD"`
	DefaultFromAddress string `env:"SMTP_DEFAULT_FROM_ADDRESS"`
	DefaultFromName    string `env:"SMTP_DEFAULT_FROM_NAME"`
	Port               int    `env:"SMTP_PORT" envDefault:"587"`
	EnableSSL          bool   `env:"SMTP_ENABLE_SSL"`
}

// Static adapts a Config to the Configuration interface.
func Static(cfg Config) Configuration {
	return staticConfig{cfg: cfg}
}

type staticConfig struct {
	cfg Config
}

func (s staticConfig) Host(context.Context) (string, error)     { return s.cfg.Host, nil }
func (s staticConfig) Port(context.Context) (int, error)        { return s.cfg.Port, nil }
func (s staticConfig) UserName(context.Context) (string, error) { return s.cfg.UserName, nil }
func (s staticConfig) Password(context.Context) (string, error) { return s.cfg.Password, nil }
func (s staticConfig) EnableSSL(context.Context) (bool, error)  { return s.cfg.EnableSSL, nil }

func (s staticConfig) DefaultFromAddress(context.Context) (string, error) {
	return s.cfg.DefaultFromAddress, nil
}

func (s staticConfig) DefaultFromDisplayName(context.Context) (string, error) {
	return s.cfg.DefaultFromName, nil
}

// Settings is a resolved snapshot of a Configuration.
type Settings struct {
	Host        string
	UserName    string
	Password    string
	FromAddress string
	FromName    string
	Port        int
	EnableSSL   bool
}

// Load resolves every value of c into a Settings snapshot.
func Load(ctx context.Context, c Configuration) (Settings, error) {
	var (
		s   Settings
		err error
	)
	if s.Host, err = c.Host(ctx); err != nil {
		return Settings{}, err
	}
	if s.Port, err = c.Port(ctx); err != nil {
		return Settings{}, err
	}
	if s.UserName, err = c.UserName(ctx); err != nil {
		return Settings{}, err
	}
	if s.Password, err = c.Password(ctx); err != nil {
		return Settings{}, err
	}
	if s.EnableSSL, err = c.EnableSSL(ctx); err != nil {
		return Settings{}, err
	}
	if s.FromAddress, err = c.DefaultFromAddress(ctx); err != nil {
		return Settings{}, err
	}
	if s.FromName, err = c.DefaultFromDisplayName(ctx); err != nil {
		return Settings{}, err
	}
	return s, nil
}
