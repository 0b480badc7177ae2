package postmark

import (
	"fmt"
	"strings"
	"time"
)

// Config holds Postmark provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// APIKey is the Postmark server token. It must be UUID-shaped.
	// When empty, the SMTP user name is used instead.
	APIKey string `env:"POSTMARK_API_KEY"`

	// UsePostmark is a tri-state switch: true forces the provider, false forces
	// the SMTP backup, nil uses the provider when a valid key is resolvable.
	UsePostmark *bool `env:"POSTMARK_ENABLED"`

	TrackLinks    LinkTracking  `env:"POSTMARK_TRACK_LINKS" envDefault:"None"`
	MessageStream string        `env:"POSTMARK_MESSAGE_STREAM"`
	BaseURL       string        `env:"POSTMARK_BASE_URL" envDefault:"https://api.postmarkapp.com"`
	Timeout       time.Duration `env:"POSTMARK_TIMEOUT" envDefault:"30s"`
	TrackOpens    bool          `env:"POSTMARK_TRACK_OPENS" envDefault:"true"`
}

// DefaultConfig returns the configuration defaults used when loading from env.
func DefaultConfig() Config {
	return Config{
		TrackOpens: true,
		TrackLinks: TrackLinksNone,
		BaseURL:    DefaultBaseURL,
		Timeout:    30 * time.Second,
	}
}

// Bool returns a pointer to b, for setting Config.UsePostmark.
func Bool(b bool) *bool {
	return &b
}

// mode is the resolved form of Config.UsePostmark.
type mode int

const (
	modeAuto mode = iota
	modeEnabled
	modeDisabled
)

func (c Config) mode() mode {
	switch {
	case c.UsePostmark == nil:
		return modeAuto
	case *c.UsePostmark:
		return modeEnabled
	default:
		return modeDisabled
	}
}

func (m mode) String() string {
	switch m {
	case modeEnabled:
		return "enabled"
	case modeDisabled:
		return "disabled"
	default:
		return "auto"
	}
}

// LinkTracking controls Postmark link tracking.
type LinkTracking string

const (
	TrackLinksNone        LinkTracking = "None"
	TrackLinksHTMLAndText LinkTracking = "HtmlAndText"
	TrackLinksHTMLOnly    LinkTracking = "HtmlOnly"
	TrackLinksTextOnly    LinkTracking = "TextOnly"
)

// UnmarshalText implements encoding.TextUnmarshaler.
// Matching is case-insensitive; an empty value means None.
func (l *LinkTracking) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*l = TrackLinksNone
		return nil
	}
	for _, v := range []LinkTracking{TrackLinksNone, TrackLinksHTMLAndText, TrackLinksHTMLOnly, TrackLinksTextOnly} {
		if strings.EqualFold(s, string(v)) {
			*l = v
			return nil
		}
	}
	return fmt.Errorf("postmark: unknown link tracking mode %q", s)
}
