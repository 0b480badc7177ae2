package postmark

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// errNoAPIKey marks a resolution that found no key at all, as opposed to a
// key that is present but malformed. Only the former lets auto mode fall back.
var errNoAPIKey = errors.New("no api key configured")

// resolveClient returns a client for the server token in effect for ctx.
// Clients are cached per token: the token may come from the tenant's SMTP
// user name, so one Sender can serve several Postmark servers.
// An injected client is returned without touching configuration.
func (s *Sender) resolveClient(ctx context.Context) (Client, error) {
	if s.client != nil {
		return s.client, nil
	}

	token, err := s.serverToken(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.clients[token]; ok {
		return c, nil
	}
	c := s.newClient(token)
	s.clients[token] = c
	return c, nil
}

// serverToken takes the configured API key, else the SMTP user name.
// A configured key must parse as a UUID. A user name that is not UUID-shaped
// is an ordinary SMTP login and counts as no key.
func (s *Sender) serverToken(ctx context.Context) (string, error) {
	if key := strings.TrimSpace(s.cfg.APIKey); key != "" {
		id, err := uuid.Parse(key)
		if err != nil {
			return "", ErrConfiguration
		}
		return id.String(), nil
	}

	if s.smtp == nil {
		return "", errors.Join(ErrConfiguration, errNoAPIKey)
	}
	name, err := s.smtp.UserName(ctx)
	if err != nil {
		return "", errors.Join(ErrConfiguration, errNoAPIKey, err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.Join(ErrConfiguration, errNoAPIKey)
	}

	id, err := uuid.Parse(name)
	if err != nil {
		return "", errors.Join(ErrConfiguration, errNoAPIKey)
	}
	return id.String(), nil
}
