/*
Package cmd provides the mailgate command line.
*/
package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailgate/internal/api"
	"github.com/dmitrymomot/mailgate/internal/app"
	"github.com/dmitrymomot/mailgate/internal/config"
	"github.com/dmitrymomot/mailgate/pkg/logger"
)

const flushTimeout = 2 * time.Second

// state is shared by all subcommands of one invocation.
type state struct {
	envFiles []string
	cfg      config.Config
	log      *slog.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	s := &state{}

	root := &cobra.Command{
		Use:   "mailgate",
		Short: "Postmark email gateway with SMTP fallback",
		Long: `mailgate delivers email through Postmark and falls back to SMTP when
Postmark is disabled or has no usable API key.

Configuration is read from the environment and from dotenv files.

Example:
  mailgate serve                                  # Run the HTTP API and queue workers
  mailgate send --to a@example.com --template-id 1234 --model name=Ann
  mailgate settings set smtp.host smtp.acme.io --tenant acme
  mailgate check --output yaml                    # Probe Postgres, Redis and the queue`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(s.envFiles...)
			if err != nil {
				return err
			}
			s.cfg = cfg
			s.log = logger.New(cfg.Log, logger.Tenant(), api.RequestIDExtractor())
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Flush(flushTimeout)
		},
	}

	root.PersistentFlags().StringSliceVar(&s.envFiles, "env-file", nil, "dotenv files to load (default .env)")

	root.AddCommand(
		newServeCmd(s),
		newSendCmd(s),
		newMigrateCmd(s),
		newCheckCmd(s),
		newSettingsCmd(s),
	)
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// build wires the app and runs fn, closing the app afterwards.
func (s *state) build(ctx context.Context, fn func(a *app.App) error) error {
	a, err := app.New(ctx, s.cfg, s.log)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
