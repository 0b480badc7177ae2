package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailgate/internal/api"
	"github.com/dmitrymomot/mailgate/internal/app"
)

func newServeCmd(s *state) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and queue workers",
		Long: `Serve the HTTP API until SIGINT or SIGTERM.

With DATABASE_CONN_URL set, queued emails are processed by in-process
workers and tenant settings are stored in Postgres.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return s.build(ctx, func(a *app.App) error {
				if migrate {
					if err := a.Migrate(ctx); err != nil {
						return err
					}
				}
				return api.Serve(ctx, s.cfg.HTTP, a.Server().Handler(), s.log, a.StartHooks(), a.StopHooks())
			})
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply database migrations before serving")
	return cmd
}
