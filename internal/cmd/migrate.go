package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailgate/internal/app"
)

func newMigrateCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply settings and queue migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.build(cmd.Context(), func(a *app.App) error {
				if a.Pool == nil {
					s.log.Warn("no database configured, nothing to migrate")
					return nil
				}
				if err := a.Migrate(cmd.Context()); err != nil {
					return err
				}
				s.log.Info("migrations applied")
				return nil
			})
		},
	}
}
