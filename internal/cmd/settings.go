package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailgate/internal/app"
	"github.com/dmitrymomot/mailgate/pkg/mailer"
	"github.com/dmitrymomot/mailgate/pkg/settings"
)

func newSettingsCmd(s *state) *cobra.Command {
	var tenant string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage tenant delivery settings",
		Long: `Read and override delivery settings per tenant.

Known names:
  ` + strings.Join(settings.Names(), "\n  ") + `

Without --tenant the host values are changed. Tenant lookups fall back to
the host value and then to the environment.`,
	}
	cmd.PersistentFlags().StringVar(&tenant, "tenant", "", "tenant id, empty for the host")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get NAME",
			Short: "Print the resolved value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := mailer.WithTenant(cmd.Context(), tenant)
				return s.build(ctx, func(a *app.App) error {
					v, err := a.Settings.Get(ctx, args[0])
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), v)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set NAME VALUE",
			Short: "Store an override",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return s.build(cmd.Context(), func(a *app.App) error {
					return a.Settings.Set(cmd.Context(), tenant, args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "delete NAME",
			Short: "Remove an override",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return s.build(cmd.Context(), func(a *app.App) error {
					return a.Settings.Delete(cmd.Context(), tenant, args[0])
				})
			},
		},
	)
	return cmd
}
