package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/mailgate/internal/app"
	"github.com/dmitrymomot/mailgate/pkg/health"
)

func newCheckCmd(s *state) *cobra.Command {
	var (
		output  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe the configured backends",
		Long:  `Run the readiness checks once and print the report. Exits non-zero when a check fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.build(cmd.Context(), func(a *app.App) error {
				report := health.Run(cmd.Context(), a.Checks, health.WithTimeout(timeout))

				var (
					out []byte
					err error
				)
				switch output {
				case "json":
					out, err = json.MarshalIndent(report, "", "  ")
				case "yaml":
					out, err = yaml.Marshal(report)
				default:
					return fmt.Errorf("unknown output format %q", output)
				}
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return report.Err()
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "timeout for all checks")
	return cmd
}
