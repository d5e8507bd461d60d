package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fpdedup/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var source string
	var target string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the configured directories are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.runConfig()
			if err != nil {
				return err
			}
			if err := applyPathOverrides(cmd, cfg, source, target); err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			failed := preflight.Failed(results)

			if jsonOutput {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				colorize := writerIsTerminal(cmd.OutOrStdout())
				var b strings.Builder
				for _, r := range results {
					kind := statusOK
					if !r.Passed {
						kind = statusError
					}
					b.WriteString(renderStatusLine(r.Name, kind, r.Detail, colorize))
					b.WriteString("\n")
				}
				fmt.Fprint(cmd.OutOrStdout(), b.String())
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d of %d check(s) failed", len(failed), len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Source directory to check instead of the configured one")
	cmd.Flags().StringVar(&target, "target", "", "Target directory to check instead of the configured one")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	return cmd
}
