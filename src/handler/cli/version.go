package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"review-bot/src/service/analyzer"
)

func (h *Handler) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", h.cfg.Agent.Name, h.cfg.Agent.Version)
		},
	}
}

func (h *Handler) analyzersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyzers",
		Short: "List available analyzers",
		Run: func(cmd *cobra.Command, args []string) {
			runner := analyzer.NewRunner(h.cfg)
			enabled := color.New(color.FgGreen).Sprint("enabled")
			disabled := color.New(color.Faint).Sprint("disabled")

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available analyzers:")
			for _, a := range runner.ListAnalyzers() {
				status := disabled
				if a.IsEnabled() {
					status = enabled
				}
				fmt.Fprintf(out, "  - %-15s: %-14s %s\n", a.Name(), a.Category(), status)
			}
		},
	}
}
