package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"review-bot/src/controller"
	"review-bot/src/service/changeset"
	"review-bot/src/util"
)

func (h *Handler) changesetCmd() *cobra.Command {
	var opts outputOptions

	cmd := &cobra.Command{
		Use:   "changeset <manifest>",
		Short: "Analyze a change set manifest",
		Long:  "Analyzes the files of a JSON or YAML change set manifest (title, files with filename, status, content and patch)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := changeset.Load(args[0])
			if err != nil {
				return fmt.Errorf("loading change set: %w", err)
			}
			util.Info("Analyzing change set %q with %d files (timeout: %v)", cs.Title, len(cs.Files), opts.timeout)

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			analysisCtrl, err := controller.NewAnalysisController(h.cfg)
			if err != nil {
				return err
			}
			report, err := analysisCtrl.AnalyzeChangeSet(ctx, cs)
			if err != nil {
				util.Error("Analysis failed: %v", err)
				return fmt.Errorf("analysis failed: %w", err)
			}

			return h.emit(report, &opts)
		},
	}

	opts.register(cmd)
	return cmd
}
