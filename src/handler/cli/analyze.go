package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"review-bot/src/controller"
	"review-bot/src/model"
	"review-bot/src/util"
)

// outputOptions are the flags shared by the analyze and changeset commands
type outputOptions struct {
	format  string
	output  string
	timeout time.Duration
	noColor bool
	failOn  string
}

func (o *outputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "Output format (text, json, markdown, sarif)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().DurationVarP(&o.timeout, "timeout", "t", 5*time.Minute, "Analysis timeout")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "Disable colored text output")
	cmd.Flags().StringVar(&o.failOn, "fail-on", "", "Exit non-zero when a finding has at least this severity")
}

func (h *Handler) analyzeCmd() *cobra.Command {
	var opts outputOptions

	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Analyze files and directories",
		Long:  "Runs all enabled analyzers against the given files and directory trees and prints a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			name := batchName(args)
			util.Info("Analyzing %s (timeout: %v)", name, opts.timeout)

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			analysisCtrl, err := controller.NewAnalysisController(h.cfg)
			if err != nil {
				return err
			}
			report, err := analysisCtrl.AnalyzePaths(ctx, name, args)
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

// emit writes the report and applies the fail-on threshold
func (h *Handler) emit(report *model.BatchReport, opts *outputOptions) error {
	if opts.noColor {
		h.cfg.Output.Color = false
	}
	format := opts.format
	if format == "" && len(h.cfg.Output.Formats) > 0 {
		format = h.cfg.Output.Formats[0]
	}
	if format == "" {
		format = "text"
	}
	if format == "text" && opts.output != "" {
		h.cfg.Output.Color = false
	}

	reportCtrl := controller.NewReportController(h.cfg)
	if opts.output != "" {
		if err := reportCtrl.GenerateToFile(report, format, opts.output); err != nil {
			return fmt.Errorf("generating report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", opts.output)
	} else {
		output, err := reportCtrl.GenerateToString(report, format)
		if err != nil {
			return fmt.Errorf("generating report: %w", err)
		}
		fmt.Print(strings.TrimRight(output, "\n") + "\n")
	}

	// Print summary to stderr
	if format != "text" || opts.output != "" {
		fmt.Fprintf(os.Stderr, "\nAnalysis complete:\n")
		fmt.Fprintf(os.Stderr, "  Files analyzed: %d\n", report.Summary.TotalFiles)
		fmt.Fprintf(os.Stderr, "  Total findings: %d\n", report.Summary.TotalFindings)
		fmt.Fprintf(os.Stderr, "  Critical findings: %d\n", report.Summary.CriticalFindings)
	}

	return checkThreshold(report, opts.failOn, h.cfg.Severity.FailOn)
}

// checkThreshold returns an error when the report holds a finding at or
// above the fail-on severity. The flag wins over the configured value.
func checkThreshold(report *model.BatchReport, flagValue, configured string) error {
	failOn := flagValue
	if failOn == "" {
		failOn = configured
	}
	if failOn == "" {
		return nil
	}

	threshold := model.Severity(failOn)
	if threshold.Rank() == 0 {
		return fmt.Errorf("invalid --fail-on severity %q", failOn)
	}
	if highest := report.HighestSeverity(); highest != "" && highest.AtLeast(threshold) {
		return fmt.Errorf("found %s severity findings (fail-on: %s)", highest, threshold)
	}
	return nil
}

func batchName(paths []string) string {
	if len(paths) == 1 {
		if abs, err := filepath.Abs(paths[0]); err == nil {
			return filepath.Base(abs)
		}
		return paths[0]
	}
	return strings.Join(paths, ", ")
}
