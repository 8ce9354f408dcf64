package controller

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"review-bot/src/config"
	"review-bot/src/model"
	"review-bot/src/service/report"
	"review-bot/src/util"
)

// ReportController handles report generation
type ReportController struct {
	cfg *config.Config
}

// NewReportController creates a new report controller
func NewReportController(cfg *config.Config) *ReportController {
	return &ReportController{cfg: cfg}
}

// GenerateReports generates reports in all configured formats into the
// output directory
func (c *ReportController) GenerateReports(batch *model.BatchReport) ([]string, error) {
	util.Debug("Generating reports for %d formats: %v", len(c.cfg.Output.Formats), c.cfg.Output.Formats)
	reportGenerator := report.NewGenerator(c.cfg.Output, c.cfg.Agent)
	var outputPaths []string

	for _, format := range c.cfg.Output.Formats {
		util.Debug("Generating %s report", format)
		output, err := reportGenerator.Generate(batch, format)
		if err != nil {
			util.Error("Failed to generate %s report: %v", format, err)
			return nil, err
		}

		outputPath := c.getOutputPath(batch.Name, format)
		if err := c.write(outputPath, output); err != nil {
			return nil, err
		}
		outputPaths = append(outputPaths, outputPath)
	}

	return outputPaths, nil
}

// GenerateToFile writes one report to path
func (c *ReportController) GenerateToFile(batch *model.BatchReport, format, path string) error {
	output, err := c.GenerateToString(batch, format)
	if err != nil {
		return err
	}
	return c.write(path, output)
}

// GenerateToString generates a report to a string
func (c *ReportController) GenerateToString(batch *model.BatchReport, format string) (string, error) {
	reportGenerator := report.NewGenerator(c.cfg.Output, c.cfg.Agent)
	return reportGenerator.Generate(batch, format)
}

func (c *ReportController) write(outputPath, output string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		util.Error("Failed to create output directory: %v", err)
		return err
	}
	if err := os.WriteFile(outputPath, []byte(output), 0644); err != nil {
		util.Error("Failed to write report to %s: %v", outputPath, err)
		return err
	}
	util.Info("Report written: %s", outputPath)
	return nil
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func (c *ReportController) getOutputPath(name, format string) string {
	slug := strings.Trim(unsafeNameChars.ReplaceAllString(name, "-"), "-.")
	if slug == "" {
		slug = "batch"
	}
	filename := slug + "-review." + report.Extension(format)
	return filepath.Join(c.cfg.Output.OutputDir, filename)
}
