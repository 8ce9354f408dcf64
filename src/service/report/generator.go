package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"review-bot/src/config"
	"review-bot/src/model"
	"review-bot/src/util"
)

// Generator generates reports in various formats
type Generator struct {
	cfg   config.OutputConfig
	agent config.AgentConfig
}

// NewGenerator creates a new report generator
func NewGenerator(cfg config.OutputConfig, agent config.AgentConfig) *Generator {
	return &Generator{cfg: cfg, agent: agent}
}

// Extension returns the file extension used for a format
func Extension(format string) string {
	switch format {
	case "markdown", "md":
		return "md"
	case "sarif":
		return "sarif"
	case "text":
		return "txt"
	default:
		return "json"
	}
}

// Generate generates a report in the specified format
func (g *Generator) Generate(report *model.BatchReport, format string) (string, error) {
	util.Debug("Generating report in %s format (%d findings)", format, report.Summary.TotalFindings)
	switch format {
	case "json":
		return g.generateJSON(report)
	case "markdown", "md":
		return g.generateMarkdown(report)
	case "sarif":
		return g.generateSARIF(report)
	case "text":
		return g.generateText(report)
	default:
		util.Warn("Unsupported report format requested: %s", format)
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (g *Generator) generateJSON(report *model.BatchReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) generateMarkdown(report *model.BatchReport) (string, error) {
	var sb strings.Builder

	// Header
	sb.WriteString("# Code Review Report\n\n")
	sb.WriteString(fmt.Sprintf("**Change set:** %s\n", report.Name))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Files analyzed:** %d\n", report.Summary.TotalFiles))
	sb.WriteString(fmt.Sprintf("- **Total findings:** %d\n", report.Summary.TotalFindings))
	sb.WriteString(fmt.Sprintf("- **Critical findings:** %d\n\n", report.Summary.CriticalFindings))

	// By Category
	sb.WriteString("### Findings by Category\n\n")
	sb.WriteString("| Category | Count |\n")
	sb.WriteString("|----------|-------|\n")
	for _, cat := range reportCategories(report.Summary) {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", cat, report.Summary.FindingsByCategory[cat]))
	}
	sb.WriteString("\n")

	// Findings by file
	sb.WriteString("## Findings\n\n")
	for _, file := range report.Files {
		if len(file.Findings) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("### `%s` (%d findings)\n\n", file.Filename, len(file.Findings)))
		sb.WriteString("| Line | Severity | Category | Description |\n")
		sb.WriteString("|------|----------|----------|-------------|\n")
		for _, f := range file.Findings {
			desc := escapeTableCell(f.Description)
			if g.cfg.IncludeSuggestions && f.Suggestion != "" {
				desc += "<br>_" + escapeTableCell(f.Suggestion) + "_"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s %s | %s | %s |\n",
				lineLabel(f.Line), severityEmoji(f.Severity), f.Severity, f.Category, desc))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (g *Generator) generateSARIF(report *model.BatchReport) (string, error) {
	sarif := map[string]any{
		"$schema": "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		"version": "2.1.0",
		"runs": []map[string]any{
			{
				"tool": map[string]any{
					"driver": map[string]any{
						"name":    g.agent.Name,
						"version": g.agent.Version,
						"rules":   g.buildSARIFRules(report.Files),
					},
				},
				"results": g.buildSARIFResults(report.Files),
			},
		},
	}

	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func ruleID(f model.Finding) string {
	return string(f.Category) + "/" + f.Analyzer
}

func (g *Generator) buildSARIFRules(files []model.FileResult) []map[string]any {
	ruleMap := make(map[string]bool)
	rules := []map[string]any{}

	for _, file := range files {
		for _, f := range file.Findings {
			id := ruleID(f)
			if ruleMap[id] {
				continue
			}
			ruleMap[id] = true

			rules = append(rules, map[string]any{
				"id":   id,
				"name": f.Analyzer,
				"shortDescription": map[string]any{
					"text": fmt.Sprintf("%s findings from the %s analyzer", f.Category, f.Analyzer),
				},
			})
		}
	}

	return rules
}

func (g *Generator) buildSARIFResults(files []model.FileResult) []map[string]any {
	results := []map[string]any{}

	for _, file := range files {
		for _, f := range file.Findings {
			location := map[string]any{
				"artifactLocation": map[string]any{"uri": file.Filename},
			}
			// line 0 is a file-level finding
			if f.Line > 0 {
				location["region"] = map[string]any{"startLine": f.Line}
			}

			result := map[string]any{
				"ruleId":    ruleID(f),
				"level":     sarifLevel(f.Severity),
				"message":   map[string]any{"text": f.Description},
				"locations": []map[string]any{{"physicalLocation": location}},
			}

			if g.cfg.IncludeSuggestions && f.Suggestion != "" {
				result["fixes"] = []map[string]any{
					{
						"description": map[string]any{"text": f.Suggestion},
					},
				}
			}

			results = append(results, result)
		}
	}

	return results
}

// reportCategories lists the analyzer categories, plus error when present
func reportCategories(s model.BatchSummary) []model.Category {
	cats := append([]model.Category(nil), model.AnalyzerCategories...)
	if s.FindingsByCategory[model.CategoryError] > 0 {
		cats = append(cats, model.CategoryError)
	}
	return cats
}

func lineLabel(line int) string {
	if line == 0 {
		return "-"
	}
	return fmt.Sprint(line)
}

func escapeTableCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func severityEmoji(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "[CRITICAL]"
	case model.SeverityHigh:
		return "[HIGH]"
	case model.SeverityMedium:
		return "[MEDIUM]"
	default:
		return "[LOW]"
	}
}

func sarifLevel(s model.Severity) string {
	switch s {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
