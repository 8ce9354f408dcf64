package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"review-bot/src/model"
)

type palette struct {
	file     *color.Color
	critical *color.Color
	high     *color.Color
	medium   *color.Color
	low      *color.Color
	faint    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		file:     color.New(color.FgCyan, color.Bold),
		critical: color.New(color.FgRed, color.Bold),
		high:     color.New(color.FgRed),
		medium:   color.New(color.FgYellow),
		low:      color.New(color.FgBlue),
		faint:    color.New(color.Faint),
	}
	if !enabled {
		for _, c := range []*color.Color{p.file, p.critical, p.high, p.medium, p.low, p.faint} {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s model.Severity) *color.Color {
	switch s {
	case model.SeverityCritical:
		return p.critical
	case model.SeverityHigh:
		return p.high
	case model.SeverityMedium:
		return p.medium
	default:
		return p.low
	}
}

// generateText renders a terminal report, one line per finding
func (g *Generator) generateText(report *model.BatchReport) (string, error) {
	p := newPalette(g.cfg.Color)
	var sb strings.Builder

	for _, file := range report.Files {
		if len(file.Findings) == 0 {
			continue
		}
		sb.WriteString(p.file.Sprint(file.Filename))
		sb.WriteString("\n")
		for _, f := range file.Findings {
			sev := p.severity(f.Severity).Sprintf("%-8s", f.Severity)
			fmt.Fprintf(&sb, "  %5s  %s  %-13s %s\n", lineLabel(f.Line), sev, f.Category, f.Description)
			if g.cfg.IncludeSuggestions && f.Suggestion != "" {
				fmt.Fprintf(&sb, "  %5s  %s\n", "", p.faint.Sprint("-> "+f.Suggestion))
			}
		}
		sb.WriteString("\n")
	}

	s := report.Summary
	fmt.Fprintf(&sb, "%d files analyzed, %d findings (%s)\n",
		s.TotalFiles, s.TotalFindings, p.critical.Sprintf("%d critical", s.CriticalFindings))

	parts := make([]string, 0, len(model.AnalyzerCategories)+1)
	for _, cat := range reportCategories(s) {
		parts = append(parts, fmt.Sprintf("%s: %d", cat, s.FindingsByCategory[cat]))
	}
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteString("\n")

	return sb.String(), nil
}
