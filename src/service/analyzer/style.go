package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"review-bot/src/config"
	"review-bot/src/model"
)

var (
	assignPattern = regexp.MustCompile(`([\p{L}\p{N}_]+)\s*=`)
	snakeCase     = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	pascalCase    = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
)

// StyleAnalyzer checks raw source lines. It does not use the syntax tree,
// so it also runs on files that fail to parse.
type StyleAnalyzer struct {
	cfg config.StyleConfig
}

// NewStyleAnalyzer creates a new style analyzer
func NewStyleAnalyzer(cfg config.StyleConfig) *StyleAnalyzer {
	return &StyleAnalyzer{cfg: cfg}
}

// Name returns the analyzer name
func (a *StyleAnalyzer) Name() string {
	return "style"
}

// Category returns the finding category
func (a *StyleAnalyzer) Category() model.Category {
	return model.CategoryStyle
}

// IsEnabled returns whether the analyzer is enabled
func (a *StyleAnalyzer) IsEnabled() bool {
	return a.cfg.Enabled
}

// Analyze runs the line checks
func (a *StyleAnalyzer) Analyze(in *Input) ([]model.Finding, error) {
	var findings []model.Finding
	for i, line := range SplitLines(in.Content) {
		findings = append(findings, a.checkLine(i+1, line)...)
	}
	return findings, nil
}

// SplitLines splits source on '\n', dropping one trailing '\r' per line
func SplitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func (a *StyleAnalyzer) checkLine(lineNo int, line string) []model.Finding {
	var findings []model.Finding

	trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
	blank := trimmed == ""

	if a.width(trimmed) > a.cfg.MaxLineLength {
		findings = append(findings, a.finding(lineNo,
			fmt.Sprintf("Line exceeds maximum length of %d characters", a.cfg.MaxLineLength),
			fmt.Sprintf("Break the line into multiple lines of at most %d characters", a.cfg.MaxLineLength)))
	}

	if !blank && leadingWhitespace(line)%a.cfg.IndentWidth != 0 {
		findings = append(findings, a.finding(lineNo,
			fmt.Sprintf("Incorrect indentation. Use multiples of %d spaces", a.cfg.IndentWidth),
			fmt.Sprintf("Indent with multiples of %d spaces", a.cfg.IndentWidth)))
	}

	if !blank && len(trimmed) != len(line) {
		findings = append(findings, a.finding(lineNo,
			"Line contains trailing whitespace",
			"Remove trailing whitespace"))
	}

	if a.cfg.CheckNaming {
		for _, name := range assignedNames(line) {
			if snakeCase.MatchString(name) || pascalCase.MatchString(name) {
				continue
			}
			findings = append(findings, a.finding(lineNo,
				fmt.Sprintf("Variable name '%s' doesn't follow PEP 8 naming convention", name),
				"Use snake_case for variables and functions, PascalCase for classes"))
		}
	}

	return findings
}

func (a *StyleAnalyzer) finding(line int, description, suggestion string) model.Finding {
	return newFinding(model.CategoryStyle, line, model.SeverityLow, description, suggestion)
}

func (a *StyleAnalyzer) width(s string) int {
	if a.cfg.WidthMode == "columns" {
		return runewidth.StringWidth(s)
	}
	return utf8.RuneCountInString(s)
}

// leadingWhitespace counts leading whitespace characters
func leadingWhitespace(line string) int {
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}

// assignedNames returns identifiers followed by '=' that are not part of
// an '==' comparison
func assignedNames(line string) []string {
	var names []string
	for _, m := range assignPattern.FindAllStringSubmatchIndex(line, -1) {
		if m[1] < len(line) && line[m[1]] == '=' {
			continue
		}
		names = append(names, line[m[2]:m[3]])
	}
	return names
}
