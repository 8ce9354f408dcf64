// Package analyzer implements the analysis passes run over a single Python
// file and the runner that merges their findings.
package analyzer

import (
	"fmt"

	"review-bot/src/model"
	"review-bot/src/service/pyast"
)

// Analyzer is the interface for all analysis passes
type Analyzer interface {
	// Name returns the analyzer identifier used to tag findings
	Name() string

	// Category returns the category of findings the analyzer produces
	Category() model.Category

	// IsEnabled returns whether the analyzer is enabled
	IsEnabled() bool

	// Analyze runs the pass over one file and returns freshly allocated findings
	Analyze(in *Input) ([]model.Finding, error)
}

// Input is the per-file input shared by all analyzers. The source is parsed
// once; analyzers must not modify the tree.
type Input struct {
	Filename string
	Content  string

	parse    *pyast.ParseResult
	parseErr error
}

// NewInput parses content and returns the shared analyzer input
func NewInput(filename, content string) *Input {
	in := &Input{Filename: filename, Content: content}
	in.parse, in.parseErr = safeParse([]byte(content))
	return in
}

func safeParse(src []byte) (res *pyast.ParseResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, fmt.Errorf("parser panic: %v", p)
		}
	}()
	return pyast.Parse(src)
}

// AST returns the parse result. The error is a parser fault, not a syntax
// error; syntax errors are reported through the result.
func (in *Input) AST() (*pyast.ParseResult, error) {
	return in.parse, in.parseErr
}

// Module returns the parsed module, or nil if the source did not parse
func (in *Input) Module() (*pyast.Module, error) {
	if in.parseErr != nil {
		return nil, in.parseErr
	}
	if !in.parse.OK() {
		return nil, nil
	}
	return in.parse.Module, nil
}

func newFinding(category model.Category, line int, severity model.Severity, description, suggestion string) model.Finding {
	return model.Finding{
		Category:    category,
		Line:        line,
		Description: description,
		Suggestion:  suggestion,
		Severity:    severity,
	}
}
