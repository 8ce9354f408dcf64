package analyzer

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"review-bot/src/config"
	"review-bot/src/model"
	"review-bot/src/util"
)

// Runner runs every enabled analyzer over one file and merges the results.
// It holds no per-file state and is safe for concurrent use.
type Runner struct {
	analyzers   []Analyzer
	policy      *util.PathPolicy
	minSeverity model.Severity
}

// NewRunner creates a runner with all analyzers registered in their fixed
// order: style, bugs, performance, best_practices
func NewRunner(cfg *config.Config) *Runner {
	analyzers := []Analyzer{
		NewStyleAnalyzer(cfg.Analysis.Style),
		NewBugAnalyzer(cfg.Analysis.Bugs),
		NewPerformanceAnalyzer(cfg.Analysis.Performance),
		NewBestPracticesAnalyzer(cfg.Analysis.BestPractices),
	}

	util.Debug("Analyzer runner initialized with %d analyzers", len(analyzers))
	for _, a := range analyzers {
		status := "disabled"
		if a.IsEnabled() {
			status = "enabled"
		}
		util.Debug("  - %s: %s", a.Name(), status)
	}

	return &Runner{
		analyzers:   analyzers,
		policy:      util.NewPathPolicy(cfg.Analysis.Extensions, cfg.Exclusions),
		minSeverity: model.Severity(cfg.Severity.MinSeverity),
	}
}

// AnalyzeFile analyzes one file. Files rejected by the path policy return
// an empty result with the patch preserved. An analyzer that fails or
// panics contributes a single error finding instead of its output.
func (r *Runner) AnalyzeFile(filename, content, patch string) model.FileResult {
	result := model.FileResult{
		Filename: filename,
		Findings: []model.Finding{},
		Patch:    patch,
	}

	if !r.policy.Accept(filename) {
		util.Debug("Skipping %s: not an analyzable file", filename)
		return result
	}

	start := time.Now()
	in := NewInput(filename, content)

	for _, a := range r.analyzers {
		if !a.IsEnabled() {
			continue
		}

		findings, err := r.run(a, in)
		if err != nil {
			util.Error("Analyzer %s failed on %s: %v", a.Name(), filename, err)
			result.Findings = append(result.Findings, faultFinding(a.Name(), err))
			continue
		}

		for _, f := range findings {
			if !f.Severity.AtLeast(r.minSeverity) {
				continue
			}
			f.Analyzer = a.Name()
			result.Findings = append(result.Findings, f)
		}
	}

	slices.SortStableFunc(result.Findings, func(a, b model.Finding) int {
		return cmp.Compare(a.Line, b.Line)
	})

	util.Debug("Analyzed %s: %d findings (took %v)", filename, len(result.Findings), time.Since(start))
	return result
}

// run invokes one analyzer, converting a panic into an error
func (r *Runner) run(a Analyzer, in *Input) (findings []model.Finding, err error) {
	defer func() {
		if p := recover(); p != nil {
			findings, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()
	return a.Analyze(in)
}

func faultFinding(analyzer string, err error) model.Finding {
	f := newFinding(model.CategoryError, 0, model.SeverityHigh,
		fmt.Sprintf("Error analyzing file: %s analyzer: %v", analyzer, err),
		"Please check file content and format")
	f.Analyzer = analyzer
	return f
}

// Accepts reports whether the runner would analyze filename
func (r *Runner) Accepts(filename string) bool {
	return r.policy.Accept(filename)
}

// GetAnalyzer returns an analyzer by name
func (r *Runner) GetAnalyzer(name string) Analyzer {
	for _, a := range r.analyzers {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// ListAnalyzers returns the registered analyzers in run order
func (r *Runner) ListAnalyzers() []Analyzer {
	return slices.Clone(r.analyzers)
}
