package analyzer

import (
	"fmt"
	"strings"

	"review-bot/src/config"
	"review-bot/src/model"
	"review-bot/src/service/pyast"
)

// BestPracticesAnalyzer inspects function, class and import structure.
// Files that fail to parse produce no findings.
type BestPracticesAnalyzer struct {
	cfg config.BestPracticesConfig
}

// NewBestPracticesAnalyzer creates a new best-practices analyzer
func NewBestPracticesAnalyzer(cfg config.BestPracticesConfig) *BestPracticesAnalyzer {
	return &BestPracticesAnalyzer{cfg: cfg}
}

// Name returns the analyzer name
func (a *BestPracticesAnalyzer) Name() string {
	return "best_practices"
}

// Category returns the finding category
func (a *BestPracticesAnalyzer) Category() model.Category {
	return model.CategoryBestPractice
}

// IsEnabled returns whether the analyzer is enabled
func (a *BestPracticesAnalyzer) IsEnabled() bool {
	return a.cfg.Enabled
}

// Analyze runs the structural checks
func (a *BestPracticesAnalyzer) Analyze(in *Input) ([]model.Finding, error) {
	mod, err := in.Module()
	if err != nil || mod == nil {
		return nil, err
	}

	var findings []model.Finding
	pyast.Inspect(mod, func(n pyast.Node) bool {
		switch node := n.(type) {
		case *pyast.FunctionDef:
			findings = append(findings, a.checkFunction(node)...)
		case *pyast.ClassDef:
			findings = append(findings, a.checkClass(node)...)
		case *pyast.ImportFrom:
			if node.Wildcard {
				findings = append(findings, a.createWildcardImportFinding(node))
			}
		}
		return true
	})
	return findings, nil
}

func (a *BestPracticesAnalyzer) checkFunction(fn *pyast.FunctionDef) []model.Finding {
	var findings []model.Finding

	if span := functionSpan(fn); span > a.cfg.MaxFunctionLines {
		findings = append(findings, a.finding(fn.Line, model.SeverityMedium,
			fmt.Sprintf("Function '%s' is too long (%d lines)", fn.Name, span),
			"Consider breaking down the function into smaller, more focused functions"))
	}

	if !hasDocstring(fn.Docstring()) {
		findings = append(findings, a.finding(fn.Line, model.SeverityLow,
			fmt.Sprintf("Function '%s' lacks a docstring", fn.Name),
			"Add a docstring to document the function's purpose, parameters, and return value"))
	}

	if params := fn.NamedParams(); params > a.cfg.MaxParameters {
		findings = append(findings, a.finding(fn.Line, model.SeverityMedium,
			fmt.Sprintf("Function '%s' has too many parameters (%d)", fn.Name, params),
			"Consider grouping related parameters into a class or using keyword arguments"))
	}

	return findings
}

func (a *BestPracticesAnalyzer) checkClass(cls *pyast.ClassDef) []model.Finding {
	var findings []model.Finding

	if !hasDocstring(cls.Docstring()) {
		findings = append(findings, a.finding(cls.Line, model.SeverityLow,
			fmt.Sprintf("Class '%s' lacks a docstring", cls.Name),
			"Add a docstring to document the class's purpose and usage"))
	}

	if bases := len(cls.Bases); bases > a.cfg.MaxBases {
		findings = append(findings, a.finding(cls.Line, model.SeverityMedium,
			fmt.Sprintf("Class '%s' has deep inheritance (%d levels)", cls.Name, bases),
			"Consider composition over inheritance or simplify the class hierarchy"))
	}

	return findings
}

func (a *BestPracticesAnalyzer) createWildcardImportFinding(imp *pyast.ImportFrom) model.Finding {
	return a.finding(imp.Line, model.SeverityMedium,
		"Wildcard import used",
		"Explicitly import only the needed names")
}

func (a *BestPracticesAnalyzer) finding(line int, severity model.Severity, description, suggestion string) model.Finding {
	return newFinding(model.CategoryBestPractice, line, severity, description, suggestion)
}

// functionSpan is the number of lines from the definition to the last line
// any descendant starts on
func functionSpan(fn *pyast.FunctionDef) int {
	last := fn.Line
	pyast.Inspect(fn, func(n pyast.Node) bool {
		last = max(last, n.Pos())
		return true
	})
	for _, p := range fn.Params {
		last = max(last, p.Line)
	}
	return last - fn.Line + 1
}

func hasDocstring(doc string, ok bool) bool {
	return ok && strings.TrimSpace(doc) != ""
}
