package analyzer

import (
	"fmt"

	"review-bot/src/config"
	"review-bot/src/model"
	"review-bot/src/service/pyast"
)

// PerformanceAnalyzer matches known inefficient syntactic patterns.
// Files that fail to parse produce no findings.
type PerformanceAnalyzer struct {
	cfg config.PerformanceConfig
}

// NewPerformanceAnalyzer creates a new performance analyzer
func NewPerformanceAnalyzer(cfg config.PerformanceConfig) *PerformanceAnalyzer {
	return &PerformanceAnalyzer{cfg: cfg}
}

// Name returns the analyzer name
func (a *PerformanceAnalyzer) Name() string {
	return "performance"
}

// Category returns the finding category
func (a *PerformanceAnalyzer) Category() model.Category {
	return model.CategoryPerformance
}

// IsEnabled returns whether the analyzer is enabled
func (a *PerformanceAnalyzer) IsEnabled() bool {
	return a.cfg.Enabled
}

// Analyze runs the pattern checks
func (a *PerformanceAnalyzer) Analyze(in *Input) ([]model.Finding, error) {
	mod, err := in.Module()
	if err != nil || mod == nil {
		return nil, err
	}

	var findings []model.Finding
	pyast.Inspect(mod, func(n pyast.Node) bool {
		switch node := n.(type) {
		case *pyast.For:
			if isAppendLoop(node) {
				findings = append(findings, a.createAppendLoopFinding(node))
			}
		case *pyast.Call:
			if isRangeLen(node) {
				findings = append(findings, a.createRangeLenFinding(node))
			}
		case *pyast.Comprehension:
			if isNestedComprehension(node) {
				findings = append(findings, a.createNestedComprehensionFinding(node))
			}
		}
		return true
	})
	return findings, nil
}

// isAppendLoop matches a loop whose body is a single x.append(...) call
func isAppendLoop(f *pyast.For) bool {
	if len(f.Body) != 1 {
		return false
	}
	stmt, ok := f.Body[0].(*pyast.ExprStmt)
	if !ok {
		return false
	}
	call, ok := stmt.Value.(*pyast.Call)
	if !ok {
		return false
	}
	attr, ok := call.Func.(*pyast.Attribute)
	return ok && attr.Attr == "append"
}

// isRangeLen matches range(len(x))
func isRangeLen(c *pyast.Call) bool {
	if !isCallTo(c, "range") || len(c.Args) != 1 || len(c.Keywords) != 0 {
		return false
	}
	inner, ok := c.Args[0].(*pyast.Call)
	return ok && isCallTo(inner, "len")
}

func isCallTo(c *pyast.Call, name string) bool {
	fn, ok := c.Func.(*pyast.Name)
	return ok && fn.ID == name
}

// isNestedComprehension matches a comprehension iterating over another
// comprehension
func isNestedComprehension(c *pyast.Comprehension) bool {
	for _, g := range c.Generators {
		if _, ok := unparen(g.Iter).(*pyast.Comprehension); ok {
			return true
		}
	}
	return false
}

func unparen(n pyast.Node) pyast.Node {
	for {
		g, ok := n.(*pyast.Generic)
		if !ok || g.Type != "parenthesized_expression" || len(g.Children) != 1 {
			return n
		}
		n = g.Children[0]
	}
}

func (a *PerformanceAnalyzer) createAppendLoopFinding(f *pyast.For) model.Finding {
	return newFinding(model.CategoryPerformance, f.Line, model.SeverityLow,
		"For loop could be replaced with list comprehension",
		"Consider using a list comprehension for better performance")
}

func (a *PerformanceAnalyzer) createRangeLenFinding(c *pyast.Call) model.Finding {
	return newFinding(model.CategoryPerformance, c.Line, model.SeverityLow,
		"Inefficient range(len()) pattern detected",
		"Use 'enumerate()' instead of range(len())")
}

func (a *PerformanceAnalyzer) createNestedComprehensionFinding(c *pyast.Comprehension) model.Finding {
	return newFinding(model.CategoryPerformance, c.Line, model.SeverityMedium,
		fmt.Sprintf("Nested %s detected", c.Kind),
		"Consider using regular loops for better readability and possibly better performance")
}
