package analyzer

import (
	"fmt"

	"review-bot/src/config"
	"review-bot/src/model"
	"review-bot/src/service/pyast"
)

// BugAnalyzer reports syntax errors and reads of names that are never bound.
// It is a single-pass, whole-file heuristic: names bound conditionally or in
// other files are not tracked.
type BugAnalyzer struct {
	enabled bool
	known   KnownNames
}

// NewBugAnalyzer creates a new bug analyzer from config
func NewBugAnalyzer(cfg config.BugsConfig) *BugAnalyzer {
	return NewBugAnalyzerWithNames(cfg.Enabled, KnownNames{
		Builtins: PythonBuiltins().Union(cfg.ExtraBuiltins...),
		Assumed:  NewNameSet(cfg.AssumedNames...),
	})
}

// NewBugAnalyzerWithNames creates a bug analyzer with explicit allowlists
func NewBugAnalyzerWithNames(enabled bool, known KnownNames) *BugAnalyzer {
	return &BugAnalyzer{enabled: enabled, known: known}
}

// Name returns the analyzer name
func (a *BugAnalyzer) Name() string {
	return "bugs"
}

// Category returns the finding category
func (a *BugAnalyzer) Category() model.Category {
	return model.CategoryBug
}

// IsEnabled returns whether the analyzer is enabled
func (a *BugAnalyzer) IsEnabled() bool {
	return a.enabled
}

// Analyze reports one critical finding if the file does not parse, otherwise
// one finding per read of an undefined name
func (a *BugAnalyzer) Analyze(in *Input) ([]model.Finding, error) {
	res, err := in.AST()
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return []model.Finding{syntaxFinding(res.Syntax)}, nil
	}

	c := &bugChecker{known: a.known, declared: map[string]struct{}{}}
	c.collectDefinitions(res.Module)
	c.scopes.Push()
	c.visitAll(res.Module.Body)
	c.scopes.Pop()
	return c.findings, nil
}

func syntaxFinding(se *pyast.SyntaxError) model.Finding {
	line, msg := 1, "invalid syntax"
	if se != nil {
		if se.Line > 0 {
			line = se.Line
		}
		if se.Message != "" {
			msg = se.Message
		}
	}
	return newFinding(model.CategoryBug, line, model.SeverityCritical,
		fmt.Sprintf("Syntax error: %s (line %d)", msg, line),
		"Fix the syntax error to allow analysis")
}

// bugChecker holds the state of one traversal
type bugChecker struct {
	known    KnownNames
	declared map[string]struct{}
	scopes   ScopeStack
	findings []model.Finding
}

// collectDefinitions registers every function and class name in the file
func (c *bugChecker) collectDefinitions(mod *pyast.Module) {
	pyast.Inspect(mod, func(n pyast.Node) bool {
		switch d := n.(type) {
		case *pyast.FunctionDef:
			c.declared[d.Name] = struct{}{}
		case *pyast.ClassDef:
			c.declared[d.Name] = struct{}{}
		}
		return true
	})
}

func (c *bugChecker) isDefined(name string) bool {
	if c.scopes.Lookup(name) {
		return true
	}
	if _, ok := c.declared[name]; ok {
		return true
	}
	return c.known.Contains(name)
}

func (c *bugChecker) visitAll(nodes []pyast.Node) {
	for _, n := range nodes {
		c.visit(n)
	}
}

func (c *bugChecker) visit(node pyast.Node) {
	switch n := node.(type) {
	case nil:
		return

	case *pyast.Name:
		switch n.Ctx {
		case pyast.Store:
			c.scopes.Bind(n.ID)
		case pyast.Load:
			if !c.isDefined(n.ID) {
				c.findings = append(c.findings, newFinding(model.CategoryBug, n.Line, model.SeverityHigh,
					fmt.Sprintf("Potential use of undefined variable '%s'", n.ID),
					fmt.Sprintf("Ensure '%s' is defined before use", n.ID)))
			}
		}

	case *pyast.FunctionDef:
		c.visitAll(n.Decorators)
		c.scopes.Bind(n.Name)
		typeScope := c.pushTypeParams(n.TypeParams)
		c.visitParamExprs(n.Params)
		c.visit(n.Returns)
		c.scopes.Push()
		c.bindParams(n.Params)
		c.visitAll(n.Body)
		c.scopes.Pop()
		if typeScope {
			c.scopes.Pop()
		}

	case *pyast.Lambda:
		c.visitParamExprs(n.Params)
		c.scopes.Push()
		c.bindParams(n.Params)
		c.visit(n.Body)
		c.scopes.Pop()

	case *pyast.ClassDef:
		c.visitAll(n.Decorators)
		c.scopes.Bind(n.Name)
		typeScope := c.pushTypeParams(n.TypeParams)
		c.visitAll(n.Bases)
		for _, kw := range n.Keywords {
			c.visit(kw.Value)
		}
		c.scopes.Push()
		c.visitAll(n.Body)
		c.scopes.Pop()
		if typeScope {
			c.scopes.Pop()
		}

	case *pyast.TypeAlias:
		c.visit(n.Name)
		typeScope := c.pushTypeParams(n.TypeParams)
		c.visit(n.Value)
		if typeScope {
			c.scopes.Pop()
		}

	case *pyast.Import:
		for _, alias := range n.Names {
			c.scopes.Bind(alias.Bound())
		}

	case *pyast.ImportFrom:
		for _, alias := range n.Names {
			c.scopes.Bind(alias.Bound())
		}

	case *pyast.Assign:
		c.visit(n.Annotation)
		c.visit(n.Value)
		c.visitAll(n.Targets)

	case *pyast.NamedExpr:
		c.visit(n.Value)
		if n.Target != nil {
			c.scopes.BindOuter(n.Target.ID)
		}

	case *pyast.For:
		c.visit(n.Iter)
		c.visit(n.Target)
		c.visitAll(n.Body)
		c.visitAll(n.Else)

	case *pyast.Comprehension:
		c.scopes.PushComprehension()
		for _, g := range n.Generators {
			c.visit(g.Iter)
			c.visit(g.Target)
			c.visitAll(g.Ifs)
		}
		c.visitAll(n.Elts)
		c.scopes.Pop()

	default:
		c.visitAll(pyast.Children(node))
	}
}

func (c *bugChecker) visitParamExprs(params []*pyast.Param) {
	for _, p := range params {
		c.visit(p.Annotation)
		c.visit(p.Default)
	}
}

// pushTypeParams opens a scope holding PEP 695 type parameters. It reports
// whether a scope was pushed.
func (c *bugChecker) pushTypeParams(names []string) bool {
	if len(names) == 0 {
		return false
	}
	c.scopes.Push()
	for _, name := range names {
		c.scopes.Bind(name)
	}
	return true
}

func (c *bugChecker) bindParams(params []*pyast.Param) {
	for _, p := range params {
		c.scopes.Bind(p.Name)
	}
}
