package pyast

// Inspect traverses the tree rooted at node depth-first in source order,
// calling f for each node. Children are skipped when f returns false.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, c := range Children(node) {
		Inspect(c, f)
	}
}

// Children returns the direct children of node in source order.
func Children(node Node) []Node {
	var out []Node
	switch n := node.(type) {
	case *Module:
		out = appendNodes(out, n.Body...)
	case *FunctionDef:
		out = appendNodes(out, n.Decorators...)
		out = appendParams(out, n.Params)
		out = appendNodes(out, n.Returns)
		out = appendNodes(out, n.Body...)
	case *Lambda:
		out = appendParams(out, n.Params)
		out = appendNodes(out, n.Body)
	case *ClassDef:
		out = appendNodes(out, n.Decorators...)
		out = appendNodes(out, n.Bases...)
		out = appendKeywords(out, n.Keywords)
		out = appendNodes(out, n.Body...)
	case *Attribute:
		out = appendNodes(out, n.Value)
	case *Call:
		out = appendNodes(out, n.Func)
		out = appendNodes(out, n.Args...)
		out = appendKeywords(out, n.Keywords)
	case *For:
		out = appendNodes(out, n.Target, n.Iter)
		out = appendNodes(out, n.Body...)
		out = appendNodes(out, n.Else...)
	case *Comprehension:
		out = appendNodes(out, n.Elts...)
		for _, g := range n.Generators {
			out = appendNodes(out, g.Target, g.Iter)
			out = appendNodes(out, g.Ifs...)
		}
	case *ExprStmt:
		out = appendNodes(out, n.Value)
	case *Assign:
		out = appendNodes(out, n.Targets...)
		out = appendNodes(out, n.Annotation, n.Value)
	case *TypeAlias:
		if n.Name != nil {
			out = append(out, n.Name)
		}
		out = appendNodes(out, n.Value)
	case *NamedExpr:
		if n.Target != nil {
			out = append(out, n.Target)
		}
		out = appendNodes(out, n.Value)
	case *Constant:
		out = appendNodes(out, n.Parts...)
	case *Generic:
		out = appendNodes(out, n.Children...)
	}
	return out
}

func appendNodes(out []Node, nodes ...Node) []Node {
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func appendParams(out []Node, params []*Param) []Node {
	for _, p := range params {
		out = appendNodes(out, p.Annotation, p.Default)
	}
	return out
}

func appendKeywords(out []Node, kws []*Keyword) []Node {
	for _, k := range kws {
		out = appendNodes(out, k.Value)
	}
	return out
}
