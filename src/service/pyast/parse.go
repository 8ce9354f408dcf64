package pyast

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// SyntaxError describes why a source file could not be parsed.
type SyntaxError struct {
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (line %d)", e.Message, e.Line)
}

// ParseResult holds either a module or the syntax error that prevented one.
type ParseResult struct {
	Module *Module
	Syntax *SyntaxError
}

// OK reports whether the source parsed cleanly.
func (r *ParseResult) OK() bool {
	return r != nil && r.Syntax == nil && r.Module != nil
}

// Parse parses Python source. Malformed input is reported through
// ParseResult.Syntax; the error return is reserved for parser faults.
func Parse(src []byte) (*ParseResult, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	if tree == nil {
		return nil, errors.New("tree-sitter returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return &ParseResult{Syntax: firstSyntaxError(root, src)}, nil
	}
	if syntax := validate(root, src); syntax != nil {
		return &ParseResult{Syntax: syntax}, nil
	}

	l := &lowerer{src: src}
	return &ParseResult{Module: l.module(root)}, nil
}

// firstSyntaxError returns the first ERROR or MISSING node in document order.
func firstSyntaxError(root *sitter.Node, src []byte) *SyntaxError {
	var found *SyntaxError
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if found != nil || n == nil {
			return
		}
		switch {
		case n.IsMissing():
			found = &SyntaxError{
				Line:    lineOf(n.StartPoint()),
				Message: fmt.Sprintf("invalid syntax: missing '%s'", n.Type()),
			}
			return
		case n.Type() == "ERROR":
			found = &SyntaxError{
				Line:    lineOf(n.StartPoint()),
				Message: errorMessage(n.Content(src)),
			}
			return
		case !n.HasError():
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(root)

	if found == nil {
		found = &SyntaxError{Line: 1, Message: "invalid syntax"}
	}
	return found
}

func errorMessage(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if text == "" {
		return "invalid syntax"
	}
	const maxSnippet = 40
	if len(text) > maxSnippet {
		text = text[:maxSnippet] + "..."
	}
	return fmt.Sprintf("invalid syntax near '%s'", text)
}

func lineOf(p sitter.Point) int {
	row, err := safecast.Conv[int](p.Row)
	if err != nil {
		panic(fmt.Errorf("row overflow: %w", err))
	}
	return row + 1
}

func spanOf(n *sitter.Node) span {
	return span{Line: lineOf(n.StartPoint()), EndLine: lineOf(n.EndPoint())}
}

// lowerer converts the tree-sitter concrete tree into Nodes.
type lowerer struct {
	src []byte
}

func (l *lowerer) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(l.src)
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// hasToken reports whether n has an anonymous child token tok, e.g. "async".
func hasToken(n *sitter.Node, tok string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && !c.IsNamed() && c.Type() == tok {
			return true
		}
	}
	return false
}

func (l *lowerer) module(n *sitter.Node) *Module {
	return &Module{span: spanOf(n), Body: l.nodes(namedChildren(n))}
}

func (l *lowerer) nodes(ns []*sitter.Node) []Node {
	out := make([]Node, 0, len(ns))
	for _, c := range ns {
		if x := l.node(c); x != nil {
			out = append(out, x)
		}
	}
	return out
}

func (l *lowerer) block(n *sitter.Node) []Node {
	if n == nil {
		return nil
	}
	if n.Type() == "block" {
		return l.nodes(namedChildren(n))
	}
	return l.nodes([]*sitter.Node{n})
}

func (l *lowerer) node(n *sitter.Node) Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "comment", "parameters", "lambda_parameters", "type_parameter",
		"positional_separator", "keyword_separator":
		return nil
	case "decorated_definition":
		return l.decorated(n)
	case "function_definition":
		return l.function(n, nil)
	case "class_definition":
		return l.class(n, nil)
	case "import_statement":
		return l.importStmt(n)
	case "import_from_statement":
		return l.importFrom(n)
	case "future_import_statement":
		return l.futureImport(n)
	case "expression_statement":
		return l.exprStmt(n)
	case "type_alias_statement":
		return l.typeAlias(n)
	case "assignment", "augmented_assignment":
		return l.assign(n)
	case "for_statement":
		return l.forStmt(n)
	case "global_statement", "nonlocal_statement":
		return &Generic{span: spanOf(n), Type: n.Type()}
	case "delete_statement":
		g := &Generic{span: spanOf(n), Type: n.Type()}
		for _, c := range namedChildren(n) {
			g.Children = appendNodes(g.Children, l.target(c, Del))
		}
		return g
	case "except_clause":
		return l.exceptClause(n)
	case "case_pattern":
		return l.pattern(n)
	case "identifier":
		return &Name{span: spanOf(n), ID: l.text(n), Ctx: Load}
	case "dotted_name":
		kids := namedChildren(n)
		if len(kids) == 0 {
			return nil
		}
		return &Name{span: spanOf(kids[0]), ID: l.text(kids[0]), Ctx: Load}
	case "attribute":
		return &Attribute{
			span:  spanOf(n),
			Value: l.node(n.ChildByFieldName("object")),
			Attr:  l.text(n.ChildByFieldName("attribute")),
		}
	case "call":
		return l.call(n)
	case "keyword_argument":
		g := &Generic{span: spanOf(n), Type: n.Type()}
		g.Children = appendNodes(g.Children, l.node(n.ChildByFieldName("value")))
		return g
	case "lambda":
		return l.lambda(n)
	case "list_comprehension":
		return l.comprehension(n, ListComp)
	case "set_comprehension":
		return l.comprehension(n, SetComp)
	case "dictionary_comprehension":
		return l.comprehension(n, DictComp)
	case "generator_expression":
		return l.comprehension(n, GeneratorExp)
	case "named_expression":
		return l.namedExpr(n)
	case "as_pattern":
		return l.asPattern(n)
	case "with_item":
		alias := n.ChildByFieldName("alias")
		if alias == nil {
			break
		}
		g := &Generic{span: spanOf(n), Type: n.Type()}
		g.Children = appendNodes(g.Children,
			l.node(n.ChildByFieldName("value")),
			l.target(alias, Store))
		return g
	case "string":
		return l.str(n)
	case "concatenated_string":
		return l.concatenated(n)
	case "integer", "float", "true", "false", "none", "ellipsis":
		return &Constant{span: spanOf(n), Kind: ConstOther, Value: l.text(n)}
	}
	return &Generic{span: spanOf(n), Type: n.Type(), Children: l.nodes(namedChildren(n))}
}

func (l *lowerer) decorated(n *sitter.Node) Node {
	var decorators []Node
	for _, c := range namedChildren(n) {
		if c.Type() == "decorator" {
			decorators = append(decorators, l.nodes(namedChildren(c))...)
		}
	}
	def := n.ChildByFieldName("definition")
	if def == nil {
		return &Generic{span: spanOf(n), Type: n.Type(), Children: decorators}
	}
	switch def.Type() {
	case "function_definition":
		return l.function(def, decorators)
	case "class_definition":
		return l.class(def, decorators)
	}
	return &Generic{span: spanOf(n), Type: n.Type(), Children: appendNodes(decorators, l.node(def))}
}

func (l *lowerer) function(n *sitter.Node, decorators []Node) *FunctionDef {
	f := &FunctionDef{
		span:       spanOf(n),
		Name:       l.text(n.ChildByFieldName("name")),
		Async:      hasToken(n, "async"),
		Decorators: decorators,
		TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
		Params:     l.params(n.ChildByFieldName("parameters")),
		Returns:    l.node(n.ChildByFieldName("return_type")),
		Body:       l.block(n.ChildByFieldName("body")),
	}
	return f
}

func (l *lowerer) lambda(n *sitter.Node) *Lambda {
	return &Lambda{
		span:   spanOf(n),
		Params: l.params(n.ChildByFieldName("parameters")),
		Body:   l.node(n.ChildByFieldName("body")),
	}
}

func (l *lowerer) params(n *sitter.Node) []*Param {
	var out []*Param
	for _, c := range namedChildren(n) {
		if p := l.param(c); p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (l *lowerer) param(n *sitter.Node) *Param {
	switch n.Type() {
	case "identifier":
		return &Param{Name: l.text(n), Line: lineOf(n.StartPoint())}
	case "typed_parameter":
		var p *Param
		for _, c := range namedChildren(n) {
			if c.Type() != "type" {
				p = l.param(c)
				break
			}
		}
		if p != nil {
			p.Annotation = l.node(n.ChildByFieldName("type"))
		}
		return p
	case "default_parameter", "typed_default_parameter":
		return &Param{
			Name:       l.text(n.ChildByFieldName("name")),
			Line:       lineOf(n.StartPoint()),
			Default:    l.node(n.ChildByFieldName("value")),
			Annotation: l.node(n.ChildByFieldName("type")),
		}
	case "list_splat_pattern", "dictionary_splat_pattern":
		for _, c := range namedChildren(n) {
			if c.Type() == "identifier" {
				return &Param{Name: l.text(c), Line: lineOf(c.StartPoint()), Variadic: true}
			}
		}
	}
	return nil
}

func (l *lowerer) class(n *sitter.Node, decorators []Node) *ClassDef {
	c := &ClassDef{
		span:       spanOf(n),
		Name:       l.text(n.ChildByFieldName("name")),
		Decorators: decorators,
		TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
	}
	for _, a := range namedChildren(n.ChildByFieldName("superclasses")) {
		switch a.Type() {
		case "keyword_argument":
			c.Keywords = append(c.Keywords, l.keyword(a))
		case "dictionary_splat":
			c.Keywords = append(c.Keywords, &Keyword{Value: l.node(a)})
		default:
			if x := l.node(a); x != nil {
				c.Bases = append(c.Bases, x)
			}
		}
	}
	c.Body = l.block(n.ChildByFieldName("body"))
	return c
}

// typeParams returns the names declared by a PEP 695 type parameter list.
func (l *lowerer) typeParams(n *sitter.Node) []string {
	var names []string
	for _, c := range namedChildren(n) {
		if id := firstIdentifier(c); id != nil {
			names = append(names, l.text(id))
		}
	}
	return names
}

func firstIdentifier(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "identifier" {
		return n
	}
	for _, c := range namedChildren(n) {
		if id := firstIdentifier(c); id != nil {
			return id
		}
	}
	return nil
}

func findChild(n *sitter.Node, typ string) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == typ {
		return n
	}
	for _, c := range namedChildren(n) {
		if found := findChild(c, typ); found != nil {
			return found
		}
	}
	return nil
}

func (l *lowerer) typeAlias(n *sitter.Node) Node {
	kids := namedChildren(n)
	left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
	if left == nil && len(kids) > 0 {
		left = kids[0]
	}
	if right == nil && len(kids) > 1 {
		right = kids[len(kids)-1]
	}

	id := firstIdentifier(left)
	if id == nil {
		return &Generic{span: spanOf(n), Type: n.Type(), Children: l.nodes(kids)}
	}
	return &TypeAlias{
		span:       spanOf(n),
		Name:       &Name{span: spanOf(id), ID: l.text(id), Ctx: Store},
		TypeParams: l.typeParams(findChild(left, "type_parameter")),
		Value:      l.node(right),
	}
}

func (l *lowerer) keyword(n *sitter.Node) *Keyword {
	return &Keyword{
		Name:  l.text(n.ChildByFieldName("name")),
		Value: l.node(n.ChildByFieldName("value")),
	}
}

func (l *lowerer) alias(n *sitter.Node) Alias {
	if n.Type() == "aliased_import" {
		return Alias{
			Name:   l.text(n.ChildByFieldName("name")),
			AsName: l.text(n.ChildByFieldName("alias")),
		}
	}
	return Alias{Name: l.text(n)}
}

func (l *lowerer) importStmt(n *sitter.Node) *Import {
	im := &Import{span: spanOf(n)}
	for _, c := range namedChildren(n) {
		im.Names = append(im.Names, l.alias(c))
	}
	return im
}

func (l *lowerer) importFrom(n *sitter.Node) *ImportFrom {
	im := &ImportFrom{span: spanOf(n)}
	kids := namedChildren(n)
	if len(kids) > 0 {
		im.Module = l.text(kids[0])
		kids = kids[1:]
	}
	for _, c := range kids {
		if c.Type() == "wildcard_import" {
			im.Wildcard = true
			continue
		}
		im.Names = append(im.Names, l.alias(c))
	}
	return im
}

func (l *lowerer) futureImport(n *sitter.Node) *ImportFrom {
	im := &ImportFrom{span: spanOf(n), Module: "__future__"}
	for _, c := range namedChildren(n) {
		im.Names = append(im.Names, l.alias(c))
	}
	return im
}

func (l *lowerer) exprStmt(n *sitter.Node) Node {
	kids := namedChildren(n)
	if len(kids) == 1 {
		switch kids[0].Type() {
		case "assignment", "augmented_assignment":
			return l.assign(kids[0])
		}
		return &ExprStmt{span: spanOf(n), Value: l.node(kids[0])}
	}
	return &ExprStmt{
		span:  spanOf(n),
		Value: &Generic{span: spanOf(n), Type: "expression_list", Children: l.nodes(kids)},
	}
}

func (l *lowerer) assign(n *sitter.Node) *Assign {
	a := &Assign{span: spanOf(n), Op: "="}
	if n.Type() == "augmented_assignment" {
		a.Op = l.text(n.ChildByFieldName("operator"))
	}
	for cur := n; cur != nil; {
		a.Targets = appendNodes(a.Targets, l.target(cur.ChildByFieldName("left"), Store))
		if a.Annotation == nil {
			a.Annotation = l.node(cur.ChildByFieldName("type"))
		}
		right := cur.ChildByFieldName("right")
		if right != nil && right.Type() == "assignment" {
			cur = right
			continue
		}
		a.Value = l.node(right)
		cur = nil
	}
	return a
}

// target lowers an expression in binding position.
func (l *lowerer) target(n *sitter.Node, ctx ExprContext) Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier":
		return &Name{span: spanOf(n), ID: l.text(n), Ctx: ctx}
	case "pattern_list", "tuple_pattern", "list_pattern", "tuple", "list",
		"expression_list", "parenthesized_expression", "list_splat_pattern", "list_splat":
		g := &Generic{span: spanOf(n), Type: n.Type()}
		for _, c := range namedChildren(n) {
			g.Children = appendNodes(g.Children, l.target(c, ctx))
		}
		return g
	case "as_pattern_target":
		kids := namedChildren(n)
		if len(kids) == 0 {
			return &Name{span: spanOf(n), ID: l.text(n), Ctx: ctx}
		}
		g := &Generic{span: spanOf(n), Type: n.Type()}
		for _, c := range kids {
			g.Children = appendNodes(g.Children, l.target(c, ctx))
		}
		return g
	}
	return l.node(n)
}

func (l *lowerer) forStmt(n *sitter.Node) *For {
	f := &For{
		span:   spanOf(n),
		Async:  hasToken(n, "async"),
		Target: l.target(n.ChildByFieldName("left"), Store),
		Iter:   l.node(n.ChildByFieldName("right")),
		Body:   l.block(n.ChildByFieldName("body")),
	}
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		f.Else = l.block(alt.ChildByFieldName("body"))
	}
	return f
}

func (l *lowerer) comprehension(n *sitter.Node, kind ComprehensionKind) *Comprehension {
	c := &Comprehension{span: spanOf(n), Kind: kind}
	if body := n.ChildByFieldName("body"); body != nil {
		if body.Type() == "pair" {
			c.Elts = appendNodes(c.Elts,
				l.node(body.ChildByFieldName("key")),
				l.node(body.ChildByFieldName("value")))
		} else {
			c.Elts = appendNodes(c.Elts, l.node(body))
		}
	}
	for _, k := range namedChildren(n) {
		switch k.Type() {
		case "for_in_clause":
			c.Generators = append(c.Generators, l.compFor(k))
		case "if_clause":
			if len(c.Generators) > 0 {
				last := c.Generators[len(c.Generators)-1]
				last.Ifs = append(last.Ifs, l.nodes(namedChildren(k))...)
			}
		}
	}
	return c
}

func (l *lowerer) compFor(n *sitter.Node) *CompFor {
	g := &CompFor{Async: hasToken(n, "async")}
	kids := namedChildren(n)
	if len(kids) == 0 {
		return g
	}
	g.Target = l.target(kids[0], Store)
	switch iters := kids[1:]; len(iters) {
	case 0:
	case 1:
		g.Iter = l.node(iters[0])
	default:
		g.Iter = &Generic{span: spanOf(iters[0]), Type: "expression_list", Children: l.nodes(iters)}
	}
	return g
}

func (l *lowerer) call(n *sitter.Node) *Call {
	c := &Call{span: spanOf(n), Func: l.node(n.ChildByFieldName("function"))}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return c
	}
	if args.Type() == "generator_expression" {
		c.Args = appendNodes(c.Args, l.node(args))
		return c
	}
	for _, a := range namedChildren(args) {
		switch a.Type() {
		case "keyword_argument":
			c.Keywords = append(c.Keywords, l.keyword(a))
		case "dictionary_splat":
			c.Keywords = append(c.Keywords, &Keyword{Value: l.node(a)})
		default:
			c.Args = appendNodes(c.Args, l.node(a))
		}
	}
	return c
}

func (l *lowerer) namedExpr(n *sitter.Node) Node {
	e := &NamedExpr{span: spanOf(n), Value: l.node(n.ChildByFieldName("value"))}
	if name := n.ChildByFieldName("name"); name != nil {
		e.Target = &Name{span: spanOf(name), ID: l.text(name), Ctx: Store}
	}
	return e
}

// asPattern lowers "value as alias" so that the value is visited before the
// alias is bound.
func (l *lowerer) asPattern(n *sitter.Node) Node {
	g := &Generic{span: spanOf(n), Type: n.Type()}
	kids := namedChildren(n)
	for i, c := range kids {
		if i == 0 {
			g.Children = appendNodes(g.Children, l.node(c))
			continue
		}
		g.Children = appendNodes(g.Children, l.target(c, Store))
	}
	return g
}

func (l *lowerer) exceptClause(n *sitter.Node) Node {
	g := &Generic{span: spanOf(n), Type: n.Type()}
	afterAs := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if !c.IsNamed() {
			if c.Type() == "as" {
				afterAs = true
			}
			continue
		}
		if c.Type() == "comment" {
			continue
		}
		if afterAs && c.Type() != "block" {
			g.Children = appendNodes(g.Children, l.target(c, Store))
			afterAs = false
			continue
		}
		g.Children = appendNodes(g.Children, l.node(c))
	}
	return g
}

// pattern lowers a match-case pattern: bare names capture, dotted names are
// value references.
func (l *lowerer) pattern(n *sitter.Node) Node {
	switch n.Type() {
	case "identifier":
		return &Name{span: spanOf(n), ID: l.text(n), Ctx: Store}
	case "dotted_name":
		kids := namedChildren(n)
		if len(kids) == 1 {
			return &Name{span: spanOf(kids[0]), ID: l.text(kids[0]), Ctx: Store}
		}
		return l.node(n)
	case "class_pattern":
		g := &Generic{span: spanOf(n), Type: n.Type()}
		for i, c := range namedChildren(n) {
			if i == 0 {
				g.Children = appendNodes(g.Children, l.node(c))
				continue
			}
			g.Children = appendNodes(g.Children, l.pattern(c))
		}
		return g
	case "keyword_pattern":
		g := &Generic{span: spanOf(n), Type: n.Type()}
		for i, c := range namedChildren(n) {
			if i == 0 {
				continue
			}
			g.Children = appendNodes(g.Children, l.pattern(c))
		}
		return g
	case "string", "concatenated_string", "integer", "float", "true", "false", "none":
		return l.node(n)
	}
	g := &Generic{span: spanOf(n), Type: n.Type()}
	for _, c := range namedChildren(n) {
		g.Children = appendNodes(g.Children, l.pattern(c))
	}
	return g
}

func (l *lowerer) str(n *sitter.Node) *Constant {
	raw := l.text(n)
	c := &Constant{span: spanOf(n), Kind: ConstString}
	prefix, body := splitStringPrefix(raw)
	if strings.ContainsAny(prefix, "fF") {
		c.Kind = ConstFString
	}
	c.Value = body
	for _, k := range namedChildren(n) {
		if k.Type() == "interpolation" {
			c.Parts = appendNodes(c.Parts, l.node(k))
		}
	}
	return c
}

func (l *lowerer) concatenated(n *sitter.Node) *Constant {
	c := &Constant{span: spanOf(n), Kind: ConstString}
	var sb strings.Builder
	for _, k := range namedChildren(n) {
		if k.Type() != "string" {
			continue
		}
		part := l.str(k)
		if part.Kind == ConstFString {
			c.Kind = ConstFString
		}
		sb.WriteString(part.Value)
		c.Parts = append(c.Parts, part.Parts...)
	}
	c.Value = sb.String()
	return c
}

// splitStringPrefix separates the prefix letters of a string literal from its
// unquoted body.
func splitStringPrefix(raw string) (prefix, body string) {
	i := strings.IndexAny(raw, `"'`)
	if i < 0 {
		return "", raw
	}
	prefix, rest := raw[:i], raw[i:]
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(rest) >= 2*len(q) && strings.HasPrefix(rest, q) && strings.HasSuffix(rest, q) {
			return prefix, rest[len(q) : len(rest)-len(q)]
		}
	}
	return prefix, rest
}
