// Package pyast parses Python source with tree-sitter and lowers the concrete
// tree into the small syntax tree the analyzers walk.
package pyast

import "strings"

// Node is implemented by every syntax tree node.
type Node interface {
	// Pos returns the 1-based line the node starts on
	Pos() int
	// End returns the 1-based line the node ends on
	End() int
}

type span struct {
	Line    int
	EndLine int
}

func (s span) Pos() int { return s.Line }
func (s span) End() int { return s.EndLine }

// ExprContext classifies how a name is used.
type ExprContext int

const (
	Load ExprContext = iota
	Store
	Del
)

func (c ExprContext) String() string {
	switch c {
	case Store:
		return "store"
	case Del:
		return "del"
	default:
		return "load"
	}
}

// Module is the root of a parsed file.
type Module struct {
	span
	Body []Node
}

// Param is a single function or lambda parameter.
type Param struct {
	Name       string
	Line       int
	Variadic   bool // *args or **kwargs
	Default    Node
	Annotation Node
}

// FunctionDef is a def or async def statement.
type FunctionDef struct {
	span
	Name       string
	Async      bool
	Decorators []Node
	TypeParams []string
	Params     []*Param
	Returns    Node
	Body       []Node
}

// Docstring returns the function docstring, if any.
func (f *FunctionDef) Docstring() (string, bool) {
	return docstring(f.Body)
}

// NamedParams counts parameters excluding *args and **kwargs.
func (f *FunctionDef) NamedParams() int {
	n := 0
	for _, p := range f.Params {
		if !p.Variadic {
			n++
		}
	}
	return n
}

// Lambda is an anonymous function expression.
type Lambda struct {
	span
	Params []*Param
	Body   Node
}

// ClassDef is a class statement.
type ClassDef struct {
	span
	Name       string
	Decorators []Node
	TypeParams []string
	Bases      []Node
	Keywords   []*Keyword
	Body       []Node
}

// Docstring returns the class docstring, if any.
func (c *ClassDef) Docstring() (string, bool) {
	return docstring(c.Body)
}

// Alias is one imported name with its optional "as" name.
type Alias struct {
	Name   string
	AsName string
}

// Bound returns the name the import binds in the importing scope.
// "import a.b" binds "a".
func (a Alias) Bound() string {
	if a.AsName != "" {
		return a.AsName
	}
	if i := strings.IndexByte(a.Name, '.'); i >= 0 {
		return a.Name[:i]
	}
	return a.Name
}

// Import is an "import x" statement.
type Import struct {
	span
	Names []Alias
}

// ImportFrom is a "from m import x" statement.
type ImportFrom struct {
	span
	Module   string
	Names    []Alias
	Wildcard bool
}

// Name is an identifier reference.
type Name struct {
	span
	ID  string
	Ctx ExprContext
}

// Attribute is a member access. Attr is not a name reference.
type Attribute struct {
	span
	Value Node
	Attr  string
}

// Keyword is a keyword argument. Name is empty for **kwargs.
type Keyword struct {
	Name  string
	Value Node
}

// Call is a call expression.
type Call struct {
	span
	Func     Node
	Args     []Node
	Keywords []*Keyword
}

// For is a for or async for loop.
type For struct {
	span
	Async  bool
	Target Node
	Iter   Node
	Body   []Node
	Else   []Node
}

// ComprehensionKind distinguishes the comprehension forms.
type ComprehensionKind int

const (
	ListComp ComprehensionKind = iota
	SetComp
	DictComp
	GeneratorExp
)

func (k ComprehensionKind) String() string {
	switch k {
	case SetComp:
		return "set comprehension"
	case DictComp:
		return "dict comprehension"
	case GeneratorExp:
		return "generator expression"
	default:
		return "list comprehension"
	}
}

// CompFor is one "for ... in ... if ..." clause of a comprehension.
type CompFor struct {
	Async  bool
	Target Node
	Iter   Node
	Ifs    []Node
}

// Comprehension is a list, set or dict comprehension or a generator expression.
// Elts holds the element expression, or key and value for dict comprehensions.
type Comprehension struct {
	span
	Kind       ComprehensionKind
	Elts       []Node
	Generators []*CompFor
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	span
	Value Node
}

// Assign covers plain, chained, augmented and annotated assignment.
type Assign struct {
	span
	Targets    []Node
	Value      Node
	Annotation Node
	Op         string
}

// TypeAlias is a type statement (type Vec[T] = list[T]). The value is
// evaluated lazily, so it may refer to the alias and its type parameters.
type TypeAlias struct {
	span
	Name       *Name
	TypeParams []string
	Value      Node
}

// NamedExpr is an assignment expression (x := value).
type NamedExpr struct {
	span
	Target *Name
	Value  Node
}

// ConstKind distinguishes literal kinds.
type ConstKind int

const (
	ConstOther ConstKind = iota
	ConstString
	ConstFString
)

// Constant is a literal. Parts holds f-string interpolations.
type Constant struct {
	span
	Kind  ConstKind
	Value string
	Parts []Node
}

// Generic is any construct without a dedicated node type. Type is the
// grammar node type.
type Generic struct {
	span
	Type     string
	Children []Node
}

func docstring(body []Node) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	stmt, ok := body[0].(*ExprStmt)
	if !ok {
		return "", false
	}
	c, ok := stmt.Value.(*Constant)
	if !ok || c.Kind != ConstString {
		return "", false
	}
	return c.Value, true
}
