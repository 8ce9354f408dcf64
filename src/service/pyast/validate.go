package pyast

import (
	"fmt"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
)

// tree-sitter accepts a superset of Python 3. validate rejects what the
// grammar lets through but the Python 3 compiler does not: Python 2 forms,
// keywords used as names, bad indentation and orphaned clauses.
func validate(root *sitter.Node, src []byte) *SyntaxError {
	var first *SyntaxError
	keep := func(e *SyntaxError) {
		if e != nil && (first == nil || e.Line < first.Line) {
			first = e
		}
	}

	keep(checkGrammar(root, src))
	s := &lineScanner{src: src, strings: stringRanges(root)}
	keep(s.scan())
	return first
}

// hardKeywords can never be identifiers in Python 3.
var hardKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

func checkGrammar(root *sitter.Node, src []byte) *SyntaxError {
	var found *SyntaxError
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if found != nil || n == nil {
			return
		}
		switch n.Type() {
		case "print_statement", "exec_statement":
			name := "print"
			if n.Type() == "exec_statement" {
				name = "exec"
			}
			found = &SyntaxError{
				Line:    lineOf(n.StartPoint()),
				Message: fmt.Sprintf("Missing parentheses in call to '%s'. Did you mean %s(...)?", name, name),
			}
			return
		case "except_clause":
			if hasToken(n, ",") {
				found = &SyntaxError{
					Line:    lineOf(n.StartPoint()),
					Message: "multiple exception types must be parenthesized",
				}
				return
			}
		case "identifier":
			if text := n.Content(src); hardKeywords[text] {
				found = &SyntaxError{Line: lineOf(n.StartPoint()), Message: errorMessage(text)}
				return
			}
		case "string":
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(root)
	return found
}

type byteRange struct {
	start, end int
}

// stringRanges returns the byte ranges of the outermost string literals in
// document order.
func stringRanges(root *sitter.Node) []byteRange {
	var out []byteRange
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "string" {
			out = append(out, byteRange{start: offsetOf(n.StartByte()), end: offsetOf(n.EndByte())})
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(root)
	return out
}

func offsetOf(b uint32) int {
	off, err := safecast.Conv[int](b)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return off
}

// logicalLine is one statement line after joining bracket and backslash
// continuations.
type logicalLine struct {
	line    int
	indent  int
	keyword string
	opener  bool
}

type level struct {
	indent int
	last   string
}

// clauseHeads lists, for each continuation clause, the statements it may
// directly follow at the same indentation.
var clauseHeads = map[string]map[string]bool{
	"elif":    {"if": true, "elif": true},
	"else":    {"if": true, "elif": true, "for": true, "while": true, "except": true, "try": true},
	"except":  {"try": true, "except": true},
	"finally": {"try": true, "except": true, "else": true},
}

// lineScanner checks indentation the way the Python tokenizer does. String
// literals come from the parse tree so their contents are skipped.
type lineScanner struct {
	src     []byte
	strings []byteRange

	pos     int
	line    int
	next    int
	levels  []level
	pending *logicalLine
	failure *SyntaxError
}

func (s *lineScanner) scan() *SyntaxError {
	s.line = 1
	s.levels = []level{{indent: 0}}

	for {
		ll, ok := s.readLogicalLine()
		if !ok {
			break
		}
		if err := s.check(ll); err != nil {
			return err
		}
	}

	if s.failure != nil {
		return s.failure
	}
	if s.pending != nil {
		return &SyntaxError{Line: s.pending.line + 1, Message: "expected an indented block"}
	}
	return nil
}

func (s *lineScanner) check(ll logicalLine) *SyntaxError {
	top := s.levels[len(s.levels)-1].indent

	switch {
	case s.pending != nil:
		if ll.indent <= top {
			return &SyntaxError{Line: ll.line, Message: "expected an indented block"}
		}
		s.levels = append(s.levels, level{indent: ll.indent})
		s.pending = nil
	case ll.indent > top:
		return &SyntaxError{Line: ll.line, Message: "unexpected indent"}
	case ll.indent < top:
		for len(s.levels) > 1 && ll.indent < s.levels[len(s.levels)-1].indent {
			s.levels = s.levels[:len(s.levels)-1]
		}
		if s.levels[len(s.levels)-1].indent != ll.indent {
			return &SyntaxError{Line: ll.line, Message: "unindent does not match any outer indentation level"}
		}
	}

	cur := &s.levels[len(s.levels)-1]
	if heads, ok := clauseHeads[ll.keyword]; ok && !heads[cur.last] {
		return &SyntaxError{Line: ll.line, Message: errorMessage(ll.keyword)}
	}
	cur.last = ll.keyword

	if ll.opener {
		s.pending = &ll
	}
	return nil
}

// readLogicalLine returns the next line holding at least one token. Blank
// and comment-only lines are skipped.
func (s *lineScanner) readLogicalLine() (logicalLine, bool) {
	for s.pos < len(s.src) {
		ll := logicalLine{line: s.line}
		ll.indent = s.readIndent()

		depth := 0
		var last byte
		tokens := 0

	scan:
		for s.pos < len(s.src) {
			if r, ok := s.stringAt(s.pos); ok {
				s.skipTo(r.end)
				last = '"'
				tokens++
				continue
			}

			c := s.src[s.pos]
			switch {
			case c == '\n':
				s.pos++
				s.line++
				if depth == 0 {
					break scan
				}
				continue
			case c == '#':
				for s.pos < len(s.src) && s.src[s.pos] != '\n' {
					s.pos++
				}
				continue
			case c == '\\' && s.pos+1 < len(s.src) && (s.src[s.pos+1] == '\n' || s.src[s.pos+1] == '\r'):
				s.pos++
				if s.src[s.pos] == '\r' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n' {
					s.pos++
				}
				s.pos++
				s.line++
				continue
			case c == ' ' || c == '\t' || c == '\r' || c == '\f':
				s.pos++
				continue
			case c == '`':
				s.failure = &SyntaxError{Line: s.line, Message: errorMessage("`")}
				s.pos = len(s.src)
				return logicalLine{}, false
			case c == '(' || c == '[' || c == '{':
				depth++
			case c == ')' || c == ']' || c == '}':
				if depth > 0 {
					depth--
				}
			}

			if tokens == 0 && isWordByte(c) {
				end := s.pos
				for end < len(s.src) && isWordByte(s.src[end]) {
					end++
				}
				ll.keyword = string(s.src[s.pos:end])
				if ll.keyword == "async" {
					ll.keyword = s.peekWord(end)
				}
				last = s.src[end-1]
				s.pos = end
				tokens++
				continue
			}

			last = c
			tokens++
			s.pos++
		}

		if tokens > 0 {
			ll.opener = last == ':'
			return ll, true
		}
	}
	return logicalLine{}, false
}

func (s *lineScanner) readIndent() int {
	col := 0
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ':
			col++
		case '\t':
			col = (col/8 + 1) * 8
		case '\f':
			col = 0
		default:
			return col
		}
		s.pos++
	}
	return col
}

func (s *lineScanner) peekWord(from int) string {
	for from < len(s.src) && (s.src[from] == ' ' || s.src[from] == '\t') {
		from++
	}
	end := from
	for end < len(s.src) && isWordByte(s.src[end]) {
		end++
	}
	return string(s.src[from:end])
}

func (s *lineScanner) stringAt(pos int) (byteRange, bool) {
	for s.next < len(s.strings) && s.strings[s.next].end <= pos {
		s.next++
	}
	if s.next < len(s.strings) && s.strings[s.next].start <= pos {
		return s.strings[s.next], true
	}
	return byteRange{}, false
}

func (s *lineScanner) skipTo(end int) {
	for ; s.pos < end && s.pos < len(s.src); s.pos++ {
		if s.src[s.pos] == '\n' {
			s.line++
		}
	}
}

func isWordByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= 0x80
}
