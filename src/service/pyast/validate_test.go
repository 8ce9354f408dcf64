package pyast

import (
	"strings"
	"testing"
)

func TestParse_RejectsInvalidPython(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		line    int
		message string
	}{
		{"missing block indent", "def f():\nreturn 1\n", 2, "expected an indented block"},
		{"unexpected indent", "x = 1\n    y = 2\n", 2, "unexpected indent"},
		{"indented first line", "  x = 1\n", 1, ""},
		{"inconsistent dedent", "if True:\n        x = 1\n    y = 2\n", 3, "unindent does not match any outer indentation level"},
		{"stray else", "else:\n    pass\n", 1, ""},
		{"print statement", "x = 1\nprint \"hello\"\n", 2, ""},
		{"exec statement", "exec \"x = 1\"\n", 1, ""},
		{"backticks", "x = `1`\n", 1, ""},
		{"comma except", "try:\n    pass\nexcept ValueError, e:\n    pass\n", 3, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse([]byte(tt.src))
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if res.OK() {
				t.Fatal("expected syntax error")
			}
			if res.Module != nil {
				t.Error("expected nil module on syntax error")
			}
			if res.Syntax.Line != tt.line {
				t.Errorf("Line = %d, want %d (%s)", res.Syntax.Line, tt.line, res.Syntax.Message)
			}
			if tt.message != "" && res.Syntax.Message != tt.message {
				t.Errorf("Message = %q, want %q", res.Syntax.Message, tt.message)
			}
		})
	}
}

func TestParse_AcceptsValidLayout(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"nested dedent", "def f(x):\n    if x:\n        for i in x:\n            print(i)\n    return x\n\ny = f([1])\n"},
		{"brackets span lines", "values = [\n  1,\n        2,\n]\ntotal = sum(\n    values)\n"},
		{"backslash continuation", "total = 1 + \\\n        2\n"},
		{"colon inside string", "label = \"key:\"\nif label:\n    pass\n"},
		{"multiline string", "def f():\n    \"\"\"Doc.\n\nNot indented:\n    \"\"\"\n    return 1\n"},
		{"comments at any indent", "def f():\n# note\n        # other\n    return 1\n"},
		{"try clauses", "try:\n    x = 1\nexcept ValueError as e:\n    print(e)\nelse:\n    pass\nfinally:\n    pass\n"},
		{"loop else", "for i in range(3):\n    pass\nelse:\n    pass\nwhile False:\n    pass\nelse:\n    pass\n"},
		{"elif chain", "x = 1\nif x:\n    pass\nelif x > 1:\n    pass\nelse:\n    pass\n"},
		{"one-line compound", "x = 1\nif x: y = 1\nelse: y = 2\n"},
		{"async for", "async def f(xs):\n    async for x in xs:\n        pass\n    else:\n        pass\n"},
		{"crlf", "def f():\r\n    return 1\r\n"},
		{"tabs", "def f():\n\treturn 1\n"},
		{"parenthesized except", "try:\n    pass\nexcept (KeyError, ValueError):\n    pass\n"},
		{"hash inside string", "url = \"http://x/#frag\"\nif url:\n    pass\n"},
		{"print call", "print(\"hello\")\n"},
		{"no trailing newline", "def f():\n    return 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse([]byte(tt.src))
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if !res.OK() {
				t.Errorf("unexpected syntax error: %v", res.Syntax)
			}
		})
	}
}

func TestParse_TypeAlias(t *testing.T) {
	mod := mustParse(t, "type Pair[T] = tuple[T, T]\n")
	alias, ok := mod.Body[0].(*TypeAlias)
	if !ok {
		t.Fatalf("Body[0] = %T, want *TypeAlias", mod.Body[0])
	}
	if alias.Name.ID != "Pair" || alias.Name.Ctx != Store {
		t.Errorf("Name = %+v, want Pair store", alias.Name)
	}
	if strings.Join(alias.TypeParams, ",") != "T" {
		t.Errorf("TypeParams = %v, want [T]", alias.TypeParams)
	}
	if alias.Value == nil {
		t.Error("Value = nil")
	}
}

func TestParse_TypeParams(t *testing.T) {
	mod := mustParse(t, "def first[T, U](x: T) -> U:\n    return x\n\nclass Box[K, V]:\n    pass\n")
	fn := mod.Body[0].(*FunctionDef)
	if got := strings.Join(fn.TypeParams, ","); got != "T,U" {
		t.Errorf("function TypeParams = %s, want T,U", got)
	}
	cls := mod.Body[1].(*ClassDef)
	if got := strings.Join(cls.TypeParams, ","); got != "K,V" {
		t.Errorf("class TypeParams = %s, want K,V", got)
	}
}
