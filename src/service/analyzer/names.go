package analyzer

// NameSet is an immutable set of identifiers
type NameSet struct {
	names map[string]struct{}
}

// NewNameSet creates a name set
func NewNameSet(names ...string) NameSet {
	s := NameSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.names[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is in the set
func (s NameSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of names
func (s NameSet) Len() int {
	return len(s.names)
}

// Union returns a new set holding the names of s and the extra names
func (s NameSet) Union(extra ...string) NameSet {
	out := NameSet{names: make(map[string]struct{}, len(s.names)+len(extra))}
	for n := range s.names {
		out.names[n] = struct{}{}
	}
	for _, n := range extra {
		out.names[n] = struct{}{}
	}
	return out
}

// KnownNames are the names the bug analyzer treats as always defined
type KnownNames struct {
	Builtins NameSet
	Assumed  NameSet
}

// Contains reports whether name is a builtin or an assumed name
func (k KnownNames) Contains(name string) bool {
	return k.Builtins.Contains(name) || k.Assumed.Contains(name)
}

// PythonBuiltins returns the Python 3 builtin namespace plus the implicit
// module attributes
func PythonBuiltins() NameSet {
	return NewNameSet(pythonBuiltins...)
}

var pythonBuiltins = []string{
	// constants
	"True", "False", "None", "Ellipsis", "NotImplemented", "__debug__",

	// functions
	"abs", "aiter", "all", "anext", "any", "ascii", "bin", "breakpoint",
	"callable", "chr", "compile", "copyright", "credits", "delattr", "dir",
	"divmod", "eval", "exec", "exit", "format", "getattr", "globals",
	"hasattr", "hash", "help", "hex", "id", "input", "isinstance",
	"issubclass", "iter", "len", "license", "locals", "max", "min", "next",
	"oct", "open", "ord", "pow", "print", "quit", "repr", "round", "setattr",
	"sorted", "sum", "vars", "__import__", "__build_class__",

	// types
	"bool", "bytearray", "bytes", "classmethod", "complex", "dict",
	"enumerate", "filter", "float", "frozenset", "int", "list", "map",
	"memoryview", "object", "property", "range", "reversed", "set", "slice",
	"staticmethod", "str", "super", "tuple", "type", "zip",

	// exceptions
	"BaseException", "BaseExceptionGroup", "Exception", "ExceptionGroup",
	"ArithmeticError", "AssertionError", "AttributeError", "BlockingIOError",
	"BrokenPipeError", "BufferError", "ChildProcessError",
	"ConnectionAbortedError", "ConnectionError", "ConnectionRefusedError",
	"ConnectionResetError", "EOFError", "EncodingWarning", "EnvironmentError",
	"FileExistsError", "FileNotFoundError", "FloatingPointError",
	"GeneratorExit", "IOError", "ImportError", "IndentationError",
	"IndexError", "InterruptedError", "IsADirectoryError", "KeyError",
	"KeyboardInterrupt", "LookupError", "MemoryError", "ModuleNotFoundError",
	"NameError", "NotADirectoryError", "NotImplementedError", "OSError",
	"OverflowError", "PermissionError", "ProcessLookupError",
	"RecursionError", "ReferenceError", "RuntimeError", "StopAsyncIteration",
	"StopIteration", "SyntaxError", "SystemError", "SystemExit", "TabError",
	"TimeoutError", "TypeError", "UnboundLocalError", "UnicodeDecodeError",
	"UnicodeEncodeError", "UnicodeError", "UnicodeTranslateError",
	"ValueError", "ZeroDivisionError",

	// warnings
	"Warning", "BytesWarning", "DeprecationWarning", "FutureWarning",
	"ImportWarning", "PendingDeprecationWarning", "ResourceWarning",
	"RuntimeWarning", "SyntaxWarning", "UnicodeWarning", "UserWarning",

	// module attributes
	"__name__", "__file__", "__doc__", "__package__", "__spec__",
	"__loader__", "__builtins__", "__path__", "__annotations__",
	"__dict__", "__cached__",
}
