package util

import (
	"testing"

	"review-bot/src/config"
)

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"**/tests/**", "pkg/tests/test_a.py", true},
		{"**/tests/**", "tests/test_a.py", true},
		{"**/tests/**", "pkg/contests/a.py", false},
		{"*.py", "a.py", true},
		{"*.py", "dir/a.py", false},
		{"src/**/*.py", "src/a/b/c.py", true},
		{"src/**/*.py", "src/c.py", true},
		{"gen_?.py", "gen_1.py", true},
		{"gen_?.py", "gen_10.py", false},
		{"**/__pycache__/**", "a/__pycache__/x.pyc", true},
	}
	for _, tt := range tests {
		if got := MatchGlob(tt.pattern, tt.path); got != tt.want {
			t.Errorf("MatchGlob(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
		}
	}
}

func TestPathPolicy(t *testing.T) {
	policy := NewPathPolicy(config.DefaultExtensions, config.ExclusionsConfig{
		FilePatterns: []string{"**/vendor/**"},
		Files:        []string{"setup.py"},
	})

	tests := []struct {
		name string
		want bool
	}{
		{"app/main.py", true},
		{"APP/MAIN.PY", true},
		{"stubs/os.pyi", true},
		{"web/index.tsx", false},
		{"cmd/main.go", false},
		{"image.png", false},
		{"Makefile", false},
		{"lib/vendor/six.py", false},
		{"setup.py", false},
	}
	for _, tt := range tests {
		if got := policy.Accept(tt.name); got != tt.want {
			t.Errorf("Accept(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPathPolicy_ExtensionWithoutDot(t *testing.T) {
	policy := NewPathPolicy([]string{"py"}, config.ExclusionsConfig{})
	if !policy.Allowed("a.py") {
		t.Error("expected a.py to be allowed")
	}
}
