package analyzer

import (
	"testing"

	"review-bot/src/config"
	"review-bot/src/model"
)

func TestPerformance_Patterns(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		line     int
		severity model.Severity
		want     string
	}{
		{
			name:     "append loop",
			src:      "out = []\nfor item in items:\n    out.append(item * 2)\n",
			line:     2,
			severity: model.SeverityLow,
			want:     "For loop could be replaced with list comprehension",
		},
		{
			name:     "async append loop",
			src:      "async def f(out):\n    async for item in stream():\n        out.append(item)\n",
			line:     2,
			severity: model.SeverityLow,
			want:     "For loop could be replaced with list comprehension",
		},
		{
			name:     "range len",
			src:      "for i in range(len(items)):\n    print(items[i])\n",
			line:     1,
			severity: model.SeverityLow,
			want:     "Inefficient range(len()) pattern detected",
		},
		{
			name:     "nested list comprehension",
			src:      "flat = [y for y in [x * 2 for x in data]]\n",
			line:     1,
			severity: model.SeverityMedium,
			want:     "Nested list comprehension detected",
		},
		{
			name:     "nested generator",
			src:      "total = sum(y for y in (x for x in data))\n",
			line:     1,
			severity: model.SeverityMedium,
			want:     "Nested generator expression detected",
		},
	}
	a := NewPerformanceAnalyzer(config.DefaultConfig().Analysis.Performance)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := a.Analyze(NewInput("test.py", tt.src))
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if len(findings) != 1 {
				t.Fatalf("findings = %d, want 1: %+v", len(findings), findings)
			}
			f := findings[0]
			if f.Category != model.CategoryPerformance {
				t.Errorf("Category = %q, want performance", f.Category)
			}
			if f.Line != tt.line {
				t.Errorf("Line = %d, want %d", f.Line, tt.line)
			}
			if f.Severity != tt.severity {
				t.Errorf("Severity = %q, want %q", f.Severity, tt.severity)
			}
			if f.Description != tt.want {
				t.Errorf("Description = %q, want %q", f.Description, tt.want)
			}
		})
	}
}

func TestPerformance_NoMatch(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"two statements", "for item in items:\n    out.append(item)\n    count += 1\n"},
		{"not append", "for item in items:\n    out.add(item)\n"},
		{"range with step", "for i in range(len(items), 0, -1):\n    pass\n"},
		{"range of other call", "for i in range(size(items)):\n    pass\n"},
		{"flat comprehension", "flat = [x for x in data]\n"},
		{"comprehension in element", "grid = [[y for y in row] for row in rows]\n"},
		{"syntax error", "for i in range(len(items):\n    pass\n"},
	}
	a := NewPerformanceAnalyzer(config.DefaultConfig().Analysis.Performance)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := a.Analyze(NewInput("test.py", tt.src))
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if len(findings) != 0 {
				t.Errorf("findings = %+v, want none", findings)
			}
		})
	}
}

func TestPerformance_MultipleFindings(t *testing.T) {
	src := `for i in range(len(a)):
    out.append(a[i])
`
	a := NewPerformanceAnalyzer(config.DefaultConfig().Analysis.Performance)
	findings, err := a.Analyze(NewInput("test.py", src))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(findings) != 2 {
		t.Errorf("findings = %d, want 2: %+v", len(findings), findings)
	}
}
