package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"review-bot/src/model"
)

func reportWith(severities ...model.Severity) *model.BatchReport {
	var findings []model.Finding
	for i, s := range severities {
		findings = append(findings, model.Finding{Category: model.CategoryStyle, Line: i + 1, Severity: s})
	}
	return &model.BatchReport{Files: []model.FileResult{{Filename: "a.py", Findings: findings}}}
}

func TestCheckThreshold(t *testing.T) {
	tests := []struct {
		name       string
		report     *model.BatchReport
		flag       string
		configured string
		wantErr    bool
	}{
		{"no threshold", reportWith(model.SeverityCritical), "", "", false},
		{"below threshold", reportWith(model.SeverityLow, model.SeverityMedium), "high", "", false},
		{"meets threshold", reportWith(model.SeverityLow, model.SeverityHigh), "high", "", true},
		{"exceeds threshold", reportWith(model.SeverityCritical), "medium", "", true},
		{"configured threshold", reportWith(model.SeverityMedium), "", "medium", true},
		{"flag overrides config", reportWith(model.SeverityMedium), "critical", "low", false},
		{"no findings", reportWith(), "low", "", false},
		{"invalid severity", reportWith(), "urgent", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkThreshold(tt.report, tt.flag, tt.configured)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkThreshold() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBatchName(t *testing.T) {
	if got := batchName([]string{"a.py", "b.py"}); got != "a.py, b.py" {
		t.Errorf("batchName = %q", got)
	}
	if got := batchName([]string{"src/app"}); got != "app" {
		t.Errorf("batchName = %q", got)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	h := New()
	var out bytes.Buffer
	h.rootCmd.SetOut(&out)
	h.rootCmd.SetErr(&out)
	h.rootCmd.SetArgs(args)
	err := h.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "review-bot ") {
		t.Errorf("output = %q", out)
	}
}

func TestAnalyzersCommand(t *testing.T) {
	out, err := execute(t, "analyzers")
	if err != nil {
		t.Fatalf("analyzers: %v", err)
	}
	for _, name := range []string{"style", "bugs", "performance", "best_practices"} {
		if !strings.Contains(out, name) {
			t.Errorf("output missing %q:\n%s", name, out)
		}
	}
}

func TestAnalyzeCommand_FailOn(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.py")
	if err := os.WriteFile(src, []byte("print(missing)\n"), 0644); err != nil {
		t.Fatal(err)
	}
	reportPath := filepath.Join(dir, "out", "report.json")

	_, err := execute(t, "analyze", src, "--format", "json", "--output", reportPath, "--fail-on", "high", "--timeout", time.Minute.String())
	if err == nil {
		t.Fatal("expected fail-on error for undefined name")
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(data), "Potential use of undefined variable 'missing'") {
		t.Errorf("report missing finding:\n%s", data)
	}
}

func TestChangesetCommand(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "cs.yaml")
	content := `title: Tidy imports
files:
  - filename: app.py
    status: modified
    content: |
      import os
      print(os.sep)
`
	if err := os.WriteFile(manifest, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	reportPath := filepath.Join(dir, "report.md")

	if _, err := execute(t, "changeset", manifest, "-f", "markdown", "-o", reportPath, "--fail-on", "high"); err != nil {
		t.Fatalf("changeset: %v", err)
	}
	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "**Change set:** Tidy imports") {
		t.Errorf("unexpected report:\n%s", data)
	}
}
