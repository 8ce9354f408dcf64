package controller

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"review-bot/src/config"
	"review-bot/src/model"
	"review-bot/src/service/analyzer"
)

func sampleBatch() *model.BatchReport {
	files := []model.FileResult{{
		Filename: "app/main.py",
		Findings: []model.Finding{{
			Category: model.CategoryBug, Line: 2, Severity: model.SeverityHigh, Analyzer: "bugs",
			Description: "Potential use of undefined variable 'y'", Suggestion: "Ensure 'y' is defined before use",
		}},
	}}
	return &model.BatchReport{
		Name:        "Fix: retry / backoff",
		GeneratedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		Summary:     analyzer.Reduce(files),
		Files:       files,
	}
}

func TestGenerateReports(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.OutputDir = filepath.Join(t.TempDir(), "reports")
	cfg.Output.Formats = []string{"json", "markdown", "sarif", "text"}

	paths, err := NewReportController(cfg).GenerateReports(sampleBatch())
	if err != nil {
		t.Fatalf("GenerateReports: %v", err)
	}

	want := []string{
		"Fix-retry-backoff-review.json",
		"Fix-retry-backoff-review.md",
		"Fix-retry-backoff-review.sarif",
		"Fix-retry-backoff-review.txt",
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for i, path := range paths {
		if filepath.Base(path) != want[i] {
			t.Errorf("path %d = %s, want %s", i, filepath.Base(path), want[i])
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("report not written: %v", err)
		}
	}
}

func TestGenerateReports_UnsupportedFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.OutputDir = t.TempDir()
	cfg.Output.Formats = []string{"html"}

	if _, err := NewReportController(cfg).GenerateReports(sampleBatch()); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestGenerateToFile(t *testing.T) {
	cfg := config.DefaultConfig()
	path := filepath.Join(t.TempDir(), "out", "review.md")

	if err := NewReportController(cfg).GenerateToFile(sampleBatch(), "markdown", path); err != nil {
		t.Fatalf("GenerateToFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "### `app/main.py` (1 findings)") {
		t.Errorf("unexpected report:\n%s", data)
	}
}

func TestGetOutputPath(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.OutputDir = "out"
	ctrl := NewReportController(cfg)

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"src", "json", filepath.Join("out", "src-review.json")},
		{"../..", "text", filepath.Join("out", "batch-review.txt")},
		{"", "markdown", filepath.Join("out", "batch-review.md")},
		{"feature/login page", "sarif", filepath.Join("out", "feature-login-page-review.sarif")},
	}
	for _, tt := range tests {
		if got := ctrl.getOutputPath(tt.name, tt.format); got != tt.want {
			t.Errorf("getOutputPath(%q, %q) = %q, want %q", tt.name, tt.format, got, tt.want)
		}
	}
}
