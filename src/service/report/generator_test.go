package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"review-bot/src/config"
	"review-bot/src/model"
)

func sampleReport() *model.BatchReport {
	return &model.BatchReport{
		Name:        "Add retry logic",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Summary: model.BatchSummary{
			TotalFiles:       2,
			TotalFindings:    3,
			CriticalFindings: 2,
			FindingsByCategory: map[model.Category]int{
				model.CategoryStyle: 1, model.CategoryBug: 1,
				model.CategoryPerformance: 0, model.CategoryBestPractice: 0,
				model.CategoryError: 1,
			},
		},
		Files: []model.FileResult{
			{Filename: "app/retry.py", Patch: "@@", Findings: []model.Finding{
				{Category: model.CategoryError, Line: 0, Severity: model.SeverityHigh, Analyzer: "performance",
					Description: "Error analyzing file: performance analyzer: boom", Suggestion: "Please check file content and format"},
				{Category: model.CategoryStyle, Line: 3, Severity: model.SeverityLow, Analyzer: "style",
					Description: "Line contains trailing whitespace", Suggestion: "Remove trailing whitespace"},
				{Category: model.CategoryBug, Line: 7, Severity: model.SeverityHigh, Analyzer: "bugs",
					Description: "Potential use of undefined variable 'x'", Suggestion: "Ensure 'x' is defined before use"},
			}},
			{Filename: "image.png", Findings: []model.Finding{}},
		},
	}
}

func newTestGenerator() *Generator {
	cfg := config.DefaultConfig()
	cfg.Output.Color = false
	return NewGenerator(cfg.Output, cfg.Agent)
}

func TestGenerate_JSON(t *testing.T) {
	out, err := newTestGenerator().Generate(sampleReport(), "json")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	summary := decoded["summary"].(map[string]any)
	if summary["total_findings"].(float64) != 3 {
		t.Errorf("total_findings = %v, want 3", summary["total_findings"])
	}
	byCat := summary["findings_by_category"].(map[string]any)
	if byCat["best_practice"].(float64) != 0 {
		t.Errorf("best_practice = %v, want 0", byCat["best_practice"])
	}
	files := decoded["files"].([]any)
	first := files[0].(map[string]any)
	if first["patch"] != "@@" {
		t.Errorf("patch = %v", first["patch"])
	}
	finding := first["findings"].([]any)[1].(map[string]any)
	for _, key := range []string{"category", "line", "description", "suggestion", "severity", "analyzer"} {
		if _, ok := finding[key]; !ok {
			t.Errorf("finding missing key %q", key)
		}
	}
}

func TestGenerate_Markdown(t *testing.T) {
	out, err := newTestGenerator().Generate(sampleReport(), "markdown")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{
		"**Change set:** Add retry logic",
		"**Generated:** 2026-01-02 03:04:05 UTC",
		"| error | 1 |",
		"### `app/retry.py` (3 findings)",
		"| - | [HIGH] high | error |",
		"| 7 | [HIGH] high | bug | Potential use of undefined variable 'x'<br>_Ensure 'x' is defined before use_ |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "image.png") {
		t.Error("files without findings should not be listed")
	}
}

func TestGenerate_SARIF(t *testing.T) {
	out, err := newTestGenerator().Generate(sampleReport(), "sarif")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string           `json:"name"`
					Rules []map[string]any `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						Region *struct {
							StartLine int `json:"startLine"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid SARIF JSON: %v", err)
	}
	if doc.Version != "2.1.0" || len(doc.Runs) != 1 {
		t.Fatalf("version = %q, runs = %d", doc.Version, len(doc.Runs))
	}
	run := doc.Runs[0]
	if run.Tool.Driver.Name != "review-bot" {
		t.Errorf("driver name = %q", run.Tool.Driver.Name)
	}
	if len(run.Tool.Driver.Rules) != 3 {
		t.Errorf("rules = %d, want 3", len(run.Tool.Driver.Rules))
	}
	if len(run.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(run.Results))
	}
	if run.Results[0].Locations[0].PhysicalLocation.Region != nil {
		t.Error("file-level finding must not carry a region")
	}
	if r := run.Results[2]; r.RuleID != "bug/bugs" || r.Level != "error" || r.Locations[0].PhysicalLocation.Region.StartLine != 7 {
		t.Errorf("result = %+v", r)
	}
	if run.Results[1].Level != "note" {
		t.Errorf("low severity level = %q, want note", run.Results[1].Level)
	}
}

func TestGenerate_Text(t *testing.T) {
	out, err := newTestGenerator().Generate(sampleReport(), "text")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("text report contains color codes with color disabled")
	}
	for _, want := range []string{
		"app/retry.py\n",
		"      7  high      bug           Potential use of undefined variable 'x'",
		"-> Ensure 'x' is defined before use",
		"2 files analyzed, 3 findings (2 critical)",
		"style: 1, bug: 1, performance: 0, best_practice: 0, error: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text missing %q\n%s", want, out)
		}
	}
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	if _, err := newTestGenerator().Generate(sampleReport(), "html"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{"json": "json", "markdown": "md", "sarif": "sarif", "text": "txt"}
	for format, want := range tests {
		if got := Extension(format); got != want {
			t.Errorf("Extension(%q) = %q, want %q", format, got, want)
		}
	}
}
