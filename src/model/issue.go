package model

import "time"

// Severity represents the severity level of a finding
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity from least to most severe
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Rank returns the ordinal of the severity (low = 1), or 0 if unknown
func (s Severity) Rank() int {
	for i, sev := range Severities {
		if sev == s {
			return i + 1
		}
	}
	return 0
}

// AtLeast reports whether s is at or above min
func (s Severity) AtLeast(min Severity) bool {
	return s.Rank() >= min.Rank()
}

// Category represents the kind of finding
type Category string

const (
	CategoryStyle        Category = "style"
	CategoryBug          Category = "bug"
	CategoryPerformance  Category = "performance"
	CategoryBestPractice Category = "best_practice"
	CategoryError        Category = "error"
)

// AnalyzerCategories are the categories produced by the analysis passes,
// in pass order
var AnalyzerCategories = []Category{
	CategoryStyle, CategoryBug, CategoryPerformance, CategoryBestPractice,
}

// Finding represents a single issue reported by an analyzer.
// Line is 1-based; 0 marks a file-level finding.
type Finding struct {
	Category    Category `json:"category" yaml:"category" msgpack:"category"`
	Line        int      `json:"line" yaml:"line" msgpack:"line"`
	Description string   `json:"description" yaml:"description" msgpack:"description"`
	Suggestion  string   `json:"suggestion" yaml:"suggestion" msgpack:"suggestion"`
	Severity    Severity `json:"severity" yaml:"severity" msgpack:"severity"`
	Analyzer    string   `json:"analyzer" yaml:"analyzer" msgpack:"analyzer"`
}

// FileResult holds the ordered findings for one file
type FileResult struct {
	Filename string    `json:"filename" yaml:"filename" msgpack:"filename"`
	Findings []Finding `json:"findings" yaml:"findings" msgpack:"findings"`
	Patch    string    `json:"patch" yaml:"patch" msgpack:"patch"`
}

// BatchSummary contains aggregated statistics over a set of file results
type BatchSummary struct {
	TotalFiles         int              `json:"total_files"`
	TotalFindings      int              `json:"total_findings"`
	CriticalFindings   int              `json:"critical_findings"`
	FindingsByCategory map[Category]int `json:"findings_by_category"`
}

// BatchReport is the complete output for one analyzed batch
type BatchReport struct {
	Name        string       `json:"name"`
	GeneratedAt time.Time    `json:"generated_at"`
	Summary     BatchSummary `json:"summary"`
	Files       []FileResult `json:"files"`
}

// HighestSeverity returns the most severe finding severity in the report,
// or an empty severity if there are no findings
func (r *BatchReport) HighestSeverity() Severity {
	var highest Severity
	for _, f := range r.Files {
		for _, finding := range f.Findings {
			if finding.Severity.Rank() > highest.Rank() {
				highest = finding.Severity
			}
		}
	}
	return highest
}
