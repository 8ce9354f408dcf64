package analyzer

import "review-bot/src/model"

// Reduce folds file results into batch totals, recomputed from scratch.
// High and critical findings both count as critical.
func Reduce(results []model.FileResult) model.BatchSummary {
	summary := model.BatchSummary{
		TotalFiles:         len(results),
		FindingsByCategory: make(map[model.Category]int, len(model.AnalyzerCategories)),
	}
	for _, c := range model.AnalyzerCategories {
		summary.FindingsByCategory[c] = 0
	}

	for _, r := range results {
		summary.TotalFindings += len(r.Findings)
		for _, f := range r.Findings {
			if f.Severity.AtLeast(model.SeverityHigh) {
				summary.CriticalFindings++
			}
			summary.FindingsByCategory[f.Category]++
		}
	}
	return summary
}
