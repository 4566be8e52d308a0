package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Report is the run's sole durable output, written next to the input file.
type Report struct {
	FilePath                  string                     `json:"file_path"`
	FileSummary               TableSummary               `json:"file_summary"`
	ColumnClassifications     []ColumnClassification     `json:"column_classifications"`
	ColumnMapping             map[string]string          `json:"column_mapping"`
	DepartmentClassifications []DepartmentClassification `json:"department_classifications"`
	Statistics                Statistics                 `json:"statistics"`
}

type Statistics struct {
	TotalColumns             int   `json:"total_columns"`
	ColumnsClassified        int   `json:"columns_classified"`
	ColumnsNeedingReview     int   `json:"columns_needing_review"`
	TotalRowsProcessed       int   `json:"total_rows_processed"`
	DepartmentsNormalized    int   `json:"departments_normalized"`
	DepartmentsInferred      int   `json:"departments_inferred"`
	DepartmentsNeedingReview int   `json:"departments_needing_review"`
	LLMInputTokens           int64 `json:"llm_input_tokens"`
	LLMOutputTokens          int64 `json:"llm_output_tokens"`
}

// BuildColumnMapping maps each non-OTHER category to its column name. On a
// collision the later column wins; the returned notes name both columns so
// the orchestrator can warn.
func BuildColumnMapping(classifications []ColumnClassification) (map[string]string, []string) {
	mapping := make(map[string]string)
	var collisions []string
	for _, c := range classifications {
		if c.Category == CategoryOther {
			continue
		}
		key := string(c.Category)
		if prev, ok := mapping[key]; ok {
			collisions = append(collisions, fmt.Sprintf("category %s: column %q replaces %q", key, c.OriginalName, prev))
		}
		mapping[key] = c.OriginalName
	}
	return mapping, collisions
}

// UnmappedRequiredCategories reports which of title/description/department
// have no mapped column. Missing roles are a warning, not a failure.
func UnmappedRequiredCategories(mapping map[string]string) []ColumnCategory {
	var missing []ColumnCategory
	for _, required := range []ColumnCategory{CategoryTitle, CategoryDescription, CategoryDepartment} {
		if _, ok := mapping[string(required)]; !ok {
			missing = append(missing, required)
		}
	}
	return missing
}

func ComputeStatistics(columns []ColumnClassification, departments []DepartmentClassification, usage LLMUsage) Statistics {
	stats := Statistics{
		TotalColumns:       len(columns),
		TotalRowsProcessed: len(departments),
		LLMInputTokens:     usage.InputTokens,
		LLMOutputTokens:    usage.OutputTokens,
	}
	for _, c := range columns {
		if c.Category != CategoryOther {
			stats.ColumnsClassified++
		}
		if c.NeedsManualReview {
			stats.ColumnsNeedingReview++
		}
	}
	for _, d := range departments {
		switch d.Source {
		case SourceNormalized:
			stats.DepartmentsNormalized++
		case SourceInferred:
			stats.DepartmentsInferred++
		}
		if d.NeedsManualReview {
			stats.DepartmentsNeedingReview++
		}
	}
	return stats
}

// ReportOutputPath derives the report location from the input path: same
// directory, extension replaced with _classification_results.json.
func ReportOutputPath(inputPath string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + "_classification_results.json"
}

func WriteReport(report *Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
