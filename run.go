package main

import (
	"fmt"
	"strings"
)

// Run executes one classification pass end to end: load and clean the
// table, classify every column, build the category mapping, normalize
// departments over a bounded prefix of rows, and persist the report.
// Everything is sequential; a failed model call degrades in place and the
// run continues.
func Run(cfg Config, filePath string) error {
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("AUDIT SPREADSHEET CLASSIFIER")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("\nProcessing file: %s\n", filePath)

	fmt.Println("\n[1/5] Reading and cleaning file...")
	table, err := ReadTable(filePath)
	if err != nil {
		return err
	}
	removed := CleanTable(table)
	if removed > 0 {
		fmt.Printf("  Removed %d empty rows\n", removed)
	}
	summary := Summarize(table)
	fmt.Printf("  Rows: %d, Columns: %d, Memory: %.2f MB, Missing values: %d\n",
		summary.TotalRows, summary.TotalColumns, summary.MemoryUsageMB, summary.TotalMissingValues)

	var aliases *DepartmentAliases
	if cfg.DepartmentAliasPath != "" {
		aliases, err = LoadDepartmentAliases(cfg.DepartmentAliasPath)
		if err != nil {
			return err
		}
		fmt.Printf("  Loaded %d department aliases\n", len(aliases.Aliases))
	}

	client := NewClassifier(NewBackend(cfg))

	fmt.Printf("\n[2/5] Classifying %d columns (threshold %.2f)...\n", len(table.Columns), confidenceThreshold)
	var columnResults []ColumnClassification
	for i, name := range table.Columns {
		result := ClassifyColumn(client, name, table.Column(i))
		columnResults = append(columnResults, result)
		printColumnResult(result)
	}

	fmt.Println("\n[3/5] Building column mapping...")
	mapping, collisions := BuildColumnMapping(columnResults)
	for _, note := range collisions {
		fmt.Printf("  Warning: %s\n", note)
	}
	for category, columnName := range mapping {
		fmt.Printf("  %s <- %q\n", category, columnName)
	}
	if missing := UnmappedRequiredCategories(mapping); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, m := range missing {
			names[i] = string(m)
		}
		fmt.Printf("  Warning: no column mapped for: %s\n", strings.Join(names, ", "))
	}

	rows := ExtractRowFields(table, mapping)
	limit := departmentRowLimit(cfg, len(rows))
	fmt.Printf("\n[4/5] Classifying departments for %d of %d rows...\n", limit, len(rows))
	var departmentResults []DepartmentClassification
	for _, row := range rows[:limit] {
		result := NormalizeDepartment(client, aliases, row)
		departmentResults = append(departmentResults, result)
		printDepartmentResult(result)
	}

	fmt.Println("\n[5/5] Writing report...")
	report := &Report{
		FilePath:                  filePath,
		FileSummary:               summary,
		ColumnClassifications:     columnResults,
		ColumnMapping:             mapping,
		DepartmentClassifications: departmentResults,
		Statistics:                ComputeStatistics(columnResults, departmentResults, client.Usage()),
	}
	outputPath := ReportOutputPath(filePath)
	if err := WriteReport(report, outputPath); err != nil {
		return err
	}
	fmt.Printf("  Results saved to: %s\n", outputPath)

	printStatistics(report.Statistics)
	return nil
}

// departmentRowLimit bounds the per-row pass: -1 in the config means every
// row, otherwise the configured prefix capped at the row count.
func departmentRowLimit(cfg Config, totalRows int) int {
	limit := cfg.DepartmentRowLimit
	if limit < 0 || limit > totalRows {
		return totalRows
	}
	return limit
}

func printColumnResult(r ColumnClassification) {
	note := ""
	if r.NeedsManualReview {
		note = fmt.Sprintf(" [NEEDS REVIEW: %s]", r.Reason)
	}
	fmt.Printf("  %s -> %s (confidence: %.2f)%s\n", r.OriginalName, r.Category, r.Confidence, note)
}

func printDepartmentResult(r DepartmentClassification) {
	original := r.Original
	if original == "" {
		original = "[empty]"
	}
	sourceLabel := "inferred"
	if r.Source == SourceNormalized {
		sourceLabel = "normalized"
	}
	note := ""
	if r.NeedsManualReview {
		note = fmt.Sprintf(" [NEEDS REVIEW: %s]", r.Reason)
	}
	fmt.Printf("  Row %d: %s -> %s (%s, conf: %.2f)%s\n", r.Row, original, r.Suggested, sourceLabel, r.Confidence, note)
}

func printStatistics(s Statistics) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("CLASSIFICATION COMPLETE")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("  Columns classified:         %d/%d\n", s.ColumnsClassified, s.TotalColumns)
	fmt.Printf("  Columns needing review:     %d\n", s.ColumnsNeedingReview)
	fmt.Printf("  Rows processed:             %d\n", s.TotalRowsProcessed)
	fmt.Printf("  Departments normalized:     %d\n", s.DepartmentsNormalized)
	fmt.Printf("  Departments inferred:       %d\n", s.DepartmentsInferred)
	fmt.Printf("  Departments needing review: %d\n", s.DepartmentsNeedingReview)
	fmt.Printf("  LLM tokens in/out:          %d/%d\n", s.LLMInputTokens, s.LLMOutputTokens)
}
