package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestBuildColumnMappingSkipsOther(t *testing.T) {
	classifications := []ColumnClassification{
		{OriginalName: "Issue ID", Category: CategoryTicketNumber},
		{OriginalName: "Notes", Category: CategoryOther},
		{OriginalName: "Dept", Category: CategoryDepartment},
	}

	mapping, collisions := BuildColumnMapping(classifications)

	want := map[string]string{
		"ticket_number": "Issue ID",
		"department":    "Dept",
	}
	if !reflect.DeepEqual(mapping, want) {
		t.Fatalf("unexpected mapping: %v", mapping)
	}
	if len(collisions) != 0 {
		t.Fatalf("unexpected collisions: %v", collisions)
	}
}

func TestBuildColumnMappingLastWriteWins(t *testing.T) {
	classifications := []ColumnClassification{
		{OriginalName: "Summary", Category: CategoryTitle},
		{OriginalName: "Heading", Category: CategoryTitle},
	}

	mapping, collisions := BuildColumnMapping(classifications)

	if mapping["title"] != "Heading" {
		t.Fatalf("expected later column to win, got %q", mapping["title"])
	}
	if len(collisions) != 1 {
		t.Fatalf("expected one collision note, got %v", collisions)
	}
	if !strings.Contains(collisions[0], "Summary") || !strings.Contains(collisions[0], "Heading") {
		t.Fatalf("collision note should name both columns: %s", collisions[0])
	}
}

func TestUnmappedRequiredCategories(t *testing.T) {
	mapping := map[string]string{"title": "Summary"}

	missing := UnmappedRequiredCategories(mapping)

	want := []ColumnCategory{CategoryDescription, CategoryDepartment}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("expected %v missing, got %v", want, missing)
	}

	full := map[string]string{"title": "a", "description": "b", "department": "c"}
	if missing := UnmappedRequiredCategories(full); missing != nil {
		t.Fatalf("expected nothing missing, got %v", missing)
	}
}

func TestComputeStatistics(t *testing.T) {
	columns := []ColumnClassification{
		{Category: CategoryTitle, Confidence: 0.9},
		{Category: CategoryOther, Confidence: 0.2, NeedsManualReview: true},
		{Category: CategoryDepartment, Confidence: 0.8},
	}
	departments := []DepartmentClassification{
		{Source: SourceNormalized, Confidence: 0.9},
		{Source: SourceInferred, Confidence: 0.3, NeedsManualReview: true},
	}
	usage := LLMUsage{InputTokens: 500, OutputTokens: 50}

	stats := ComputeStatistics(columns, departments, usage)

	if stats.TotalColumns != 3 || stats.ColumnsClassified != 2 || stats.ColumnsNeedingReview != 1 {
		t.Fatalf("unexpected column stats: %+v", stats)
	}
	if stats.TotalRowsProcessed != 2 || stats.DepartmentsNormalized != 1 || stats.DepartmentsInferred != 1 || stats.DepartmentsNeedingReview != 1 {
		t.Fatalf("unexpected department stats: %+v", stats)
	}
	if stats.LLMInputTokens != 500 || stats.LLMOutputTokens != 50 {
		t.Fatalf("unexpected usage stats: %+v", stats)
	}
}

func TestReportRoundTrip(t *testing.T) {
	columns := []ColumnClassification{
		{OriginalName: "Summary", Category: CategoryTitle, Confidence: 0.9},
		{OriginalName: "Notes", Category: CategoryOther, Confidence: 0.1, NeedsManualReview: true, Reason: "Low confidence (0.10)"},
	}
	departments := []DepartmentClassification{
		{Row: 0, Original: "IT", Suggested: DepartmentIT, Confidence: 0.95, Source: SourceNormalized},
	}
	mapping, _ := BuildColumnMapping(columns)
	report := &Report{
		FilePath:                  "audit.csv",
		FileSummary:               TableSummary{TotalRows: 1, TotalColumns: 2, ColumnNames: []string{"Summary", "Notes"}},
		ColumnClassifications:     columns,
		ColumnMapping:             mapping,
		DepartmentClassifications: departments,
		Statistics:                ComputeStatistics(columns, departments, LLMUsage{}),
	}

	path := filepath.Join(t.TempDir(), "audit_classification_results.json")
	if err := WriteReport(report, path); err != nil {
		t.Fatalf("write report: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report back: %v", err)
	}
	var parsed Report
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("parse report back: %v", err)
	}

	if !reflect.DeepEqual(parsed.Statistics, report.Statistics) {
		t.Fatalf("statistics changed across round trip: %+v vs %+v", parsed.Statistics, report.Statistics)
	}
	classified := 0
	for _, c := range parsed.ColumnClassifications {
		if c.Category != CategoryOther {
			classified++
		}
	}
	if parsed.Statistics.ColumnsClassified != classified {
		t.Fatalf("columns_classified %d does not match classification list %d", parsed.Statistics.ColumnsClassified, classified)
	}
	if parsed.ColumnMapping["title"] != "Summary" {
		t.Fatalf("unexpected mapping after round trip: %v", parsed.ColumnMapping)
	}
}

func TestReportJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(&Report{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{
		`"file_path"`, `"file_summary"`, `"column_classifications"`,
		`"column_mapping"`, `"department_classifications"`, `"statistics"`,
	} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("report JSON missing key %s: %s", key, data)
		}
	}
}

func TestReportOutputPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"audit.csv", "audit_classification_results.json"},
		{filepath.Join("data", "q3.xlsx"), filepath.Join("data", "q3_classification_results.json")},
		{"no_extension", "no_extension_classification_results.json"},
	}
	for _, tc := range cases {
		if got := ReportOutputPath(tc.in); got != tc.want {
			t.Fatalf("ReportOutputPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDepartmentRowLimit(t *testing.T) {
	cases := []struct {
		limit     int
		totalRows int
		want      int
	}{
		{5, 100, 5},
		{5, 3, 3},
		{-1, 100, 100},
		{10, 10, 10},
	}
	for _, tc := range cases {
		cfg := Config{DepartmentRowLimit: tc.limit}
		if got := departmentRowLimit(cfg, tc.totalRows); got != tc.want {
			t.Fatalf("departmentRowLimit(%d, %d) = %d, want %d", tc.limit, tc.totalRows, got, tc.want)
		}
	}
}
