package main

import (
	"fmt"
	"strings"
)

// ClassifyColumn runs the per-column pipeline: empty check, sampling, prompt,
// model call, confidence gate. An entirely empty column short-circuits to
// OTHER without spending a model call.
func ClassifyColumn(client *Classifier, name string, values []string) ColumnClassification {
	if len(nonMissing(values)) == 0 {
		return ColumnClassification{
			OriginalName:      name,
			Category:          CategoryOther,
			Confidence:        0.0,
			NeedsManualReview: true,
			Reason:            "Column is empty",
		}
	}

	samples := SampleColumnValues(values, columnSampleSeed)
	prompt := BuildColumnPrompt(name, inferColumnType(values), samples, ColumnCategories)
	category, confidence := client.ClassifyColumn(prompt)

	result := ColumnClassification{
		OriginalName: name,
		Category:     category,
		Confidence:   confidence,
	}
	if confidence < confidenceThreshold {
		result.Category = CategoryOther
		result.NeedsManualReview = true
		result.Reason = fmt.Sprintf("Low confidence (%.2f)", confidence)
	}
	return result
}

// NormalizeDepartment runs the per-row pipeline: alias short-circuit, prompt
// in the mode matching the original value, model call, provenance, gate.
// Rows are independent of each other.
func NormalizeDepartment(client *Classifier, aliases *DepartmentAliases, row RowFields) DepartmentClassification {
	original := strings.TrimSpace(row.Department)
	source := SourceInferred
	if original != "" {
		source = SourceNormalized
	}

	if original != "" {
		if dept, ok := aliases.Lookup(original); ok {
			return DepartmentClassification{
				Row:        row.Index,
				Original:   original,
				Suggested:  dept,
				Confidence: 1.0,
				Source:     SourceNormalized,
			}
		}
	}

	prompt := BuildDepartmentPrompt(row.Department, row.Title, row.Description, Departments)
	department, confidence := client.ClassifyDepartment(prompt)

	result := DepartmentClassification{
		Row:        row.Index,
		Original:   original,
		Suggested:  department,
		Confidence: confidence,
		Source:     source,
	}
	if confidence < confidenceThreshold {
		result.Suggested = DepartmentOther
		result.NeedsManualReview = true
		result.Reason = fmt.Sprintf("Low confidence (%.2f)", confidence)
	}
	return result
}
