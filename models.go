package main

// ColumnClassification is the per-column result. When Confidence falls below
// the threshold, Category is forced to OTHER and NeedsManualReview is set.
type ColumnClassification struct {
	OriginalName      string         `json:"original_name"`
	Category          ColumnCategory `json:"category"`
	Confidence        float64        `json:"confidence"`
	NeedsManualReview bool           `json:"needs_manual_review"`
	Reason            string         `json:"reason,omitempty"`
}

// DepartmentSource records how a row's department suggestion was produced.
type DepartmentSource string

const (
	SourceNormalized DepartmentSource = "normalized"
	SourceInferred   DepartmentSource = "inferred_from_content"
)

// DepartmentClassification is the per-row result of the department pass.
type DepartmentClassification struct {
	Row               int              `json:"row"`
	Original          string           `json:"original"`
	Suggested         Department       `json:"suggested"`
	Confidence        float64          `json:"confidence"`
	Source            DepartmentSource `json:"source"`
	NeedsManualReview bool             `json:"needs_manual_review"`
	Reason            string           `json:"reason,omitempty"`
}

// RowFields carries the mapped cells the department pass needs from one row.
// Empty string means the field is absent for that row.
type RowFields struct {
	Index       int
	Title       string
	Description string
	Department  string
}
