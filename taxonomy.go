package main

// ColumnCategory is the closed set of semantic roles a spreadsheet column can
// be assigned to. CategoryOther is the sentinel for anything unmatched.
type ColumnCategory string

const (
	CategoryTicketNumber ColumnCategory = "ticket_number"
	CategoryTitle        ColumnCategory = "title"
	CategoryDescription  ColumnCategory = "description"
	CategoryDepartment   ColumnCategory = "department"
	CategoryPriority     ColumnCategory = "priority"
	CategoryStatus       ColumnCategory = "status"
	CategoryDueDate      ColumnCategory = "due_date"
	CategoryAssignedTo   ColumnCategory = "assigned_to"
	CategoryCreatedAt    ColumnCategory = "created_at"
	CategoryOther        ColumnCategory = "OTHER"
)

// ColumnCategories lists every valid category in prompt order.
var ColumnCategories = []ColumnCategory{
	CategoryTicketNumber,
	CategoryTitle,
	CategoryDescription,
	CategoryDepartment,
	CategoryPriority,
	CategoryStatus,
	CategoryDueDate,
	CategoryAssignedTo,
	CategoryCreatedAt,
	CategoryOther,
}

func (c ColumnCategory) Valid() bool {
	for _, known := range ColumnCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Department is the closed set of organizational units an audit finding can
// belong to. DepartmentOther is the sentinel for anything unmatched.
type Department string

const (
	DepartmentIT         Department = "IT"
	DepartmentFinance    Department = "Finance"
	DepartmentHR         Department = "HR"
	DepartmentOperations Department = "Operations"
	DepartmentLegal      Department = "Legal"
	DepartmentCompliance Department = "Compliance"
	DepartmentMarketing  Department = "Marketing"
	DepartmentSales      Department = "Sales"
	DepartmentOther      Department = "OTHER"
)

// Departments lists every valid department in prompt order.
var Departments = []Department{
	DepartmentIT,
	DepartmentFinance,
	DepartmentHR,
	DepartmentOperations,
	DepartmentLegal,
	DepartmentCompliance,
	DepartmentMarketing,
	DepartmentSales,
	DepartmentOther,
}

func (d Department) Valid() bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

const (
	// confidenceThreshold gates every classification: anything below it is
	// downgraded to the OTHER sentinel and flagged for manual review.
	confidenceThreshold = 0.6

	// Sampling: the first firstSampleCount non-missing values plus up to
	// randomSampleCount seeded-random picks, capped at sampleCap after dedup.
	firstSampleCount  = 5
	randomSampleCount = 5
	sampleCap         = 10

	// columnSampleSeed keeps sampling reproducible across runs.
	columnSampleSeed = 1

	// defaultDepartmentRowLimit bounds the per-row department pass when the
	// config does not say otherwise. -1 in the config means every row.
	defaultDepartmentRowLimit = 5
)
