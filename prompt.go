package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

func quotedList[T ~string](items []T) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("'%s'", string(item))
	}
	return strings.Join(parts, ", ")
}

// BuildColumnPrompt renders the column-classification instruction. It embeds
// the literal header, the inferred coarse type, the sampled values, and the
// fixed category list, and demands a strict JSON reply with exactly the keys
// "category" and "confidence".
func BuildColumnPrompt(header, dtype string, samples []string, categories []ColumnCategory) string {
	samplesJSON, _ := json.MarshalIndent(samples, "", "  ")

	var b strings.Builder
	b.WriteString("**TASK:** You are an expert data classification engine. Your task is to analyze a column's header and sampled data to assign it to one of the provided fixed categories.\n\n")
	b.WriteString("**CONTEXT:**\n")
	fmt.Fprintf(&b, "1.  **FIXED CATEGORIES:** The only valid categories you can return are: %s. You MUST select one of these. Use 'OTHER' only if the column does not fit any other category.\n", quotedList(categories))
	b.WriteString("2.  **DATA DOMAIN:** The data is related to governmental audits and compliance tracking.\n")
	b.WriteString(`3.  **CATEGORY DESCRIPTIONS:**
    - ticket_number: Unique identifier for the audit finding/ticket
    - title: Main title or name of the audit finding
    - description: Detailed description of the audit finding, is usually detailed long text describing the audit finding or observation
    - department: Department or organizational unit
    - priority: Priority, risk level, severity rating, or impact level (examples: low/medium/high/critical, or minor/moderate/major/severe, or 1-5 numeric scale)
    - status: Current status (open, in_progress, resolved, closed, pending, etc.)
    - due_date: Due date, deadline, or target date
    - assigned_to: Person or team assigned to handle the finding
    - created_at: Creation date/timestamp
    - OTHER: Anything that doesn't fit the above categories

`)
	b.WriteString(`**IMPORTANT INSTRUCTIONS:**
- Use SEMANTIC UNDERSTANDING: Recognize synonyms and similar concepts (e.g., 'Rating' can mean 'Priority', 'Moderate' equals 'Medium', 'Severity' equals 'Priority', 'Target Date' equals 'Due Date')
- Focus on the PATTERN and MEANING of the sampled values, not exact word matches
- Prioritize sample data content over header name when making classification decisions
- If sample values clearly indicate a category (e.g., low/high/moderate values indicate priority), classify accordingly even if the header name differs

`)
	b.WriteString("**INPUT DATA:**\n")
	fmt.Fprintf(&b, "* Original Header: %q\n", header)
	fmt.Fprintf(&b, "* Inferred Data Type: %q\n", dtype)
	fmt.Fprintf(&b, "* Sampled Values: %s\n\n", samplesJSON)
	b.WriteString(`**OUTPUT REQUIREMENTS (STRICT):**
1.  **Classification:** Select the SINGLE best-fit category based on semantic meaning.
2.  **Confidence Score:** Provide a score from 0.0 to 1.0 (float).
3.  **Format:** You MUST return the output as a single, valid JSON object with the keys 'category' and 'confidence'. DO NOT include any other text, explanation, or markdown formatting outside of the JSON block.

**EXAMPLE OUTPUT:**
{"category": "title", "confidence": 0.95}
`)
	return b.String()
}

const absentField = "N/A"

func orPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return absentField
	}
	return v
}

// BuildDepartmentPrompt renders the department instruction in one of two
// modes: "normalize and map" when the row carries a department value, or
// "infer from content" when the field is blank after trimming. Missing title
// or description render as an explicit placeholder, never silently dropped.
func BuildDepartmentPrompt(departmentValue, title, description string, departments []Department) string {
	var taskType, inputSection string
	if strings.TrimSpace(departmentValue) != "" {
		taskType = "normalize and map"
		inputSection = fmt.Sprintf(`* Original Department Value: %q
* Audit Title: %q
* Audit Description: %q

**YOUR TASK:** Map the original department value to one of the fixed departments. If the original value clearly matches or is similar to one of the fixed departments, map it. Otherwise, use the title and description as context.`,
			departmentValue, orPlaceholder(title), orPlaceholder(description))
	} else {
		taskType = "infer from content"
		inputSection = fmt.Sprintf(`* Original Department Value: [EMPTY]
* Audit Title: %q
* Audit Description: %q

**YOUR TASK:** The department field is empty. Analyze the audit title and description to infer the most appropriate department from the fixed list.`,
			orPlaceholder(title), orPlaceholder(description))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**TASK:** You are an expert department classification engine. Your task is to %s a department for audit findings.\n\n", taskType)
	b.WriteString("**CONTEXT:**\n")
	fmt.Fprintf(&b, "1.  **FIXED DEPARTMENTS:** The only valid departments you can return are: %s. You MUST select one of these. Use 'OTHER' only if you cannot confidently determine the department.\n", quotedList(departments))
	b.WriteString("2.  **DATA DOMAIN:** The data is related to governmental audits and compliance.\n")
	b.WriteString(`3.  **DEPARTMENT DESCRIPTIONS:**
    - IT: Information Technology, systems, software, infrastructure
    - Finance: Accounting, budgets, financial controls, procurement
    - HR: Human Resources, personnel, recruitment, training
    - Operations: Business operations, processes, logistics
    - Legal: Legal compliance, contracts, regulations
    - Compliance: Regulatory compliance, audit controls, risk management
    - Marketing: Marketing, communications, public relations
    - Sales: Sales, revenue, customer relations
    - OTHER: Cannot determine or doesn't fit above categories

`)
	b.WriteString("**INPUT DATA:**\n")
	b.WriteString(inputSection)
	b.WriteString(`

**OUTPUT REQUIREMENTS (STRICT):**
1.  **Classification:** Select the SINGLE best-fit department.
2.  **Confidence Score:** Provide a score from 0.0 to 1.0 (float).
3.  **Format:** You MUST return the output as a single, valid JSON object with the keys 'department' and 'confidence'. DO NOT include any other text, explanation, or markdown formatting outside of the JSON block.

**EXAMPLE OUTPUT:**
{"department": "IT", "confidence": 0.88}
`)
	return b.String()
}
