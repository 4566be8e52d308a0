package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Table is an in-memory spreadsheet: a header row plus data rows. Every row
// is padded to len(Columns); a cell is "missing" when it is empty after
// trimming.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Column returns all cell values for the column at idx, in row order.
func (t *Table) Column(idx int) []string {
	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		values = append(values, row[idx])
	}
	return values
}

func nonMissing(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// DetectFileKind maps the file extension to a reader kind. The file must
// exist; an unrecognized extension comes back as "unknown".
func DetectFileKind(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("file not found: %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return "xlsx", nil
	case ".xls":
		return "xls", nil
	case ".csv":
		return "csv", nil
	default:
		return "unknown", nil
	}
}

// ReadTable detects the file kind and reads the file into a Table.
func ReadTable(path string) (*Table, error) {
	kind, err := DetectFileKind(path)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "xlsx":
		return readXLSX(path)
	case "xls":
		return readXLS(path)
	case "csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

type csvEncoding struct {
	name    string
	decoder *encoding.Decoder
}

// csvEncodings is the fallback chain for CSV decoding; the first encoding
// that decodes the whole file wins. UTF-8 is checked by validity, the rest
// through x/text charmap decoders.
var csvEncodings = []csvEncoding{
	{name: "utf-8"},
	{name: "latin-1", decoder: charmap.ISO8859_1.NewDecoder()},
	{name: "iso-8859-1", decoder: charmap.ISO8859_1.NewDecoder()},
	{name: "windows-1252", decoder: charmap.Windows1252.NewDecoder()},
	{name: "cp1252", decoder: charmap.Windows1252.NewDecoder()},
}

func decodeWithFallback(data []byte) (string, string, error) {
	for _, enc := range csvEncodings {
		if enc.decoder == nil {
			if utf8.Valid(data) {
				return string(data), enc.name, nil
			}
			continue
		}
		decoded, err := enc.decoder.Bytes(data)
		if err != nil {
			continue
		}
		return string(decoded), enc.name, nil
	}
	return "", "", fmt.Errorf("could not decode CSV with any of utf-8, latin-1, iso-8859-1, windows-1252, cp1252")
}

func readCSV(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	text, encName, err := decodeWithFallback(data)
	if err != nil {
		return nil, err
	}
	if encName != "utf-8" {
		fmt.Printf("  Note: decoded CSV using %s\n", encName)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv file is empty")
	}

	table := &Table{Columns: headerNames(records[0])}
	for _, record := range records[1:] {
		table.Rows = append(table.Rows, padRow(record, len(table.Columns)))
	}
	return table, nil
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	return tableFromRawRows(rows)
}

func readXLS(path string) (*Table, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open legacy workbook: %w", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("legacy workbook has no sheets")
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return tableFromRawRows(rows)
}

// tableFromRawRows turns raw sheet rows into a Table: fully-empty leading
// rows are dropped, then the first surviving row either becomes the header
// (per IsHeaderRow) or header names are synthesized.
func tableFromRawRows(rows [][]string) (*Table, error) {
	var kept [][]string
	width := 0
	for _, row := range rows {
		if len(nonMissing(row)) == 0 {
			continue
		}
		kept = append(kept, row)
		if len(row) > width {
			width = len(row)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("sheet has no non-empty rows")
	}

	first := padRow(kept[0], width)
	table := &Table{}
	var dataRows [][]string
	if IsHeaderRow(first) {
		table.Columns = headerNames(first)
		dataRows = kept[1:]
	} else {
		table.Columns = make([]string, width)
		for i := range table.Columns {
			table.Columns[i] = fmt.Sprintf("Column_%d", i)
		}
		dataRows = kept
	}
	for _, row := range dataRows {
		table.Rows = append(table.Rows, padRow(row, len(table.Columns)))
	}
	return table, nil
}

// IsHeaderRow reports whether a raw first row looks like a header: more than
// half of its cells are non-empty and not numeric.
func IsHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	textual := 0
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			continue
		}
		textual++
	}
	return 2*textual > len(row)
}

func headerNames(row []string) []string {
	names := make([]string, len(row))
	for i, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			cell = fmt.Sprintf("Column_%d", i)
		}
		names[i] = cell
	}
	return names
}

func padRow(row []string, width int) []string {
	out := make([]string, width)
	for i := 0; i < width && i < len(row); i++ {
		out[i] = row[i]
	}
	return out
}

// CleanTable trims header and cell whitespace and drops rows where every
// cell is empty. Returns how many rows were removed.
func CleanTable(t *Table) int {
	for i, name := range t.Columns {
		t.Columns[i] = strings.TrimSpace(name)
	}
	kept := t.Rows[:0]
	removed := 0
	for _, row := range t.Rows {
		empty := true
		for j, cell := range row {
			row[j] = strings.TrimSpace(cell)
			if row[j] != "" {
				empty = false
			}
		}
		if empty {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	t.Rows = kept
	return removed
}

type TableSummary struct {
	TotalRows          int      `json:"total_rows"`
	TotalColumns       int      `json:"total_columns"`
	ColumnNames        []string `json:"column_names"`
	MemoryUsageMB      float64  `json:"memory_usage_mb"`
	HasMissingValues   bool     `json:"has_missing_values"`
	TotalMissingValues int      `json:"total_missing_values"`
}

// Summarize computes row/column counts, an approximate in-memory size, and
// missing-value counts for a cleaned table.
func Summarize(t *Table) TableSummary {
	bytes := 0
	for _, name := range t.Columns {
		bytes += len(name)
	}
	missing := 0
	for _, row := range t.Rows {
		for _, cell := range row {
			bytes += len(cell)
			if strings.TrimSpace(cell) == "" {
				missing++
			}
		}
	}
	return TableSummary{
		TotalRows:          len(t.Rows),
		TotalColumns:       len(t.Columns),
		ColumnNames:        append([]string(nil), t.Columns...),
		MemoryUsageMB:      math.Round(float64(bytes)/(1024*1024)*100) / 100,
		HasMissingValues:   missing > 0,
		TotalMissingValues: missing,
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// inferColumnType assigns a coarse type label to a column from its
// non-missing values: integer, float, date, text, or empty.
func inferColumnType(values []string) string {
	values = nonMissing(values)
	if len(values) == 0 {
		return "empty"
	}
	allInt, allFloat, allDate := true, true, true
	for _, v := range values {
		v = strings.TrimSpace(v)
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			allFloat = false
		}
		if !parsesAsDate(v) {
			allDate = false
		}
	}
	switch {
	case allInt:
		return "integer"
	case allFloat:
		return "float"
	case allDate:
		return "date"
	default:
		return "text"
	}
}

func parsesAsDate(v string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

// ExtractRowFields pulls the mapped title/description/department cell from
// each row. A category missing from the mapping leaves that field empty for
// every row.
func ExtractRowFields(t *Table, mapping map[string]string) []RowFields {
	indexOf := func(category ColumnCategory) int {
		name, ok := mapping[string(category)]
		if !ok {
			return -1
		}
		for i, col := range t.Columns {
			if col == name {
				return i
			}
		}
		return -1
	}
	titleIdx := indexOf(CategoryTitle)
	descIdx := indexOf(CategoryDescription)
	deptIdx := indexOf(CategoryDepartment)

	rows := make([]RowFields, 0, len(t.Rows))
	for i, row := range t.Rows {
		fields := RowFields{Index: i}
		if titleIdx >= 0 {
			fields.Title = row[titleIdx]
		}
		if descIdx >= 0 {
			fields.Description = row[descIdx]
		}
		if deptIdx >= 0 {
			fields.Department = row[deptIdx]
		}
		rows = append(rows, fields)
	}
	return rows
}
