// Package dataset implements the in-memory tabular data model plus the
// reading, cleaning and analysis pipeline applied to uploaded files.
package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Sentinel errors shared by the dataset pipeline
var (
	ErrEmpty             = errors.New("dataset is empty")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrColumnNotFound    = errors.New("column not found")
)

// ColumnType mirrors the dtype names the analysis payload reports
type ColumnType string

const (
	TypeInt    ColumnType = "int64"
	TypeFloat  ColumnType = "float64"
	TypeObject ColumnType = "object"
)

// IsNumeric reports whether the column type holds numbers
func (t ColumnType) IsNumeric() bool {
	return t == TypeInt || t == TypeFloat
}

// missingSentinels are cell values treated as missing, case-insensitive
var missingSentinels = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"nan":  true,
	"none": true,
}

// IsMissing reports whether a raw cell value counts as missing
func IsMissing(cell string) bool {
	return missingSentinels[strings.ToLower(strings.TrimSpace(cell))]
}

// Frame is an immutable rectangular dataset with typed columns.
// Cells are kept as trimmed strings; numeric parsing happens on access.
type Frame struct {
	columns []string
	rows    [][]string
	types   []ColumnType
}

// New builds a Frame from a header and raw records. Short records are
// padded with empty cells, long ones truncated to the header width.
func New(columns []string, records [][]string) (*Frame, error) {
	if len(columns) == 0 {
		return nil, ErrEmpty
	}

	cols := make([]string, len(columns))
	for i, c := range columns {
		c = strings.TrimSpace(c)
		if c == "" {
			c = fmt.Sprintf("column_%d", i+1)
		}
		cols[i] = c
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(cols))
		for i := range cols {
			if i < len(rec) {
				row[i] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}

	f := &Frame{columns: cols, rows: rows}
	f.types = inferTypes(f)
	return f, nil
}

// FromMaps builds a Frame from decoded JSON records. Column order is the
// sorted union of keys so the result is deterministic.
func FromMaps(records []map[string]interface{}) (*Frame, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	seen := make(map[string]bool)
	var columns []string
	for _, rec := range records {
		for key := range rec {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	sort.Strings(columns)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := rec[col]; ok && v != nil {
				row[i] = formatValue(v)
			}
		}
		rows = append(rows, row)
	}

	return New(columns, rows)
}

// formatValue renders a decoded JSON value as a cell string
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// inferTypes determines each column's type from its non-missing cells
func inferTypes(f *Frame) []ColumnType {
	types := make([]ColumnType, len(f.columns))
	for c := range f.columns {
		allInt, allFloat, any := true, true, false
		for r := range f.rows {
			cell := f.rows[r][c]
			if IsMissing(cell) {
				continue
			}
			any = true
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				allInt = false
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				allFloat = false
				break
			}
		}
		switch {
		case !any:
			types[c] = TypeObject
		case allInt:
			types[c] = TypeInt
		case allFloat:
			types[c] = TypeFloat
		default:
			types[c] = TypeObject
		}
	}
	return types
}

// NumRows returns the number of data rows
func (f *Frame) NumRows() int { return len(f.rows) }

// NumCols returns the number of columns
func (f *Frame) NumCols() int { return len(f.columns) }

// Columns returns the column names in order
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// ColumnIndex returns the position of a named column
func (f *Frame) ColumnIndex(name string) (int, bool) {
	for i, c := range f.columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// Type returns the inferred type of the column at index i
func (f *Frame) Type(i int) ColumnType { return f.types[i] }

// TypeOf returns the inferred type of a named column
func (f *Frame) TypeOf(name string) (ColumnType, error) {
	i, ok := f.ColumnIndex(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return f.types[i], nil
}

// Cell returns the raw value at (row, col) and whether it is missing
func (f *Frame) Cell(row, col int) (string, bool) {
	cell := f.rows[row][col]
	return cell, IsMissing(cell)
}

// Row returns a copy of the raw row at index i
func (f *Frame) Row(i int) []string {
	out := make([]string, len(f.rows[i]))
	copy(out, f.rows[i])
	return out
}

// Records returns copies of all raw rows
func (f *Frame) Records() [][]string {
	out := make([][]string, len(f.rows))
	for i := range f.rows {
		out[i] = f.Row(i)
	}
	return out
}

// NumericValues returns the parsed non-missing values of a column
func (f *Frame) NumericValues(name string) ([]float64, error) {
	i, ok := f.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}

	values := make([]float64, 0, len(f.rows))
	for r := range f.rows {
		cell := f.rows[r][i]
		if IsMissing(cell) {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values, nil
}

// NumericColumns returns names of columns with a numeric type
func (f *Frame) NumericColumns() []string {
	var out []string
	for i, c := range f.columns {
		if f.types[i].IsNumeric() {
			out = append(out, c)
		}
	}
	return out
}

// CategoricalColumns returns names of columns with object type
func (f *Frame) CategoricalColumns() []string {
	var out []string
	for i, c := range f.columns {
		if f.types[i] == TypeObject {
			out = append(out, c)
		}
	}
	return out
}

// MissingCount returns the number of missing cells in a column
func (f *Frame) MissingCount(col int) int {
	count := 0
	for r := range f.rows {
		if IsMissing(f.rows[r][col]) {
			count++
		}
	}
	return count
}

// TotalMissing returns the number of missing cells in the whole frame
func (f *Frame) TotalMissing() int {
	total := 0
	for c := range f.columns {
		total += f.MissingCount(c)
	}
	return total
}

// DuplicateRowCount counts rows that are exact duplicates of earlier rows
func (f *Frame) DuplicateRowCount() int {
	seen := make(map[string]bool, len(f.rows))
	dups := 0
	for _, row := range f.rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			dups++
		} else {
			seen[key] = true
		}
	}
	return dups
}

// MemoryUsageMB approximates the frame's in-memory footprint in megabytes
func (f *Frame) MemoryUsageMB() float64 {
	bytes := 0
	for _, c := range f.columns {
		bytes += len(c) + 16
	}
	for _, row := range f.rows {
		for _, cell := range row {
			bytes += len(cell) + 16
		}
	}
	mb := float64(bytes) / 1024 / 1024
	return roundTo(mb, 2)
}

// roundTo rounds v to n decimal places
func roundTo(v float64, n int) float64 {
	pow := 1.0
	for i := 0; i < n; i++ {
		pow *= 10
	}
	if v >= 0 {
		return float64(int64(v*pow+0.5)) / pow
	}
	return float64(int64(v*pow-0.5)) / pow
}
