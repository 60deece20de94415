package dataset

import (
	"strconv"
	"strings"
)

// OriginalStats captures the dataset shape before cleaning
type OriginalStats struct {
	Rows          int            `json:"rows"`
	Columns       int            `json:"columns"`
	MissingValues map[string]int `json:"missing_values"`
	DuplicateRows int            `json:"duplicate_rows"`
}

// CleanedStats captures the dataset shape after cleaning
type CleanedStats struct {
	Rows                 int `json:"rows"`
	Columns              int `json:"columns"`
	RowsRemoved          int `json:"rows_removed"`
	MissingValuesFilled  int `json:"missing_values_filled"`
	DuplicateRowsRemoved int `json:"duplicate_rows_removed"`
}

// CleaningReport summarizes what cleaning changed
type CleaningReport struct {
	Original OriginalStats `json:"original"`
	Cleaned  CleanedStats  `json:"cleaned"`
}

// Clean deduplicates rows, imputes missing values (median for numeric
// columns, mode for categorical) and drops any rows still incomplete.
// The input frame is left untouched.
func Clean(f *Frame) (*Frame, CleaningReport, error) {
	original := OriginalStats{
		Rows:          f.NumRows(),
		Columns:       f.NumCols(),
		MissingValues: make(map[string]int, f.NumCols()),
		DuplicateRows: f.DuplicateRowCount(),
	}
	for i, col := range f.Columns() {
		original.MissingValues[col] = f.MissingCount(i)
	}

	rows := dedupeRows(f.Records())

	// Per-column imputation values computed from the deduplicated rows
	columns := f.Columns()
	fills := make([]string, len(columns))
	for c := range columns {
		if countMissing(rows, c) == 0 {
			continue
		}
		if f.Type(c).IsNumeric() {
			values := parseColumn(rows, c)
			if len(values) > 0 {
				fills[c] = strconv.FormatFloat(Median(values), 'g', -1, 64)
			}
		} else {
			if mode, ok := columnMode(rows, c); ok {
				fills[c] = mode
			} else {
				fills[c] = "Unknown"
			}
		}
	}

	for _, row := range rows {
		for c := range row {
			if IsMissing(row[c]) && fills[c] != "" {
				row[c] = fills[c]
			}
		}
	}

	// Drop rows that still have missing cells, then dedupe again
	kept := rows[:0]
	for _, row := range rows {
		complete := true
		for _, cell := range row {
			if IsMissing(cell) {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, row)
		}
	}
	kept = dedupeRows(kept)

	cleaned, err := New(columns, kept)
	if err != nil {
		return nil, CleaningReport{}, err
	}

	filled := 0
	for _, n := range original.MissingValues {
		filled += n
	}

	report := CleaningReport{
		Original: original,
		Cleaned: CleanedStats{
			Rows:                 cleaned.NumRows(),
			Columns:              cleaned.NumCols(),
			RowsRemoved:          original.Rows - cleaned.NumRows(),
			MissingValuesFilled:  filled,
			DuplicateRowsRemoved: original.DuplicateRows,
		},
	}
	return cleaned, report, nil
}

// dedupeRows keeps the first occurrence of each distinct row
func dedupeRows(rows [][]string) [][]string {
	seen := make(map[string]bool, len(rows))
	out := rows[:0]
	for _, row := range rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return out
}

// countMissing counts missing cells in column c across rows
func countMissing(rows [][]string, c int) int {
	count := 0
	for _, row := range rows {
		if IsMissing(row[c]) {
			count++
		}
	}
	return count
}

// parseColumn returns the parseable non-missing numbers in column c
func parseColumn(rows [][]string, c int) []float64 {
	var values []float64
	for _, row := range rows {
		if IsMissing(row[c]) {
			continue
		}
		if v, err := strconv.ParseFloat(row[c], 64); err == nil {
			values = append(values, v)
		}
	}
	return values
}

// columnMode returns the most frequent non-missing value in column c
func columnMode(rows [][]string, c int) (string, bool) {
	var values []string
	for _, row := range rows {
		if !IsMissing(row[c]) {
			values = append(values, row[c])
		}
	}
	return Mode(values)
}
