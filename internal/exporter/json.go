package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"datalens/internal/dataset"
)

// WriteJSON streams the frame as an array of records to w. Numeric
// cells are emitted as JSON numbers, everything else as strings.
func WriteJSON(w io.Writer, f *dataset.Frame) error {
	columns := f.Columns()
	records := make([]map[string]interface{}, 0, f.NumRows())

	for _, row := range f.Records() {
		record := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			record[col] = cellValue(row[i], f.Type(i))
		}
		records = append(records, record)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	return nil
}

// cellValue converts a raw cell to its JSON representation
func cellValue(cell string, t dataset.ColumnType) interface{} {
	if dataset.IsMissing(cell) {
		return nil
	}
	if t.IsNumeric() {
		if v, err := strconv.ParseFloat(cell, 64); err == nil {
			return v
		}
	}
	return cell
}
