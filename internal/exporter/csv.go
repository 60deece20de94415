package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"datalens/internal/dataset"
)

// CSVOptions configures CSV rendering
type CSVOptions struct {
	// BOMPrefix adds a UTF-8 BOM so Excel opens the file correctly
	BOMPrefix bool
}

// WriteCSV streams the frame as CSV to w
func WriteCSV(w io.Writer, f *dataset.Frame, options CSVOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("writing BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(f.Columns()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range f.Records() {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
