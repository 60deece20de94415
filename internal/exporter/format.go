package exporter

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// timestampLayout produces filenames like data_cleaned_20260826_153045.csv
const timestampLayout = "20060102_150405"

// CleanedFilename builds the download name for a cleaned dataset
func CleanedFilename(original, ext string, now time.Time) string {
	return exportFilename(original, "cleaned", ext, now)
}

// ReportFilename builds the download name for an analysis report
func ReportFilename(original, ext string, now time.Time) string {
	return exportFilename(original, "report", ext, now)
}

func exportFilename(original, kind, ext string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	if base == "" {
		base = "data"
	}
	return fmt.Sprintf("%s_%s_%s.%s", base, kind, now.Format(timestampLayout), ext)
}

// formatFloat renders a float for report cells
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
