package exporter

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"datalens/internal/dataset"
)

// ReportData bundles everything the report exporters render
type ReportData struct {
	Filename string
	Frame    *dataset.Frame
	Analysis dataset.Analysis
	Tables   dataset.Tables
	Cleaning dataset.CleaningReport
}

// WriteWorkbook renders the report as an Excel workbook with Summary,
// Descriptive Statistics and Cleaned Data sheets.
func WriteWorkbook(w io.Writer, data ReportData) error {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if err := writeSummarySheet(f, summarySheet, data); err != nil {
		return err
	}

	if len(data.Tables.DescriptiveStatistics) > 0 {
		if err := writeStatsSheet(f, data.Tables.DescriptiveStatistics); err != nil {
			return err
		}
	}

	if data.Frame != nil {
		if err := writeDataSheet(f, data.Frame); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, sheet string, data ReportData) error {
	rows := [][]interface{}{
		{"Dataset Report", data.Filename},
		{},
		{"Total rows", data.Analysis.Rows},
		{"Total columns", data.Analysis.Columns},
		{"Numeric columns", len(data.Analysis.NumericColumns)},
		{"Categorical columns", len(data.Analysis.CategoricalColumns)},
		{"Missing values", data.Analysis.MissingCount},
		{"Duplicate rows", data.Analysis.DuplicateRows},
		{"Memory usage (MB)", data.Analysis.MemoryUsageMB},
		{},
		{"Cleaning"},
		{"Original rows", data.Cleaning.Original.Rows},
		{"Rows removed", data.Cleaning.Cleaned.RowsRemoved},
		{"Missing values filled", data.Cleaning.Cleaned.MissingValuesFilled},
		{"Duplicate rows removed", data.Cleaning.Cleaned.DuplicateRowsRemoved},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("building cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing summary row: %w", err)
		}
	}
	return nil
}

func writeStatsSheet(f *excelize.File, stats map[string]dataset.DescriptiveStats) error {
	const sheet = "Descriptive Statistics"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating stats sheet: %w", err)
	}

	header := []interface{}{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing stats header: %w", err)
	}

	columns := make([]string, 0, len(stats))
	for col := range stats {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	for i, col := range columns {
		s := stats[col]
		row := []interface{}{col, s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("building cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing stats row: %w", err)
		}
	}
	return nil
}

func writeDataSheet(f *excelize.File, frame *dataset.Frame) error {
	const sheet = "Cleaned Data"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating data sheet: %w", err)
	}

	header := toInterfaces(frame.Columns())
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing data header: %w", err)
	}

	for i, row := range frame.Records() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("building cell name: %w", err)
		}
		values := toInterfaces(row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing data row: %w", err)
		}
	}
	return nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
