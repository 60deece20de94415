package exporter

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-pdf/fpdf"
)

// WritePDF renders the report as a single PDF document with summary,
// cleaning details and a descriptive statistics table.
func WritePDF(w io.Writer, data ReportData) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Dataset Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Dataset Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, data.Filename, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writePDFSection(pdf, "Summary", [][2]string{
		{"Total rows", fmt.Sprintf("%d", data.Analysis.Rows)},
		{"Total columns", fmt.Sprintf("%d", data.Analysis.Columns)},
		{"Numeric columns", fmt.Sprintf("%d", len(data.Analysis.NumericColumns))},
		{"Categorical columns", fmt.Sprintf("%d", len(data.Analysis.CategoricalColumns))},
		{"Missing values", fmt.Sprintf("%d", data.Analysis.MissingCount)},
		{"Duplicate rows", fmt.Sprintf("%d", data.Analysis.DuplicateRows)},
		{"Memory usage (MB)", fmt.Sprintf("%.2f", data.Analysis.MemoryUsageMB)},
	})

	writePDFSection(pdf, "Cleaning", [][2]string{
		{"Original rows", fmt.Sprintf("%d", data.Cleaning.Original.Rows)},
		{"Rows removed", fmt.Sprintf("%d", data.Cleaning.Cleaned.RowsRemoved)},
		{"Missing values filled", fmt.Sprintf("%d", data.Cleaning.Cleaned.MissingValuesFilled)},
		{"Duplicate rows removed", fmt.Sprintf("%d", data.Cleaning.Cleaned.DuplicateRowsRemoved)},
	})

	if len(data.Tables.DescriptiveStatistics) > 0 {
		writePDFStats(pdf, data)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

func writePDFSection(pdf *fpdf.Fpdf, title string, rows [][2]string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	for _, row := range rows {
		pdf.CellFormat(60, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func writePDFStats(pdf *fpdf.Fpdf, data ReportData) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Descriptive Statistics", "", 1, "L", false, 0, "")

	headers := []string{"column", "count", "mean", "std", "min", "median", "max"}
	widths := []float64{40, 20, 26, 26, 26, 26, 26}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	columns := make([]string, 0, len(data.Tables.DescriptiveStatistics))
	for col := range data.Tables.DescriptiveStatistics {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	pdf.SetFont("Helvetica", "", 9)
	for _, col := range columns {
		s := data.Tables.DescriptiveStatistics[col]
		cells := []string{
			col,
			fmt.Sprintf("%.0f", s.Count),
			formatFloat(s.Mean),
			formatFloat(s.Std),
			formatFloat(s.Min),
			formatFloat(s.Q50),
			formatFloat(s.Max),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
