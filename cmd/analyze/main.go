// Command analyze runs the cleaning and analysis pipeline against a
// local file and writes the reports without starting the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"datalens/internal/config"
	"datalens/internal/infrastructure"
	"datalens/internal/services"
)

func main() {
	var (
		reportsDir = flag.String("reports", "reports", "directory report files are written to")
		asJSON     = flag.Bool("json", false, "print the full analysis payload as JSON")
		logLevel   = flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	logger, _ := infrastructure.MustNewLogger(config.LoggingConfig{
		Level:  *logLevel,
		Output: "stdout",
	})

	if err := run(context.Background(), path, *reportsDir, *asJSON, logger); err != nil {
		logger.Error("analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, path, reportsDir string, asJSON bool, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	data := services.NewDataService(nil, nil, logger)
	result, err := data.ProcessUpload(ctx, path, f)
	if err != nil {
		return err
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	printSummary(path, result)

	reports := services.NewReportService(data, reportsDir, nil, logger)
	generated, err := reports.GenerateAll(ctx)
	if err != nil {
		return err
	}

	fmt.Println("\nReports:")
	for _, report := range generated {
		if report.Error != "" {
			fmt.Printf("  %-14s failed: %s\n", report.Format, report.Error)
			continue
		}
		fmt.Printf("  %-14s %s\n", report.Format, report.Filename)
	}
	return nil
}

func printSummary(path string, result *services.UploadResult) {
	fmt.Printf("File:    %s (%s)\n", path, result.FileFormat)
	fmt.Printf("Shape:   %d rows x %d columns\n", result.Rows, result.Columns)
	fmt.Printf("Numeric: %v\n", result.NumericColumns)
	fmt.Printf("Text:    %v\n", result.CategoricalColumns)

	cleaned := result.CleaningReport.Cleaned
	fmt.Printf("Cleaned: %d rows removed, %d missing values filled, %d duplicates dropped\n",
		cleaned.RowsRemoved, cleaned.MissingValuesFilled, cleaned.DuplicateRowsRemoved)
}
