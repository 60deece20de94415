// Package exporter renders cleaned datasets and analysis reports in
// the downloadable formats the export endpoints serve: CSV, JSON,
// Excel workbooks and PDF.
package exporter
