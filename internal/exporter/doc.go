// Package exporter writes grouped statistics results to report files.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// ReportExporter: Flattens a grouped-statistics tree into rows and
// writes CSV, JSON and Excel workbook reports.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(cfg)
//	reports := exporter.NewReportExporter(writer, logger)
//
//	err := reports.ExportCSV(result, "34_2_1_phie.csv")
//	err = reports.ExportWorkbook([]*depthstats.GroupedStatistics{result}, "34_2_1.xlsx")
package exporter
