package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"wellstats/internal/depthstats"
)

// ReportExporter flattens grouped-statistics trees into tabular reports.
type ReportExporter struct {
	csv    *CSVWriter
	logger *slog.Logger
}

// NewReportExporter creates a report exporter.
func NewReportExporter(csv *CSVWriter, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		csv:    csv,
		logger: logger.With(slog.String("component", "exporter")),
	}
}

// Flatten converts a grouped-statistics tree into a header row and one
// record per leaf group. Label columns come first, one per classifier
// level, followed by the statistics columns.
func Flatten(result *depthstats.GroupedStatistics) ([]string, [][]string) {
	leaves := result.Leaves()

	var labelCols []string
	if len(leaves) > 0 {
		for _, key := range leaves[0].Path {
			labelCols = append(labelCols, key.Classifier)
		}
	}

	both := result.Calculation == depthstats.CalcBoth
	header := append([]string{"Series"}, labelCols...)
	if both {
		header = append(header,
			"Mean_Weighted", "Mean_Arithmetic",
			"Sum_Weighted", "Sum_Arithmetic",
			"StdDev_Weighted", "StdDev_Arithmetic")
	} else {
		header = append(header, "Mean", "Sum", "StdDev")
	}
	header = append(header,
		"P10", "P50", "P90",
		"Min", "Max",
		"Depth_From", "Depth_To",
		"Samples", "Thickness", "Gross_Thickness", "Thickness_Fraction")

	records := make([][]string, 0, len(leaves))
	for _, leaf := range leaves {
		rec := leaf.Record
		row := []string{result.Series}
		for _, key := range leaf.Path {
			row = append(row, key.Label)
		}
		if both {
			row = append(row,
				formatFloat(rec.Mean.Weighted, 4), formatFloat(rec.Mean.Arithmetic, 4),
				formatFloat(rec.Sum.Weighted, 4), formatFloat(rec.Sum.Arithmetic, 4),
				formatFloat(rec.StdDev.Weighted, 4), formatFloat(rec.StdDev.Arithmetic, 4))
		} else {
			row = append(row,
				formatFloat(rec.Mean.Value(), 4),
				formatFloat(rec.Sum.Value(), 4),
				formatFloat(rec.StdDev.Value(), 4))
		}
		row = append(row,
			formatFloat(rec.Percentiles.P10, 4),
			formatFloat(rec.Percentiles.P50, 4),
			formatFloat(rec.Percentiles.P90, 4),
			formatFloat(rec.Range.Min, 4),
			formatFloat(rec.Range.Max, 4),
			formatFloat(rec.DepthRange.Min, 2),
			formatFloat(rec.DepthRange.Max, 2),
			formatInt(rec.Samples),
			formatFloat(rec.Thickness, 3),
			formatFloat(rec.GrossThickness, 3),
			formatFloat(rec.ThicknessFraction, 4))
		records = append(records, row)
	}

	return header, records
}

// ExportCSV writes one grouped result as a CSV report.
func (e *ReportExporter) ExportCSV(result *depthstats.GroupedStatistics, filename string) error {
	header, records := Flatten(result)
	if err := e.csv.WriteSimpleCSV(filename, header, records); err != nil {
		return fmt.Errorf("export CSV report: %w", err)
	}
	e.logger.Info("CSV report written",
		slog.String("file", filename),
		slog.String("series", result.Series),
		slog.Int("groups", len(records)))
	return nil
}

// ExportJSON writes grouped results as a JSON report with metadata.
func (e *ReportExporter) ExportJSON(results []*depthstats.GroupedStatistics, outputPath string) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to export")
	}

	fullPath := e.csv.resolvePath(outputPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	output := map[string]interface{}{
		"metadata": map[string]interface{}{
			"generated_at":  time.Now().Format(time.RFC3339),
			"total_results": len(results),
		},
		"results": results,
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	e.logger.Info("JSON report written",
		slog.String("file", outputPath),
		slog.Int("results", len(results)))
	return nil
}

// ExportWorkbook writes grouped results into an Excel workbook, one
// sheet per series.
func (e *ReportExporter) ExportWorkbook(results []*depthstats.GroupedStatistics, outputPath string) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to export")
	}

	fullPath := e.csv.resolvePath(outputPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, result := range results {
		sheet := sheetName(result.Series, i)
		if i == 0 {
			f.SetSheetName(f.GetSheetName(0), sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("create sheet %q: %w", sheet, err)
			}
		}

		header, records := Flatten(result)

		cells := make([]interface{}, len(header))
		for j, h := range header {
			cells[j] = h
		}
		if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
			return fmt.Errorf("write header row: %w", err)
		}

		last, err := excelize.CoordinatesToCellName(len(header), 1)
		if err != nil {
			return fmt.Errorf("compute header range: %w", err)
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style header row: %w", err)
		}

		for rowIdx, record := range records {
			row := make([]interface{}, len(record))
			for j, cell := range record {
				row[j] = cell
			}
			start, err := excelize.CoordinatesToCellName(1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("compute row position: %w", err)
			}
			if err := f.SetSheetRow(sheet, start, &row); err != nil {
				return fmt.Errorf("write row %d: %w", rowIdx+2, err)
			}
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	e.logger.Info("workbook report written",
		slog.String("file", outputPath),
		slog.Int("sheets", len(results)))
	return nil
}

// sheetName derives a valid, unique sheet name from a series name.
// Excel caps sheet names at 31 characters.
func sheetName(series string, index int) string {
	name := series
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	for _, bad := range []string{":", "\\", "/", "?", "*", "[", "]"} {
		name = strings.ReplaceAll(name, bad, "_")
	}
	if len(name) > 28 {
		name = name[:28]
	}
	if index > 0 {
		name = fmt.Sprintf("%s_%d", name, index+1)
	}
	return name
}
