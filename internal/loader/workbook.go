package loader

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"wellstats/internal/depthstats"
	apperrors "wellstats/internal/errors"
)

// ReadWorkbook parses a depth-indexed log table from an Excel workbook.
// It scans the sheets for the first one whose top rows contain a depth
// column, then reads it the same way as a CSV table.
func ReadWorkbook(path string, meta *WellMetadata) ([]depthstats.Series, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	rows, sheet, err := findLogSheet(f)
	if err != nil {
		return nil, err
	}

	header := rows[0]
	depthCol := -1
	for i, name := range header {
		if depthAliases[strings.ToLower(strings.TrimSpace(name))] {
			depthCol = i
			break
		}
	}
	if depthCol == -1 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("sheet %q: no depth column among %v", sheet, header), nil)
	}

	null := meta.Null()
	var depths []float64
	columns := make([][]float64, len(header))

	for line, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		if depthCol >= len(row) || strings.TrimSpace(row[depthCol]) == "" {
			continue
		}
		depth, err := strconv.ParseFloat(strings.TrimSpace(row[depthCol]), 64)
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("sheet %q row %d: bad depth %q", sheet, line+2, row[depthCol]), err)
		}
		depths = append(depths, depth)

		for i := range header {
			if i == depthCol {
				continue
			}
			// excelize trims trailing empty cells from rows
			if i < len(row) {
				columns[i] = append(columns[i], parseCell(row[i], null))
			} else {
				columns[i] = append(columns[i], math.NaN())
			}
		}
	}

	if len(depths) == 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("sheet %q contains no data rows", sheet), nil)
	}

	return buildSeries(header, depthCol, depths, columns, meta)
}

// findLogSheet returns the rows of the first sheet that looks like a
// depth-indexed log table.
func findLogSheet(f *excelize.File) ([][]string, string, error) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		for _, cell := range rows[0] {
			if depthAliases[strings.ToLower(strings.TrimSpace(cell))] {
				return rows, name, nil
			}
		}
	}
	return nil, "", apperrors.NewParsingError("no sheet with a depth column found", nil)
}
