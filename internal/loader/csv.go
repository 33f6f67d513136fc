package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"wellstats/internal/depthstats"
	apperrors "wellstats/internal/errors"
)

// depth column aliases accepted in log exports
var depthAliases = map[string]bool{
	"dept":  true,
	"depth": true,
	"md":    true,
}

// ReadCSV parses a depth-indexed log table from r. The first row is the
// header; one column must be the depth index (DEPT, DEPTH or MD,
// case-insensitive). Every other column becomes a series on the shared
// depth grid. Empty cells and the metadata's null marker become NaN.
func ReadCSV(r io.Reader, meta *WellMetadata) ([]depthstats.Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError("read CSV header", err)
	}

	depthCol := -1
	for i, name := range header {
		if depthAliases[strings.ToLower(strings.TrimSpace(name))] {
			depthCol = i
			break
		}
	}
	if depthCol == -1 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("no depth column among %v", header), nil)
	}

	null := meta.Null()
	var depths []float64
	columns := make([][]float64, len(header))

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("read CSV line %d", line), err)
		}
		if isBlankRow(row) {
			continue
		}
		if len(row) != len(header) {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("line %d has %d fields, header has %d", line, len(row), len(header)), nil)
		}

		depth, err := strconv.ParseFloat(strings.TrimSpace(row[depthCol]), 64)
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("line %d: bad depth %q", line, row[depthCol]), err)
		}
		depths = append(depths, depth)

		for i, cell := range row {
			if i == depthCol {
				continue
			}
			columns[i] = append(columns[i], parseCell(cell, null))
		}
	}

	if len(depths) == 0 {
		return nil, apperrors.NewParsingError("CSV contains no data rows", nil)
	}

	return buildSeries(header, depthCol, depths, columns, meta)
}

// ReadCSVFile opens and parses a CSV log table.
func ReadCSVFile(path string, meta *WellMetadata) ([]depthstats.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("open CSV file", err).WithContext("path", path)
	}
	defer f.Close()
	return ReadCSV(f, meta)
}

func buildSeries(header []string, depthCol int, depths []float64, columns [][]float64, meta *WellMetadata) ([]depthstats.Series, error) {
	var out []depthstats.Series
	for i, name := range header {
		if i == depthCol {
			continue
		}
		name = strings.TrimSpace(name)
		sm := meta.lookup(name)
		kind, err := parseKind(sm.Kind)
		if err != nil {
			return nil, apperrors.NewAppValidationError(
				fmt.Sprintf("series %q: %v", name, err))
		}

		// each series owns its own copy of the shared grid
		grid := make([]float64, len(depths))
		copy(grid, depths)

		s, err := depthstats.NewSeries(name, grid, columns[i], kind)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", name, err)
		}
		s.Unit = sm.Unit
		if len(sm.Labels) > 0 {
			s.Labels = sm.Labels
		}
		out = append(out, s)
	}
	return out, nil
}

func parseCell(cell string, null float64) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "nan") {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
	if err != nil || v == null {
		return math.NaN()
	}
	return v
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
