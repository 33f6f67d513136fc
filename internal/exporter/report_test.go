package exporter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"wellstats/internal/config"
	"wellstats/internal/depthstats"
)

func testExporter(t *testing.T) (*ReportExporter, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{Paths: config.PathsConfig{ReportsDir: dir}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewReportExporter(NewCSVWriter(cfg), logger), dir
}

// sampleResult computes a two-zone grouped result: the upper zone spans
// 1500-1503 and the lower 1503-1505 after boundary correction.
func sampleResult(t *testing.T, mode depthstats.Calculation) *depthstats.GroupedStatistics {
	t.Helper()

	series, err := depthstats.NewSeries("PHIE",
		[]float64{1500, 1501, 1505}, []float64{0, 1, 0}, depthstats.Continuous)
	require.NoError(t, err)

	zone, err := depthstats.NewSeries("ZONE",
		[]float64{1500, 1503}, []float64{1, 2}, depthstats.Discrete)
	require.NoError(t, err)
	zone.Labels = map[int]string{1: "upper", 2: "lower"}

	engine := depthstats.NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)))
	result, err := engine.Group(context.Background(), series,
		[]depthstats.Series{zone}, depthstats.GroupOptions{Calculation: mode})
	require.NoError(t, err)
	return result
}

func TestFlatten(t *testing.T) {
	result := sampleResult(t, depthstats.CalcWeighted)
	header, records := Flatten(result)

	assert.Equal(t, "Series", header[0])
	assert.Equal(t, "ZONE", header[1])
	assert.Contains(t, header, "Mean")
	assert.Contains(t, header, "Thickness_Fraction")
	assert.NotContains(t, header, "Mean_Weighted")

	require.Len(t, records, 2)
	assert.Equal(t, "PHIE", records[0][0])
	assert.Equal(t, "upper", records[0][1])
	assert.Equal(t, "lower", records[1][1])

	// zones split thickness 2.0 / 3.0 of the 5.0 span
	row := map[string]string{}
	for i, h := range header {
		row[h] = records[0][i]
	}
	assert.Equal(t, "2.000", row["Thickness"])
	assert.Equal(t, "5.000", row["Gross_Thickness"])
	assert.Equal(t, "0.4000", row["Thickness_Fraction"])
}

func TestFlattenBothMode(t *testing.T) {
	result := sampleResult(t, depthstats.CalcBoth)
	header, records := Flatten(result)

	assert.Contains(t, header, "Mean_Weighted")
	assert.Contains(t, header, "Mean_Arithmetic")
	assert.NotContains(t, header, "Mean")
	require.Len(t, records, 2)
}

func TestExportCSV(t *testing.T) {
	e, dir := testExporter(t)
	result := sampleResult(t, depthstats.CalcWeighted)

	require.NoError(t, e.ExportCSV(result, "phie.csv"))

	data, err := os.ReadFile(filepath.Join(dir, "phie.csv"))
	require.NoError(t, err)

	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3], "BOM prefix")
	content := string(data[3:])
	assert.Contains(t, content, "Series,ZONE,Mean")
	assert.Contains(t, content, "PHIE,upper")
	assert.Contains(t, content, "PHIE,lower")
}

func TestExportJSON(t *testing.T) {
	e, dir := testExporter(t)
	result := sampleResult(t, depthstats.CalcWeighted)

	require.NoError(t, e.ExportJSON([]*depthstats.GroupedStatistics{result}, "phie.json"))

	data, err := os.ReadFile(filepath.Join(dir, "phie.json"))
	require.NoError(t, err)

	var decoded struct {
		Metadata struct {
			TotalResults int `json:"total_results"`
		} `json:"metadata"`
		Results []json.RawMessage `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 1, decoded.Metadata.TotalResults)
	require.Len(t, decoded.Results, 1)
}

func TestExportJSONEmpty(t *testing.T) {
	e, _ := testExporter(t)
	assert.Error(t, e.ExportJSON(nil, "empty.json"))
}

func TestExportWorkbook(t *testing.T) {
	e, dir := testExporter(t)
	result := sampleResult(t, depthstats.CalcWeighted)

	require.NoError(t, e.ExportWorkbook([]*depthstats.GroupedStatistics{result}, "phie.xlsx"))

	f, err := excelize.OpenFile(filepath.Join(dir, "phie.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"PHIE"}, f.GetSheetList())

	rows, err := f.GetRows("PHIE")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two zone rows")
	assert.Equal(t, "Series", rows[0][0])
	assert.Equal(t, "upper", rows[1][1])
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		name   string
		series string
		index  int
		want   string
	}{
		{"plain", "PHIE", 0, "PHIE"},
		{"invalid chars replaced", "34/2-1:PHIE", 0, "34_2-1_PHIE"},
		{"empty gets default", "", 0, "Sheet1"},
		{"duplicate suffixed", "PHIE", 1, "PHIE_2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sheetName(tt.series, tt.index))
		})
	}
}
