package loader

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	yaml "gopkg.in/yaml.v2"

	"wellstats/internal/depthstats"
	"wellstats/internal/shared/testutil"
	"wellstats/internal/wells"
)

const testCSV = `DEPT,PHIE,ZONE
1500.0,0.12,1
1501.0,0.18,1
1503.0,-999.25,2
1505.0,0.09,2
`

const testMetadata = `well: "34/2-1"
series:
  PHIE:
    kind: continuous
    unit: v/v
  ZONE:
    kind: discrete
    labels:
      1: upper
      2: lower
`

func testLoader() *Loader {
	return NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadCSV(t *testing.T) {
	t.Run("with metadata", func(t *testing.T) {
		var meta WellMetadata
		require.NoError(t, yaml.Unmarshal([]byte(testMetadata), &meta))

		series, err := ReadCSV(strings.NewReader(testCSV), &meta)
		require.NoError(t, err)
		require.Len(t, series, 2)

		phie := series[0]
		assert.Equal(t, "PHIE", phie.Name)
		assert.Equal(t, "v/v", phie.Unit)
		assert.Equal(t, depthstats.Continuous, phie.Kind)
		assert.Equal(t, []float64{1500, 1501, 1503, 1505}, phie.Depths)
		assert.Equal(t, 0.12, phie.Values[0])
		assert.True(t, math.IsNaN(phie.Values[2]), "null marker should become NaN")

		zone := series[1]
		assert.Equal(t, depthstats.Discrete, zone.Kind)
		assert.Equal(t, "upper", zone.Labels[1])
	})

	t.Run("without metadata defaults continuous", func(t *testing.T) {
		series, err := ReadCSV(strings.NewReader(testCSV), nil)
		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.Equal(t, depthstats.Continuous, series[1].Kind)
	})

	t.Run("empty cell becomes NaN", func(t *testing.T) {
		csv := "DEPTH,GR\n1500,45.2\n1501,\n1502,50.1\n"
		series, err := ReadCSV(strings.NewReader(csv), nil)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(series[0].Values[1]))
	})

	t.Run("missing depth column", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("A,B\n1,2\n"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "depth column")
	})

	t.Run("no data rows", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("DEPT,GR\n"), nil)
		require.Error(t, err)
	})

	t.Run("non increasing depths rejected", func(t *testing.T) {
		csv := "DEPT,GR\n1500,1\n1500,2\n"
		_, err := ReadCSV(strings.NewReader(csv), nil)
		require.Error(t, err)

		var degenerate *depthstats.DegenerateGridError
		assert.ErrorAs(t, err, &degenerate)
	})

	t.Run("bad depth value", func(t *testing.T) {
		csv := "DEPT,GR\nabc,1\n"
		_, err := ReadCSV(strings.NewReader(csv), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad depth")
	})
}

func TestLoadMetadata(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := writeFile(t, dir, "well.yaml", testMetadata)
		meta, err := LoadMetadata(path)
		require.NoError(t, err)
		assert.Equal(t, "34/2-1", meta.Well)
		assert.Equal(t, "lower", meta.Series["ZONE"].Labels[2])
		assert.Equal(t, DefaultNullValue, meta.Null())
	})

	t.Run("custom null value", func(t *testing.T) {
		path := writeFile(t, dir, "null.yaml", "well: x\nnull_value: -9999\n")
		meta, err := LoadMetadata(path)
		require.NoError(t, err)
		assert.Equal(t, -9999.0, meta.Null())
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		path := writeFile(t, dir, "bad.yaml", "well: x\nseries:\n  GR:\n    kind: fuzzy\n")
		_, err := LoadMetadata(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown series kind")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadMetadata(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "34_2_1.csv", testCSV)
	writeFile(t, dir, "34_2_1.yaml", testMetadata)

	well, series, err := testLoader().LoadFile(filepath.Join(dir, "34_2_1.csv"))
	require.NoError(t, err)
	assert.Equal(t, "34/2-1", well, "sidecar well name wins over filename")
	assert.Len(t, series, 2)
}

func TestLoadFileWithoutSidecar(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "testwell.csv", testCSV)

	well, series, err := testLoader().LoadFile(filepath.Join(dir, "testwell.csv"))
	require.NoError(t, err)
	assert.Equal(t, "testwell", well)
	assert.Len(t, series, 2)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "well_a.csv", testCSV)
	writeFile(t, dir, "well_b.csv", "DEPT,GR\n1500,45\n1501,50\n")
	writeFile(t, dir, "notes.txt", "ignored")

	registry := wells.NewRegistry()
	require.NoError(t, testLoader().LoadDirectory(context.Background(), dir, registry))

	assert.Len(t, registry.List(), 2)

	w, err := registry.Get("well_a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"PHIE", "ZONE"}, w.SeriesNames())
}

func TestLoadDirectorySkipsBadTables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.csv", testCSV)
	writeFile(t, dir, "bad.csv", "A,B\n1,2\n")

	logger, captured := testutil.NewTestLogger(t)
	registry := wells.NewRegistry()
	require.NoError(t, NewLoader(logger).LoadDirectory(context.Background(), dir, registry))

	assert.Equal(t, []string{"good"}, registry.List())
	assert.True(t, captured.ContainsMessage(slog.LevelWarn, "skipping unreadable table"))
}

func TestLoadDirectoryCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "well.csv", testCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := testLoader().LoadDirectory(ctx, dir, wells.NewRegistry())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "well.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"DEPT", "PHIE", "ZONE"},
		{1500.0, 0.12, 1},
		{1501.0, 0.18, 1},
		{1505.0, 0.09, 2},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	series, err := ReadWorkbook(path, nil)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, []float64{1500, 1501, 1505}, series[0].Depths)
	assert.Equal(t, 0.18, series[0].Values[1])
}

func TestReadWorkbookNoLogSheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := ReadWorkbook(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sheet with a depth column")
}
