package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellstats/internal/config"
)

func testWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{Paths: config.PathsConfig{ReportsDir: dir}}
	return NewCSVWriter(cfg), dir
}

func TestWriteSimpleCSV(t *testing.T) {
	w, dir := testWriter(t)

	err := w.WriteSimpleCSV("out.csv",
		[]string{"Well", "Series"},
		[][]string{{"34/2-1", "PHIE"}, {"34/2-2", "GR"}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)

	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
	lines := strings.Split(strings.TrimSpace(string(data[3:])), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Well,Series", lines[0])
}

func TestAppendToCSV(t *testing.T) {
	w, dir := testWriter(t)

	require.NoError(t, w.WriteSimpleCSV("out.csv", []string{"A"}, [][]string{{"1"}}))
	require.NoError(t, w.AppendToCSV("out.csv", [][]string{{"2"}}))

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data[3:])), "\n")
	assert.Len(t, lines, 3)
}

func TestStreamWriter(t *testing.T) {
	w, dir := testWriter(t)

	sw, err := w.CreateStreamWriter("stream.csv", []string{"Depth", "Value"})
	require.NoError(t, err)

	require.NoError(t, sw.WriteRecord([]string{"1500.0", "0.12"}))
	require.NoError(t, sw.WriteRecord([]string{"1501.0", "0.18"}))
	require.NoError(t, sw.Close())

	data, err := os.ReadFile(filepath.Join(dir, "stream.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data[3:])), "\n")
	assert.Len(t, lines, 3)
}

func TestResolvePathAbsolute(t *testing.T) {
	w, _ := testWriter(t)
	abs := filepath.Join(t.TempDir(), "abs.csv")
	assert.Equal(t, abs, w.resolvePath(abs))
}

func TestWriteCSVCreatesNestedDirectory(t *testing.T) {
	w, dir := testWriter(t)

	err := w.WriteSimpleCSV(filepath.Join("nested", "deep", "out.csv"),
		[]string{"A"}, [][]string{{"1"}})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "nested", "deep", "out.csv"))
	assert.NoError(t, err)
}
