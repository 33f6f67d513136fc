// Package loader reads depth-indexed log tables from CSV files and
// Excel workbooks into the well registry. Each table carries an
// optional YAML sidecar declaring per-column kind, unit and discrete
// label mappings; columns without metadata default to continuous.
package loader

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"wellstats/internal/depthstats"
	apperrors "wellstats/internal/errors"
	"wellstats/internal/wells"
)

// Loader reads log tables into a well registry.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "loader"))}
}

// LoadFile reads a single table (CSV or workbook by extension) and its
// sidecar, returning the well name and parsed series.
func (l *Loader) LoadFile(path string) (string, []depthstats.Series, error) {
	meta, err := sidecarFor(path)
	if err != nil {
		return "", nil, err
	}

	var series []depthstats.Series
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		series, err = ReadCSVFile(path, meta)
	case ".xlsx", ".xlsm":
		series, err = ReadWorkbook(path, meta)
	default:
		return "", nil, apperrors.NewAppValidationError(
			"unsupported table format: " + filepath.Ext(path))
	}
	if err != nil {
		return "", nil, err
	}

	well := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if meta != nil && meta.Well != "" {
		well = meta.Well
	}
	return well, series, nil
}

// LoadDirectory reads every table in dir into the registry. Tables for
// the same well merge onto one depth grid per series name. The walk
// stops early if ctx is cancelled.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, registry *wells.Registry) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return apperrors.NewStorageError("read data directory", err).WithContext("dir", dir)
	}

	loaded := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !isTableFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		wellName, series, err := l.LoadFile(path)
		if err != nil {
			l.logger.Warn("skipping unreadable table",
				slog.String("path", path),
				slog.String("error", err.Error()))
			continue
		}

		w := registry.GetOrCreate(wellName)
		for _, s := range series {
			if err := w.AddSeries(s); err != nil {
				l.logger.Warn("skipping series",
					slog.String("well", wellName),
					slog.String("series", s.Name),
					slog.String("error", err.Error()))
			}
		}

		loaded++
		l.logger.Info("loaded table",
			slog.String("path", path),
			slog.String("well", wellName),
			slog.Int("series", len(series)))
	}

	l.logger.Info("directory load complete",
		slog.String("dir", dir),
		slog.Int("tables", loaded),
		slog.Int("wells", len(registry.List())))
	return nil
}

// sidecarFor loads <table>.yaml or <table>.yml next to the table file,
// returning nil metadata when neither exists.
func sidecarFor(tablePath string) (*WellMetadata, error) {
	base := strings.TrimSuffix(tablePath, filepath.Ext(tablePath))
	for _, ext := range []string{".yaml", ".yml"} {
		candidate := base + ext
		if _, err := os.Stat(candidate); err == nil {
			return LoadMetadata(candidate)
		}
	}
	return nil, nil
}

func isTableFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx", ".xlsm":
		return true
	}
	return false
}
