// Package validation checks the directories the CLI tools work with
// before any loading starts, so a bad path fails fast with a clear
// message instead of midway through a run.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// tablePatterns are the file extensions the loader understands.
var tablePatterns = []string{"*.csv", "*.xlsx", "*.xlsm"}

// FileValidator validates data and report directories.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateDataDirectory checks that the directory exists and counts
// the log tables it holds. A directory without tables is valid but
// logged, since a run over it produces nothing.
func (v *FileValidator) ValidateDataDirectory(dir string) (int, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return 0, fmt.Errorf("data directory %s does not exist", dir)
	}
	if err != nil {
		return 0, fmt.Errorf("stat data directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s is not a directory", dir)
	}

	count := 0
	for _, pattern := range tablePatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return 0, fmt.Errorf("scan %s: %w", dir, err)
		}
		count += len(matches)
	}

	if count == 0 {
		v.logger.Warn("no log tables found",
			slog.String("directory", dir),
			slog.String("patterns", strings.Join(tablePatterns, ", ")))
	} else {
		v.logger.Info("data directory validated",
			slog.String("directory", dir),
			slog.Int("tables", count))
	}
	return count, nil
}

// ValidateOutputDirectory ensures the directory exists and is writable,
// creating it when missing.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}

// ValidateFile checks that a path is an existing readable file.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()
	return nil
}
