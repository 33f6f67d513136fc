package loader

import (
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v2"

	"wellstats/internal/depthstats"
	apperrors "wellstats/internal/errors"
)

// SeriesMetadata describes one column of a log table: how to interpret
// its values and, for discrete series, how codes map to display names.
type SeriesMetadata struct {
	Kind   string         `yaml:"kind"`
	Unit   string         `yaml:"unit,omitempty"`
	Labels map[int]string `yaml:"labels,omitempty"`
}

// WellMetadata is the sidecar file accompanying a log table. Columns
// absent from Series default to continuous with no unit.
type WellMetadata struct {
	Well      string                    `yaml:"well"`
	NullValue *float64                  `yaml:"null_value,omitempty"`
	Series    map[string]SeriesMetadata `yaml:"series,omitempty"`
}

// DefaultNullValue is the conventional null marker in log exports.
const DefaultNullValue = -999.25

// LoadMetadata reads a YAML sidecar file.
func LoadMetadata(path string) (*WellMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("read metadata file", err).WithContext("path", path)
	}

	var meta WellMetadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, apperrors.NewParsingError("parse metadata file", err).WithContext("path", path)
	}

	if err := meta.Validate(); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Validate checks that every declared kind is recognized.
func (m *WellMetadata) Validate() error {
	for name, sm := range m.Series {
		if _, err := parseKind(sm.Kind); err != nil {
			return apperrors.NewAppValidationError(
				fmt.Sprintf("series %q: %v", name, err))
		}
	}
	return nil
}

// Null returns the null marker to use for this well.
func (m *WellMetadata) Null() float64 {
	if m != nil && m.NullValue != nil {
		return *m.NullValue
	}
	return DefaultNullValue
}

// lookup resolves column metadata case-insensitively, defaulting to a
// continuous series with no unit.
func (m *WellMetadata) lookup(column string) SeriesMetadata {
	if m == nil {
		return SeriesMetadata{Kind: "continuous"}
	}
	if sm, ok := m.Series[column]; ok {
		return sm
	}
	for name, sm := range m.Series {
		if strings.EqualFold(name, column) {
			return sm
		}
	}
	return SeriesMetadata{Kind: "continuous"}
}

func parseKind(s string) (depthstats.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continuous":
		return depthstats.Continuous, nil
	case "discrete":
		return depthstats.Discrete, nil
	case "sampled":
		return depthstats.Sampled, nil
	default:
		return depthstats.Continuous, fmt.Errorf("unknown series kind %q", s)
	}
}
