package services

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"

	"wellstats/internal/depthstats"
	"wellstats/internal/wells"
)

// SeriesInfo summarizes one series without its sample data.
type SeriesInfo struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit,omitempty"`
	Kind     string  `json:"kind"`
	Samples  int     `json:"samples"`
	DepthMin float64 `json:"depth_min"`
	DepthMax float64 `json:"depth_max"`
}

// WellDetail describes a well and its series.
type WellDetail struct {
	Name     string       `json:"name"`
	DepthMin float64      `json:"depth_min"`
	DepthMax float64      `json:"depth_max"`
	Series   []SeriesInfo `json:"series"`
}

// SeriesData carries the full sample data of one series. Values may
// contain NaN, which marshals as null.
type SeriesData struct {
	SeriesInfo
	Labels map[int]string `json:"labels,omitempty"`
	Depths []float64      `json:"depths"`
	Values NullableFloats `json:"values"`
}

// NullableFloats marshals NaN entries as JSON null.
type NullableFloats []float64

// MarshalJSON renders the slice with null for NaN.
func (f NullableFloats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		if v != v {
			buf.WriteString("null")
		} else {
			buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// WellService answers read queries about registered wells.
type WellService struct {
	registry *wells.Registry
	logger   *slog.Logger
}

// NewWellService creates a well query service.
func NewWellService(registry *wells.Registry, logger *slog.Logger) *WellService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WellService{
		registry: registry,
		logger:   logger.With(slog.String("service", "wells")),
	}
}

// List returns the registered well names in registration order.
func (s *WellService) List(ctx context.Context) []string {
	return s.registry.List()
}

// Detail returns a well's series inventory.
func (s *WellService) Detail(ctx context.Context, name string) (*WellDetail, error) {
	well, err := s.registry.Get(name)
	if err != nil {
		return nil, err
	}

	detail := &WellDetail{Name: name}
	if min, max, ok := well.DepthRange(); ok {
		detail.DepthMin, detail.DepthMax = min, max
	}

	for _, seriesName := range well.SeriesNames() {
		series, err := well.Series(seriesName)
		if err != nil {
			return nil, err
		}
		detail.Series = append(detail.Series, seriesInfo(series))
	}
	return detail, nil
}

// Series returns one series with its full sample data.
func (s *WellService) Series(ctx context.Context, wellName, seriesName string) (*SeriesData, error) {
	well, err := s.registry.Get(wellName)
	if err != nil {
		return nil, err
	}

	series, err := well.Series(seriesName)
	if err != nil {
		return nil, err
	}

	return &SeriesData{
		SeriesInfo: seriesInfo(series),
		Labels:     series.Labels,
		Depths:     series.Depths,
		Values:     NullableFloats(series.Values),
	}, nil
}

func seriesInfo(s depthstats.Series) SeriesInfo {
	min, max := s.DepthRange()
	return SeriesInfo{
		Name:     s.Name,
		Unit:     s.Unit,
		Kind:     s.Kind.String(),
		Samples:  s.Len(),
		DepthMin: min,
		DepthMax: max,
	}
}
