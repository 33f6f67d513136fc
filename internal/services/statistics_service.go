package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"wellstats/internal/config"
	"wellstats/internal/depthstats"
	"wellstats/internal/wells"
)

// StatisticsRequest describes one grouped-statistics computation.
type StatisticsRequest struct {
	Well        string   `json:"well" validate:"required,wellname"`
	Series      string   `json:"series" validate:"required,seriesname"`
	Classifiers []string `json:"classifiers"`
	Calculation string   `json:"calculation" validate:"omitempty,oneof=weighted arithmetic both"`

	// IncludeEmptyGroups overrides the configured default when set.
	IncludeEmptyGroups *bool `json:"include_empty_groups,omitempty"`
	// ForceBoundaryInsertion splits point-sampled series at group
	// boundaries, which is normally skipped.
	ForceBoundaryInsertion bool `json:"force_boundary_insertion,omitempty"`
}

// BatchRequest bundles several computations into one call.
type BatchRequest struct {
	Requests []StatisticsRequest `json:"requests" validate:"required,min=1,dive"`
}

// BatchItem is one outcome of a batch computation. Exactly one of
// Result and Error is set.
type BatchItem struct {
	Well   string                         `json:"well"`
	Series string                         `json:"series"`
	Result *depthstats.GroupedStatistics  `json:"result,omitempty"`
	Error  string                         `json:"error,omitempty"`
}

// StatisticsService computes grouped statistics over registered wells.
type StatisticsService struct {
	registry *wells.Registry
	engine   *depthstats.Engine
	cfg      *config.Config
	logger   *slog.Logger

	computeDuration metric.Float64Histogram
}

// NewStatisticsService creates a statistics service. The meter is
// optional; pass nil to skip instrument registration.
func NewStatisticsService(registry *wells.Registry, engine *depthstats.Engine, cfg *config.Config, meter metric.Meter, logger *slog.Logger) (*StatisticsService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &StatisticsService{
		registry: registry,
		engine:   engine,
		cfg:      cfg,
		logger:   logger.With(slog.String("service", "statistics")),
	}

	if meter != nil {
		var err error
		s.computeDuration, err = meter.Float64Histogram(
			"wellstats.compute.duration",
			metric.WithDescription("Grouped statistics computation duration"),
			metric.WithUnit("s"),
		)
		if err != nil {
			return nil, fmt.Errorf("create compute duration histogram: %w", err)
		}
	}

	return s, nil
}

// Compute resolves the request against the registry and runs the
// engine. Configured defaults fill in whatever the request leaves
// unset.
func (s *StatisticsService) Compute(ctx context.Context, req StatisticsRequest) (*depthstats.GroupedStatistics, error) {
	start := time.Now()

	well, err := s.registry.Get(req.Well)
	if err != nil {
		return nil, err
	}

	series, err := well.Series(req.Series)
	if err != nil {
		return nil, err
	}

	classifiers, err := well.Classifiers(req.Classifiers...)
	if err != nil {
		return nil, err
	}

	opts := s.options(req)
	result, err := s.engine.Group(ctx, series, classifiers, opts)
	if err != nil {
		s.logger.WarnContext(ctx, "computation failed",
			slog.String("well", req.Well),
			slog.String("series", req.Series),
			slog.String("error", err.Error()))
		return nil, err
	}

	if s.computeDuration != nil {
		s.computeDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(
				attribute.String("series", req.Series),
				attribute.String("calculation", string(result.Calculation)),
			))
	}

	s.logger.InfoContext(ctx, "statistics computed",
		slog.String("well", req.Well),
		slog.String("series", req.Series),
		slog.Int("classifiers", len(req.Classifiers)),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

// ComputeBatch runs the requests concurrently, capped by the configured
// MaxConcurrency. Individual failures surface as per-item errors; the
// batch as a whole only fails when the context is cancelled.
func (s *StatisticsService) ComputeBatch(ctx context.Context, batch BatchRequest) ([]BatchItem, error) {
	items := make([]BatchItem, len(batch.Requests))

	g, gctx := errgroup.WithContext(ctx)
	limit := s.cfg.Statistics.MaxConcurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, req := range batch.Requests {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i] = BatchItem{Well: req.Well, Series: req.Series}
			result, err := s.Compute(gctx, req)
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Result = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// Resample returns the named series interpolated onto the target grid.
func (s *StatisticsService) Resample(ctx context.Context, wellName, seriesName string, target []float64) (depthstats.Series, error) {
	well, err := s.registry.Get(wellName)
	if err != nil {
		return depthstats.Series{}, err
	}

	series, err := well.Series(seriesName)
	if err != nil {
		return depthstats.Series{}, err
	}

	resampled, err := depthstats.Resample(series, target)
	if err != nil {
		return depthstats.Series{}, err
	}

	s.logger.DebugContext(ctx, "series resampled",
		slog.String("well", wellName),
		slog.String("series", seriesName),
		slog.Int("from", series.Len()),
		slog.Int("to", resampled.Len()))
	return resampled, nil
}

// options merges a request with the configured defaults.
func (s *StatisticsService) options(req StatisticsRequest) depthstats.GroupOptions {
	opts := depthstats.GroupOptions{
		Calculation:            depthstats.Calculation(req.Calculation),
		IncludeEmptyGroups:     s.cfg.Statistics.IncludeEmptyGroups,
		ForceBoundaryInsertion: req.ForceBoundaryInsertion,
	}
	if opts.Calculation == "" && s.cfg.Statistics.DefaultCalculation != "" {
		opts.Calculation = depthstats.Calculation(s.cfg.Statistics.DefaultCalculation)
	}
	if req.IncludeEmptyGroups != nil {
		opts.IncludeEmptyGroups = *req.IncludeEmptyGroups
	}
	return opts
}
