package infrastructure

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// RequestMetrics holds the HTTP and computation instruments the service
// records.
type RequestMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter
	ComputationsTotal   metric.Int64Counter
	WellsLoaded         metric.Int64Counter
}

// CreateRequestMetrics registers the service instruments on the meter.
func CreateRequestMetrics(meter metric.Meter) (*RequestMetrics, error) {
	m := &RequestMetrics{}
	var err error

	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"wellstats.http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("create requests counter: %w", err)
	}

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"wellstats.http.request.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create request duration histogram: %w", err)
	}

	m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"wellstats.http.requests.active",
		metric.WithDescription("In-flight HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("create active requests counter: %w", err)
	}

	m.ComputationsTotal, err = meter.Int64Counter(
		"wellstats.computations.total",
		metric.WithDescription("Grouped statistics computations"),
	)
	if err != nil {
		return nil, fmt.Errorf("create computations counter: %w", err)
	}

	m.WellsLoaded, err = meter.Int64Counter(
		"wellstats.wells.loaded.total",
		metric.WithDescription("Wells loaded into the registry"),
	)
	if err != nil {
		return nil, fmt.Errorf("create wells loaded counter: %w", err)
	}

	return m, nil
}
