// Package metrics holds the shared metric settings and the plot instruments
// recorded by the transports.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// OutcomeOK is the outcome attribute recorded for successful plots.
const OutcomeOK = "OK"

// PlotMetrics groups the instruments describing plot requests.
type PlotMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewPlotMetrics registers the plot instruments on the given meter.
func NewPlotMetrics(meter metric.Meter) (*PlotMetrics, error) {
	requests, err := meter.Int64Counter("plot_requests",
		metric.WithDescription("Number of plot requests by outcome"))
	if err != nil {
		return nil, fmt.Errorf("could not create plot_requests counter: %w", err)
	}

	duration, err := meter.Float64Histogram("plot_duration",
		metric.WithDescription("Time spent normalizing, parsing and sampling a formula"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create plot_duration histogram: %w", err)
	}

	return &PlotMetrics{requests: requests, duration: duration}, nil
}

// Record counts one plot request with the given outcome and observes its latency.
func (m *PlotMetrics) Record(ctx context.Context, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
