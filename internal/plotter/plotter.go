// Package plotter implements the formula plotting pipeline: normalize the
// raw input, parse it, sample it over the fixed domain and derive the
// vertical display range. The pipeline keeps no state between calls.
package plotter

import (
	"context"
	"fmt"
	"grapher/internal/config"
	"grapher/internal/formula"
	"grapher/pkg/logger"
	"grapher/pkg/serrors"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Plot is a sampled formula ready to be drawn.
type Plot struct {
	// Input is the text as typed; it is used as the graph title and legend.
	Input string
	// Expression is the canonical form of the parsed formula.
	Expression string
	// X holds the domain values.
	X []float64
	// Y holds the formula value at each X; it always has len(X) entries.
	Y []float64
	// Range is the vertical display range.
	Range Range
}

// Options configure the pipeline.
type Options struct {
	// MarginRatio is the share of the y span added above and below the curve.
	MarginRatio float64
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MarginRatio: cfg.Plot.MarginRatio,
	}
}

var tracer = otel.Tracer("grapher/internal/plotter") //nolint: gochecknoglobals

type plotter struct {
	options Options
}

// New creates a Plotter with the given options. The margin ratio must be a
// positive finite number so the display range is always wider than the data.
func New(options Options) (Plotter, error) {
	if !(options.MarginRatio > 0) || math.IsInf(options.MarginRatio, 0) {
		return nil, fmt.Errorf("invalid margin ratio %v: must be positive", options.MarginRatio)
	}

	return &plotter{options: options}, nil
}

// Plot runs input through the whole pipeline.
func (p plotter) Plot(ctx context.Context, input string) (*Plot, error) {
	ctx, span := tracer.Start(ctx, "plotter.Plot",
		trace.WithAttributes(attribute.String("formula.input", input)))
	defer span.End()

	text, err := formula.Normalize(input)
	if err != nil {
		return nil, fail(span, serrors.Wrap(ErrEmptyInput, err, "no value entered"))
	}
	logger.Debug(ctx, "normalized formula", zap.String("input", input), zap.String("normalized", text))

	expr, err := formula.Parse(text)
	if err != nil {
		return nil, fail(span, serrors.Wrap(ErrInvalidFormula, err, "invalid formula %q", text))
	}
	span.SetAttributes(attribute.String("formula.expression", expr.String()))

	xs := Domain()
	ys, err := Sample(expr, xs)
	if err != nil {
		return nil, fail(span, err)
	}

	yRange, err := DisplayRange(ys, p.options.MarginRatio)
	if err != nil {
		return nil, fail(span, err)
	}

	return &Plot{
		Input:      input,
		Expression: expr.String(),
		X:          xs,
		Y:          ys,
		Range:      yRange,
	}, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, UserMessage(err))

	return err
}
