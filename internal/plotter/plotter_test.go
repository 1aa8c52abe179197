package plotter_test

import (
	"context"
	"grapher/internal/config"
	"grapher/internal/formula"
	"grapher/internal/plotter"
	"grapher/pkg/logger"
	"math"
	"os"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)

	os.Exit(m.Run())
}

func newPlotter(t *testing.T) plotter.Plotter {
	t.Helper()

	p, err := plotter.New(plotter.Options{MarginRatio: plotter.DefaultMarginRatio})
	require.NoError(t, err)

	return p
}

func TestNew_InvalidMarginRatio(t *testing.T) {
	for _, ratio := range []float64{0, -0.15, math.NaN(), math.Inf(1)} {
		p, err := plotter.New(plotter.Options{MarginRatio: ratio})
		require.Error(t, err, "ratio=%v", ratio)
		require.Nil(t, p)
	}
}

func TestPlotter_Plot(t *testing.T) {
	p := newPlotter(t)

	plot, err := p.Plot(context.Background(), "y = 2x^2 + x")
	require.NoError(t, err)

	require.Equal(t, "y = 2x^2 + x", plot.Input)
	require.Equal(t, "2 * x**2 + x", plot.Expression)
	require.Len(t, plot.X, plotter.DomainSize())
	require.Len(t, plot.Y, len(plot.X))
	require.InDelta(t, 6.0, plot.Y[0], 1e-9)

	// min at the vertex x=-0.25, max at the last domain point x=1.99
	lo, hi := -0.125, 2*1.99*1.99+1.99
	margin := plotter.DefaultMarginRatio * (hi - lo)
	require.InDelta(t, lo-margin, plot.Range.Min, 1e-9)
	require.InDelta(t, hi+margin, plot.Range.Max, 1e-9)
}

func TestPlotter_Plot_Errors(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		kind    error
		cause   error
		message string
	}{
		{name: "empty", input: "", kind: plotter.ErrEmptyInput, cause: formula.ErrEmptyInput, message: "no value entered"},
		{name: "whitespace", input: "  \t ", kind: plotter.ErrEmptyInput, cause: formula.ErrEmptyInput, message: "no value entered"},
		{name: "dangling operator", input: "x +", kind: plotter.ErrInvalidFormula, cause: formula.ErrSyntax, message: "invalid formula"},
		{name: "lone operator", input: "**", kind: plotter.ErrInvalidFormula, cause: formula.ErrSyntax, message: "invalid formula"},
		{name: "unknown symbol", input: "y", kind: plotter.ErrInvalidFormula, cause: formula.ErrSyntax, message: "invalid formula"},
		{name: "pole at zero", input: "1/x", kind: plotter.ErrEvaluation, cause: formula.ErrDivisionByZero, message: "y value computation error"},
		{name: "negative root", input: "sqrt(x)", kind: plotter.ErrEvaluation, cause: formula.ErrDomain, message: "y value computation error"},
		{name: "span overflows", input: "x/2*10**308", kind: plotter.ErrEvaluation, cause: plotter.ErrEvaluation, message: "y value computation error"},
	}

	p := newPlotter(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plot, err := p.Plot(context.Background(), tc.input)
			require.Nil(t, plot)
			require.ErrorIs(t, err, tc.kind)
			require.ErrorIs(t, err, tc.cause)
			require.True(t, plotter.IsPlotError(err))
			require.Equal(t, tc.message, plotter.UserMessage(err))
		})
	}
}

func TestPlotter_Plot_Constant(t *testing.T) {
	cfg := &config.Config{}
	cfg.Plot.MarginRatio = 0.15
	p, err := plotter.New(plotter.NewOptions(cfg))
	require.NoError(t, err)

	plot, err := p.Plot(context.Background(), "3")
	require.NoError(t, err)
	for _, y := range plot.Y {
		require.InDelta(t, 3.0, y, 0)
	}
	require.Equal(t, plotter.Range{Min: 2, Max: 4}, plot.Range)
}

func TestPlotter_Plot_NarrowSpanAtLargeMagnitude(t *testing.T) {
	plot, err := newPlotter(t).Plot(context.Background(), "10**17 + 10*x")
	require.NoError(t, err)

	lo, hi := slices.Min(plot.Y), slices.Max(plot.Y)
	require.Less(t, plot.Range.Min, lo)
	require.Greater(t, plot.Range.Max, hi)
}

func TestUserMessage_Unknown(t *testing.T) {
	err := context.DeadlineExceeded
	require.False(t, plotter.IsPlotError(err))
	require.Equal(t, plotter.UnknownErrorMessage, plotter.UserMessage(err))
}
