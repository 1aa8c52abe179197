package plotter

import (
	"grapher/internal/formula"
	"grapher/pkg/serrors"
	"math"
	"slices"
)

// The sampling domain is fixed: [DomainMin, DomainMax) in steps of DomainStep.
const (
	DomainMin  = -2.0
	DomainMax  = 2.0
	DomainStep = 0.01
)

// DefaultMarginRatio is the share of the y span added above and below the curve.
const DefaultMarginRatio = 0.15

// Range is a closed interval on the vertical axis.
type Range struct {
	Min float64
	Max float64
}

// DomainSize returns the number of sample points, ⌈(DomainMax-DomainMin)/DomainStep⌉.
func DomainSize() int {
	// the epsilon absorbs the rounding of the division so exact multiples do not grow by one
	return int(math.Ceil((DomainMax-DomainMin)/DomainStep - 1e-9))
}

// Domain returns the evenly spaced x values DomainMin + i*DomainStep. The
// values are computed from the index rather than accumulated, so 0 is hit
// exactly.
func Domain() []float64 {
	xs := make([]float64, DomainSize())
	for i := range xs {
		xs[i] = DomainMin + float64(i)*DomainStep
	}

	return xs
}

// Sample evaluates expr at every domain value. It is all or nothing: the first
// point without a real value aborts the whole series with ErrEvaluation.
func Sample(expr *formula.Expression, domain []float64) ([]float64, error) {
	ys := make([]float64, len(domain))
	for i, x := range domain {
		y, err := expr.Eval(x)
		if err != nil {
			return nil, serrors.Wrap(ErrEvaluation, err, "could not evaluate at x=%g", x)
		}
		ys[i] = y
	}

	return ys, nil
}

// DisplayRange expands [min(ys), max(ys)] by marginRatio of its span on both
// sides. A constant series has no span, so its margin becomes
// max(marginRatio*|y|, 1) to keep the axis visible. Ranges wider than float64
// can hold fail with ErrEvaluation.
func DisplayRange(ys []float64, marginRatio float64) (Range, error) {
	if len(ys) == 0 {
		return Range{}, serrors.With(ErrEmptySeries, "no y values to derive a range from")
	}

	lo, hi := slices.Min(ys), slices.Max(ys)
	margin := marginRatio*hi - marginRatio*lo
	if hi == lo {
		margin = math.Max(marginRatio*math.Abs(lo), 1)
	}

	r := Range{Min: lo - margin, Max: hi + margin}
	if math.IsInf(r.Max-r.Min, 0) || math.IsNaN(r.Max-r.Min) {
		return Range{}, serrors.With(ErrEvaluation, "y values span [%g, %g] is too wide to display", lo, hi)
	}
	// a margin below the spacing of floats at this magnitude is lost in rounding
	if r.Min >= lo {
		r.Min = math.Nextafter(lo, math.Inf(-1))
	}
	if r.Max <= hi {
		r.Max = math.Nextafter(hi, math.Inf(1))
	}

	return r, nil
}
