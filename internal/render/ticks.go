package render

import (
	"math"
	"strconv"
)

// niceStep rounds raw up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if raw <= 0 || math.IsInf(raw, 0) || math.IsNaN(raw) {
		return 1
	}

	exp := math.Floor(math.Log10(raw))
	base := math.Pow(10, exp)
	switch frac := raw / base; {
	case frac <= 1:
		return base
	case frac <= 2:
		return 2 * base
	case frac <= 5:
		return 5 * base
	default:
		return 10 * base
	}
}

// maxTickRatio bounds how many ticks a single axis may produce relative to
// the requested count.
const maxTickRatio = 4

// ticks returns at most about maxTicks evenly spaced round values inside [lo, hi]
// together with the step between them. Non-finite bounds, and spans too narrow
// for their magnitude to hold distinct ticks, yield no ticks.
func ticks(lo, hi float64, maxTicks int) ([]float64, float64) {
	if hi <= lo || maxTicks < 1 || !isFinite(lo) || !isFinite(hi) || !isFinite(hi-lo) {
		return nil, 0
	}

	step := niceStep((hi - lo) / float64(maxTicks))
	first := math.Ceil(lo / step)
	last := math.Floor(hi/step + 1e-9)
	n := last - first
	if !isFinite(n) || n < 0 || n > float64(maxTickRatio*maxTicks) {
		return nil, 0
	}

	out := make([]float64, 0, int(n)+1)
	for k := 0; k <= int(n); k++ {
		v := (first + float64(k)) * step
		if v < lo-step*1e-9 || v > hi+step*1e-9 {
			continue
		}
		if v == 0 {
			v = 0 // normalizes -0
		}
		if len(out) > 0 && v <= out[len(out)-1] {
			continue
		}
		out = append(out, v)
	}

	return out, step
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// tickLabel formats v with just enough decimals to tell neighbouring ticks apart.
func tickLabel(v, step float64) string {
	decimals := 0
	if step > 0 && step < 1 {
		decimals = int(math.Ceil(-math.Log10(step) - 1e-9))
	}

	return strconv.FormatFloat(v, 'f', decimals, 64)
}
