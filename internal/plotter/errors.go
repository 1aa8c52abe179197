package plotter

import (
	"errors"
	"grapher/pkg/serrors"
)

// Error kinds of the plotting pipeline. Each one is terminal for the request
// that produced it.
const (
	// ErrEmptyInput is returned when the input has no visible characters.
	ErrEmptyInput serrors.Kind = "EMPTY_INPUT"
	// ErrInvalidFormula is returned when the normalized text does not parse.
	ErrInvalidFormula serrors.Kind = "INVALID_FORMULA"
	// ErrEvaluation is returned when any domain point has no real value, or
	// the values are too far apart to display.
	ErrEvaluation serrors.Kind = "EVALUATION_ERROR"
	// ErrEmptySeries is returned when there are no samples to derive a range from.
	ErrEmptySeries serrors.Kind = "EMPTY_SERIES"
)

// UnknownErrorMessage is shown for failures outside the plotting pipeline.
const UnknownErrorMessage = "unexpected error"

var userMessages = []struct { //nolint: gochecknoglobals
	kind    serrors.Kind
	message string
}{
	{kind: ErrEmptyInput, message: "no value entered"},
	{kind: ErrInvalidFormula, message: "invalid formula"},
	{kind: ErrEvaluation, message: "y value computation error"},
	{kind: ErrEmptySeries, message: "y values were not computed"},
}

// UserMessage returns the short message shown to the user for err.
func UserMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.kind) {
			return m.message
		}
	}

	return UnknownErrorMessage
}

// IsPlotError reports whether err carries one of the pipeline error kinds.
func IsPlotError(err error) bool {
	return UserMessage(err) != UnknownErrorMessage
}
