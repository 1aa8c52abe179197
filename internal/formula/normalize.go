package formula

import (
	"regexp"
	"strings"
)

// Variable is the name of the single free symbol a formula may use.
const Variable = "x"

// labelPrefix is the cosmetic "y =" people type in front of a formula.
const labelPrefix = "y ="

// implicitMultiplication matches a digit written directly before the variable.
var implicitMultiplication = regexp.MustCompile(`(\d)(` + Variable + `)`) //nolint: gochecknoglobals

// Normalize rewrites user shorthand into text Parse accepts.
//
// The rules are applied in order, each as a plain text substitution:
//   - every "y =" is removed (the label is not anchored to the start)
//   - every "^" becomes the power operator "**"
//   - a digit directly followed by x gets an explicit "*": "2x" becomes "2 * x"
//
// Only digit-then-variable adjacency is rewritten. "x2", ")x" and "x(" are left
// as typed and usually fail to parse afterwards. Normalize does not validate
// the result; it only returns ErrEmptyInput for blank input.
func Normalize(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyInput
	}

	text := strings.ReplaceAll(raw, labelPrefix, "")
	text = strings.ReplaceAll(text, "^", "**")
	text = implicitMultiplication.ReplaceAllString(text, "${1} * ${2}")

	return text, nil
}
