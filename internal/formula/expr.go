package formula

import (
	"math"
	"strings"
)

// Binding strength used when printing; higher binds tighter.
const (
	precAdd = iota + 1
	precMul
	precUnary
	precPower
	precAtom
)

type node interface {
	eval(x float64) (float64, error)
	format(b *strings.Builder, parent int)
	hasVariable() bool
}

// Expression is a parsed formula in the variable x. It is immutable and safe
// for concurrent use.
type Expression struct {
	root node
}

// Eval substitutes x and computes the value of the expression. It never
// returns NaN or an infinity: those outcomes are reported as errors wrapping
// ErrEvaluation.
func (e *Expression) Eval(x float64) (float64, error) {
	return e.root.eval(x)
}

// String returns the expression in canonical form, e.g. "2 * x**2 + x".
// Parsing the result yields an equivalent expression.
func (e *Expression) String() string {
	var b strings.Builder
	e.root.format(&b, 0)

	return b.String()
}

// DependsOnVariable reports whether x occurs in the expression.
func (e *Expression) DependsOnVariable() bool {
	return e.root.hasVariable()
}

// finite reports NaN as ErrDomain and infinities as ErrOverflow.
func finite(v float64) (float64, error) {
	switch {
	case math.IsNaN(v):
		return 0, ErrDomain
	case math.IsInf(v, 0):
		return 0, ErrOverflow
	default:
		return v, nil
	}
}

type number struct {
	value float64
	text  string
}

func (n *number) eval(float64) (float64, error) { return finite(n.value) }

func (n *number) format(b *strings.Builder, _ int) { b.WriteString(n.text) }

func (n *number) hasVariable() bool { return false }

type variable struct{}

func (variable) eval(x float64) (float64, error) { return finite(x) }

func (variable) format(b *strings.Builder, _ int) { b.WriteString(Variable) }

func (variable) hasVariable() bool { return true }

type constant struct {
	name  string
	value float64
}

func (c *constant) eval(float64) (float64, error) { return c.value, nil }

func (c *constant) format(b *strings.Builder, _ int) { b.WriteString(c.name) }

func (c *constant) hasVariable() bool { return false }

type negation struct {
	operand node
}

func (n *negation) eval(x float64) (float64, error) {
	v, err := n.operand.eval(x)
	if err != nil {
		return 0, err
	}

	return -v, nil
}

func (n *negation) format(b *strings.Builder, parent int) {
	if parent > precUnary {
		b.WriteByte('(')
		defer b.WriteByte(')')
	}
	b.WriteByte('-')
	n.operand.format(b, precUnary)
}

func (n *negation) hasVariable() bool { return n.operand.hasVariable() }

type operator int

const (
	opAdd operator = iota
	opSub
	opMul
	opDiv
	opFloorDiv
	opPow
)

var operatorText = [...]string{ //nolint: gochecknoglobals
	opAdd:      " + ",
	opSub:      " - ",
	opMul:      " * ",
	opDiv:      " / ",
	opFloorDiv: " // ",
	opPow:      "**",
}

func (o operator) precedence() int {
	switch o {
	case opAdd, opSub:
		return precAdd
	case opPow:
		return precPower
	default:
		return precMul
	}
}

func (o operator) apply(l, r float64) (float64, error) {
	switch o {
	case opAdd:
		return finite(l + r)
	case opSub:
		return finite(l - r)
	case opMul:
		return finite(l * r)
	case opDiv:
		if r == 0 {
			return 0, ErrDivisionByZero
		}

		return finite(l / r)
	case opFloorDiv:
		if r == 0 {
			return 0, ErrDivisionByZero
		}

		return finite(math.Floor(l / r))
	case opPow:
		if l == 0 && r < 0 {
			return 0, ErrDivisionByZero
		}

		return finite(math.Pow(l, r))
	default:
		return 0, ErrDomain
	}
}

type binary struct {
	op          operator
	left, right node
}

func (n *binary) eval(x float64) (float64, error) {
	l, err := n.left.eval(x)
	if err != nil {
		return 0, err
	}
	r, err := n.right.eval(x)
	if err != nil {
		return 0, err
	}

	return n.op.apply(l, r)
}

func (n *binary) format(b *strings.Builder, parent int) {
	p := n.op.precedence()
	if p < parent {
		b.WriteByte('(')
		defer b.WriteByte(')')
	}

	// ** is right-associative and its exponent may be a bare negation.
	left, right := p, p+1
	if n.op == opPow {
		left, right = p+1, precUnary
	}
	n.left.format(b, left)
	b.WriteString(operatorText[n.op])
	n.right.format(b, right)
}

func (n *binary) hasVariable() bool { return n.left.hasVariable() || n.right.hasVariable() }

type call struct {
	fn  *function
	arg node
}

func (n *call) eval(x float64) (float64, error) {
	v, err := n.arg.eval(x)
	if err != nil {
		return 0, err
	}
	if n.fn.defined != nil && !n.fn.defined(v) {
		return 0, ErrDomain
	}

	return finite(n.fn.apply(v))
}

func (n *call) format(b *strings.Builder, _ int) {
	b.WriteString(n.fn.name)
	b.WriteByte('(')
	n.arg.format(b, 0)
	b.WriteByte(')')
}

func (n *call) hasVariable() bool { return n.arg.hasVariable() }

type function struct {
	name  string
	apply func(float64) float64
	// defined rejects arguments where the real function has no value even
	// though math returns a number (log(0) is -Inf, not an error).
	defined func(float64) bool
}

func positive(v float64) bool { return v > 0 }

var functions = map[string]*function{ //nolint: gochecknoglobals
	"sin":     {name: "sin", apply: math.Sin},
	"cos":     {name: "cos", apply: math.Cos},
	"tan":     {name: "tan", apply: math.Tan},
	"asin":    {name: "asin", apply: math.Asin},
	"acos":    {name: "acos", apply: math.Acos},
	"atan":    {name: "atan", apply: math.Atan},
	"sinh":    {name: "sinh", apply: math.Sinh},
	"cosh":    {name: "cosh", apply: math.Cosh},
	"tanh":    {name: "tanh", apply: math.Tanh},
	"exp":     {name: "exp", apply: math.Exp},
	"log":     {name: "log", apply: math.Log, defined: positive},
	"ln":      {name: "log", apply: math.Log, defined: positive},
	"sqrt":    {name: "sqrt", apply: math.Sqrt},
	"abs":     {name: "abs", apply: math.Abs},
	"floor":   {name: "floor", apply: math.Floor},
	"ceiling": {name: "ceiling", apply: math.Ceil},
}

var constants = map[string]float64{ //nolint: gochecknoglobals
	"pi": math.Pi,
	"E":  math.E,
}
