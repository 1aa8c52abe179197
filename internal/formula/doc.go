// Package formula turns user-typed formulas in one variable into evaluable
// expressions.
//
// Input goes through two stages. Normalize rewrites the shorthand people type
// ("y = 2x^2 + x") into plain expression syntax ("2 * x**2 + x"), and Parse
// builds an Expression tree from that text. The accepted syntax follows the
// usual calculator conventions: + - * / // and ** with Python precedence,
// parentheses, decimal literals, the constants pi and E, and a small set of
// one-argument functions (sin, cos, log, sqrt, ...). The only free symbol is
// the variable x; any other name is rejected at parse time.
package formula
