package decl

import "math"

// Builtin is a formula function. Builtins never fail: a missing argument is
// treated as NaN and surplus arguments are ignored, so arity mismatches show
// up as NaN results rather than evaluation errors.
type Builtin func(args ...float64) float64

// Builtins is the function table consulted for CallExpr nodes.
var Builtins = map[string]Builtin{
	"log":   unary(math.Log),
	"log10": unary(math.Log10),
	"log2":  unary(math.Log2),
	"exp":   unary(math.Exp),
	"sqrt":  unary(math.Sqrt),
	"abs":   unary(math.Abs),
	"ceil":  unary(math.Ceil),
	"floor": unary(math.Floor),
	"round": unary(round),
	"min":   minOf,
	"max":   maxOf,
	"pow": func(args ...float64) float64 {
		return pow(arg(args, 0), arg(args, 1))
	},
}

func arg(args []float64, i int) float64 {
	if i < len(args) {
		return args[i]
	}
	return math.NaN()
}

func unary(f func(float64) float64) Builtin {
	return func(args ...float64) float64 { return f(arg(args, 0)) }
}

// pow differs from math.Pow for a NaN exponent and for a base of ±1 raised
// to ±Inf; both are NaN here.
func pow(x, y float64) float64 {
	if math.IsNaN(y) {
		return math.NaN()
	}
	if math.IsInf(y, 0) && math.Abs(x) == 1 {
		return math.NaN()
	}
	return math.Pow(x, y)
}

// round rounds half-way cases towards +Inf, so round(-2.5) is -2.
func round(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	if r == 0 && math.Signbit(x) {
		return math.Copysign(0, -1)
	}
	return r
}

// minOf returns +Inf with no arguments and NaN if any argument is NaN.
func minOf(args ...float64) float64 {
	out := math.Inf(1)
	for _, a := range args {
		if math.IsNaN(a) {
			return math.NaN()
		}
		if a < out || (a == 0 && out == 0 && math.Signbit(a)) {
			out = a
		}
	}
	return out
}

// maxOf returns -Inf with no arguments and NaN if any argument is NaN.
func maxOf(args ...float64) float64 {
	out := math.Inf(-1)
	for _, a := range args {
		if math.IsNaN(a) {
			return math.NaN()
		}
		if a > out || (a == 0 && out == 0 && !math.Signbit(a)) {
			out = a
		}
	}
	return out
}
