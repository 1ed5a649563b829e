package decl

import (
	"math"
)

// Constants are the names resolved after the caller's variable map.
// They are never reported by ExtractVariables.
var Constants = map[string]float64{
	"pi": math.Pi,
	"PI": math.Pi,
	"e":  math.E,
	"E":  math.E,
}

// IsConstant reports whether name resolves through the constant table.
func IsConstant(name string) bool {
	_, ok := Constants[name]
	return ok
}

// Evaluate computes the value of expr. Identifiers are looked up in vars
// first and then in Constants. Arithmetic follows IEEE-754: division by zero
// and domain errors yield ±Inf or NaN rather than an error.
func Evaluate(expr Expr, vars map[string]float64) (float64, error) {
	switch n := expr.(type) {
	case *NumberExpr:
		return n.Value, nil
	case *VariableExpr:
		if v, ok := vars[n.Name]; ok {
			return v, nil
		}
		if v, ok := Constants[n.Name]; ok {
			return v, nil
		}
		return 0, &EvalError{Kind: UnknownVariable, Name: n.Name, Pos: n.Pos()}
	case *BinaryExpr:
		return evalBinaryExpr(n, vars)
	case *UnaryExpr:
		operand, err := Evaluate(n.Operand, vars)
		if err != nil {
			return 0, err
		}
		if n.Op != "-" {
			return 0, &EvalError{Kind: UnknownOperator, Name: n.Op, Pos: n.Pos()}
		}
		return -operand, nil
	case *CallExpr:
		return evalCallExpr(n, vars)
	default:
		return 0, &EvalError{Kind: UnknownOperator, Name: "<nil>"}
	}
}

func evalBinaryExpr(n *BinaryExpr, vars map[string]float64) (float64, error) {
	l, err := Evaluate(n.Left, vars)
	if err != nil {
		return 0, err
	}
	r, err := Evaluate(n.Right, vars)
	if err != nil {
		return 0, err
	}
	switch n.Op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		return l / r, nil
	case "**":
		return pow(l, r), nil
	default:
		return 0, &EvalError{Kind: UnknownOperator, Name: n.Op, Pos: n.Pos()}
	}
}

func evalCallExpr(n *CallExpr, vars map[string]float64) (float64, error) {
	fn, ok := Builtins[n.Name]
	if !ok {
		return 0, &EvalError{Kind: UnknownFunction, Name: n.Name, Pos: n.Pos()}
	}
	args := make([]float64, len(n.Args))
	for i, a := range n.Args {
		v, err := Evaluate(a, vars)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return fn(args...), nil
}

// ExtractVariables returns the free variable names of expr in order of
// first occurrence during a depth-first, left-to-right walk. Constants are
// excluded and each name appears once.
func ExtractVariables(expr Expr) []string {
	seen := map[string]bool{}
	out := []string{}
	var walk func(e Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *VariableExpr:
			if !IsConstant(n.Name) && !seen[n.Name] {
				seen[n.Name] = true
				out = append(out, n.Name)
			}
		case *BinaryExpr:
			walk(n.Left)
			walk(n.Right)
		case *UnaryExpr:
			walk(n.Operand)
		case *CallExpr:
			for _, a := range n.Args {
				walk(a)
			}
		}
	}
	walk(expr)
	return out
}
