package decl_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panyam/fermi/decl"
	"github.com/panyam/fermi/parser"
)

func eval(t *testing.T, formula string, vars map[string]float64) float64 {
	t.Helper()
	expr, err := parser.Parse(formula)
	require.NoError(t, err, "parsing %q", formula)
	v, err := decl.Evaluate(expr, vars)
	require.NoError(t, err, "evaluating %q", formula)
	return v
}

func TestEvaluate_Arithmetic(t *testing.T) {
	tests := []struct {
		formula  string
		vars     map[string]float64
		expected float64
	}{
		{"2+3*4", nil, 14},
		{"2**3**2", nil, 512},
		{"-2**2", nil, 4},
		{"-(2**2)", nil, -4},
		{"10-4-3", nil, 3},
		{"12/3/2", nil, 2},
		{"x*y+1", map[string]float64{"x": 3, "y": 4}, 13},
		{"2*pi", nil, 2 * math.Pi},
		{"E", nil, math.E},
		{"abs(-3)", nil, 3},
		{"sqrt(16)", nil, 4},
		{"exp(0)", nil, 1},
		{"log(e)", nil, 1},
		{"log2(8)", nil, 3},
		{"ceil(1.2)", nil, 2},
		{"floor(-1.2)", nil, -2},
		{"round(2.5)", nil, 3},
		{"round(-2.5)", nil, -2},
		{"round(-2.6)", nil, -3},
		{"min(3, 1, 2)", nil, 1},
		{"max(3, 1, 2)", nil, 3},
		{"pow(2, 10)", nil, 1024},
		{"sqrt(16, 99)", nil, 4},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			assert.InDelta(t, tt.expected, eval(t, tt.formula, tt.vars), 1e-12)
		})
	}
}

func TestEvaluate_VariablesShadowConstants(t *testing.T) {
	assert.Equal(t, 3.0, eval(t, "pi", map[string]float64{"pi": 3}))
}

func TestEvaluate_NonFiniteResults(t *testing.T) {
	assert.True(t, math.IsInf(eval(t, "1/0", nil), 1))
	assert.True(t, math.IsInf(eval(t, "-1/0", nil), -1))
	assert.True(t, math.IsNaN(eval(t, "0/0", nil)))
	assert.True(t, math.IsNaN(eval(t, "log(-1)", nil)))
	assert.True(t, math.IsInf(eval(t, "log(0)", nil), -1))
	assert.True(t, math.IsNaN(eval(t, "sqrt(-4)", nil)))
}

func TestEvaluate_ArityFollowsMathSemantics(t *testing.T) {
	assert.True(t, math.IsNaN(eval(t, "sqrt()", nil)))
	assert.True(t, math.IsNaN(eval(t, "pow(2)", nil)))
	assert.True(t, math.IsInf(eval(t, "min()", nil), 1))
	assert.True(t, math.IsInf(eval(t, "max()", nil), -1))
	assert.True(t, math.IsNaN(eval(t, "max(1, 0/0)", nil)))
	assert.True(t, math.IsNaN(eval(t, "1 ** (0/0)", nil)))
	assert.True(t, math.IsNaN(eval(t, "pow(-1, 1/0)", nil)))
	assert.Equal(t, 1.0, eval(t, "(0/0) ** 0", nil))
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		expr     decl.Expr
		kind     decl.EvalErrorKind
		sentinel error
		subject  string
	}{
		{"unknown variable", decl.Variable("x"), decl.UnknownVariable, decl.ErrUnknownVariable, "x"},
		{"unknown function", decl.Call("gamma", decl.Number(1)), decl.UnknownFunction, decl.ErrUnknownFunction, "gamma"},
		{"unknown binary operator", decl.Binary("%", decl.Number(1), decl.Number(2)), decl.UnknownOperator, decl.ErrUnknownOperator, "%"},
		{"unknown unary operator", decl.Unary("!", decl.Number(1)), decl.UnknownOperator, decl.ErrUnknownOperator, "!"},
		{"nested in call args", decl.Call("max", decl.Number(1), decl.Variable("y")), decl.UnknownVariable, decl.ErrUnknownVariable, "y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decl.Evaluate(tt.expr, map[string]float64{})
			require.Error(t, err)
			var evalErr *decl.EvalError
			require.True(t, errors.As(err, &evalErr))
			assert.Equal(t, tt.kind, evalErr.Kind)
			assert.Equal(t, tt.subject, evalErr.Name)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestEvaluate_UnknownVariableFromParse(t *testing.T) {
	expr, err := parser.Parse("x")
	require.NoError(t, err)
	_, err = decl.Evaluate(expr, map[string]float64{})
	assert.ErrorIs(t, err, decl.ErrUnknownVariable)
	assert.EqualError(t, err, "unknown variable: x")
}

func TestEvaluate_Deterministic(t *testing.T) {
	expr, err := parser.Parse("sqrt(2) * log10(12345) + max(pi, e) ** 1.5 - round(7.49)")
	require.NoError(t, err)
	first, err := decl.Evaluate(expr, nil)
	require.NoError(t, err)
	for range 100 {
		v, err := decl.Evaluate(expr, nil)
		require.NoError(t, err)
		assert.Equal(t, first, v)
	}
}

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		formula  string
		expected []string
	}{
		{"a + b*a - pi", []string{"a", "b"}},
		{"2 + 3", []string{}},
		{"e * E * PI", []string{}},
		{"max(z, y, -x) ** w", []string{"z", "y", "x", "w"}},
		{"log(x) / x", []string{"x"}},
		{"population * meals_per_day * price", []string{"population", "meals_per_day", "price"}},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			expr, err := parser.Parse(tt.formula)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, decl.ExtractVariables(expr))
		})
	}
}

func TestExtractVariables_FunctionNamesAreNotVariables(t *testing.T) {
	expr := decl.Call("log", decl.Variable("log"))
	assert.Equal(t, []string{"log"}, decl.ExtractVariables(expr))
	assert.Empty(t, decl.ExtractVariables(decl.Call("sqrt", decl.Number(4))))
}
