package viz

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatNumber renders a statistic for display:
//   - very large (>= 1e6) or very small (< 0.01) magnitudes use exponent
//     notation with two decimals, e.g. 1.23e+6
//   - other integers are digit grouped, e.g. 12,345
//   - everything else gets four significant digits, e.g. 3.142
func FormatNumber(x float64) string {
	switch {
	case x == 0:
		return "0"
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}
	abs := math.Abs(x)
	if abs >= 1e6 || abs < 0.01 {
		return trimExponent(strconv.FormatFloat(x, 'e', 2, 64))
	}
	if x == math.Trunc(x) {
		return printer.Sprintf("%d", int64(x))
	}
	return toPrecision(x, 4)
}

// toPrecision formats x with the given number of significant digits, using
// exponent notation only when the exponent is at least digits or below -6.
// Trailing zeros are kept.
func toPrecision(x float64, digits int) string {
	s := strconv.FormatFloat(x, 'e', digits-1, 64)
	exp, _ := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:])
	if exp < -6 || exp >= digits {
		return trimExponent(s)
	}
	return strconv.FormatFloat(x, 'f', digits-1-exp, 64)
}

// trimExponent rewrites Go's two digit exponent (e+06) as e+6.
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	digits := strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return s[:i+2] + digits
}

func formatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
