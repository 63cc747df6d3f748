// Package num formats and classifies float64 values the way style documents
// print them.
//
// Style documents are JSON, so every number is a float64 and integers are
// printed without a fractional part. Large and small magnitudes switch to
// exponent notation at the same thresholds used by ECMAScript, which keeps
// strings produced by "to-string" and "concat" stable across
// implementations.
package num

import (
	"math"
	"strconv"
	"strings"
)

// MaxSafeInteger is the largest integer n such that n and n+1 are both
// exactly representable as a float64.
const MaxSafeInteger = 1<<53 - 1

// Format returns the shortest decimal string that round-trips to f.
func Format(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0" // also -0
	}

	sign := ""
	if f < 0 {
		sign, f = "-", -f
	}

	// d.ddddde±xx
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(sci, "e")
	digits := strings.Replace(mant, ".", "", 1)
	e, _ := strconv.Atoi(exp)

	k := len(digits)
	n := e + 1

	var sb strings.Builder
	sb.WriteString(sign)

	switch {
	case k <= n && n <= 21:
		sb.WriteString(digits)
		sb.WriteString(strings.Repeat("0", n-k))
	case 0 < n && n <= 21:
		sb.WriteString(digits[:n])
		sb.WriteByte('.')
		sb.WriteString(digits[n:])
	case -6 < n && n <= 0:
		sb.WriteString("0.")
		sb.WriteString(strings.Repeat("0", -n))
		sb.WriteString(digits)
	default:
		sb.WriteByte(digits[0])
		if k > 1 {
			sb.WriteByte('.')
			sb.WriteString(digits[1:])
		}
		sb.WriteByte('e')
		if n-1 >= 0 {
			sb.WriteByte('+')
		}
		sb.WriteString(strconv.Itoa(n - 1))
	}

	return sb.String()
}

// IsInteger reports whether f has no fractional part.
func IsInteger(f float64) bool {
	return !math.IsInf(f, 0) && math.Floor(f) == f
}

// Round rounds half away from zero.
func Round(f float64) float64 {
	if f < 0 {
		return -math.Floor(-f + 0.5)
	}

	return math.Floor(f + 0.5)
}

// Clamp limits f to the closed interval [lo, hi].
func Clamp(f, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, f))
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// LerpSlice interpolates element-wise between a and b, which must have equal
// length.
func LerpSlice(a, b []float64, t float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = Lerp(a[i], b[i], t)
	}

	return out
}
