package expression

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/windstyle/pkg/num"
)

// toNumber converts v to a number the way the wire language's numeric
// coercion does: null and the empty string are 0, booleans are 0 or 1,
// numeric strings parse, and everything else is NaN.
func toNumber(v any) float64 {
	switch v := v.(type) {
	case nil:
		return 0
	case float64:
		return v
	case bool:
		if v {
			return 1
		}

		return 0
	case string:
		return parseNumeric(v)
	case []any:
		switch len(v) {
		case 0:
			return 0
		case 1:
			switch item := v[0].(type) {
			case nil:
				return 0
			case float64, string:
				return toNumber(item)
			}
		}
	}

	return math.NaN()
}

func parseNumeric(s string) float64 {
	s = strings.TrimSpace(s)

	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0

		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}

		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}

			return float64(n)
		}
	}

	// Reject the Go-only spellings strconv accepts.
	if strings.ContainsAny(s, "_xXpPnNiI") {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRangeErr(err) {
		return math.NaN()
	}

	return f
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)

	return ok && ne.Err == strconv.ErrRange
}

// asNumber returns v as a number, treating null as 0 and any other
// non-number as NaN.
func asNumber(v any) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case nil:
		return 0
	}

	return math.NaN()
}

// primitiveString converts a scalar to its string form, rendering null as
// "null" the way string search coerces a needle.
func primitiveString(v any) string {
	if v == nil {
		return "null"
	}

	return ValueToString(v)
}

// isNativeType reports whether v belongs to one of the named native
// categories (see nativeType).
func isNativeType(v any, allowed ...string) bool {
	got := nativeType(v)

	for _, a := range allowed {
		if a == got {
			return true
		}
	}

	return false
}

// relativeIndex converts a possibly negative or fractional index into an
// offset within [0, n]. Negative indices count back from n.
func relativeIndex(f float64, n int) int {
	if math.IsNaN(f) {
		return 0
	}

	f = math.Trunc(f)
	if f < 0 {
		f += float64(n)
	}

	return int(num.Clamp(f, 0, float64(n)))
}

// sliceBounds resolves begin and an optional end to a half-open range
// within [0, n].
func sliceBounds(n int, begin float64, end *float64) (int, int) {
	lo := relativeIndex(begin, n)
	hi := n

	if end != nil {
		hi = relativeIndex(*end, n)
	}

	if hi < lo {
		hi = lo
	}

	return lo, hi
}

// runeIndex returns the index, in code points, of the first occurrence of
// needle in s at or after the code point offset from, or -1.
func runeIndex(s, needle string, from int) int {
	runes := []rune(s)
	if from > len(runes) {
		from = len(runes)
	}

	prefix := len(string(runes[:from]))

	i := strings.Index(s[prefix:], needle)
	if i < 0 {
		return -1
	}

	return from + utf8.RuneCountInString(s[prefix:prefix+i])
}
