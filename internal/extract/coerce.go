package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// macroFields are the reserved numeric field names normalized by Coerce.
var macroFields = map[string]bool{
	"calories":    true,
	"protein":     true,
	"carbs":       true,
	"fat":         true,
	"unit_weight": true,
}

// leadingNumber matches the leading signed numeric run of a string value,
// e.g. "120kcal" -> "120", "12.5 g" -> "12.5".
var leadingNumber = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?`)

// Coerce walks the parsed tree and normalizes every reserved macro field to
// an integer: numbers round to nearest, numeric-looking strings take their
// leading numeric run, anything else becomes zero. Unrecognized shapes pass
// through unchanged and Coerce never fails, so every macro-bearing object
// downstream can be decoded without further validation.
func Coerce(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if macroFields[k] {
				t[k] = coerceNumber(val)
			} else {
				t[k] = Coerce(val)
			}
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = Coerce(e)
		}
		return t
	default:
		return v
	}
}

// coerceNumber converts a loosely-typed value to an integer. Malformed
// strings with a leading signed run keep the parsed number unclamped; a run
// with no digits yields zero.
func coerceNumber(v any) int {
	switch n := v.(type) {
	case float64:
		return int(math.Round(n))
	case string:
		m := leadingNumber.FindString(strings.TrimSpace(n))
		if m == "" {
			return 0
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0
		}
		return int(math.Round(f))
	case int:
		return n
	default:
		return 0
	}
}
