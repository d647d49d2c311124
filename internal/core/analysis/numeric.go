// Package analysis answers fixed-topic questions about the current layers and computes the
// composite health and city scores. Every function here is pure: it reads a snapshot and
// returns derived values without touching shared state.
package analysis

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number coerces v to a finite float64. Numeric kinds and strings holding a finite number are
// accepted; everything else (nil, booleans, empty strings, NaN, ±Inf) reports false.
func Number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Numbers returns the values of vs that coerce to finite numbers, in order.
func Numbers(vs []any) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		if f, ok := Number(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// formatNumber renders f in its shortest round-trip decimal form (70, 82.5).
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// label renders a property used as a display name, falling back when it is absent.
func label(v any, fallback string) string {
	switch s := v.(type) {
	case nil:
		return fallback
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	}
	if f, ok := Number(v); ok {
		return formatNumber(f)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(b)
}
