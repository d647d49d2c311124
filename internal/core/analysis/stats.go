package analysis

import "math"

// Stats summarises a numeric sample.
type Stats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"` // rounded to 2 decimals
}

// Summarize computes min, max and the 2-decimal mean of values.
// It reports false for an empty sample.
func Summarize(values []float64) (Stats, bool) {
	if len(values) == 0 {
		return Stats{}, false
	}
	s := Stats{Min: values[0], Max: values[0]}
	sum := 0.0
	for _, v := range values {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += v
	}
	s.Avg = round2(sum / float64(len(values)))
	return s, true
}

// round2 rounds half away from zero at the second decimal.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(f, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, f))
}
