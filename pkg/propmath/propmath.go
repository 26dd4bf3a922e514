// Package propmath provides the arithmetic used by the projection and
// edge engines: display rounding, flat and recency-weighted means, and
// edge tier classification.
package propmath

import "math"

// Round2 rounds to 2 decimal places (display stability for averages)
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds to 3 decimal places
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// IsFinite reports whether v is a usable number (not NaN or ±Inf)
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// WeightedMean returns the recency-weighted mean of values, where
// values[0] is the most recent observation. The i-th value gets weight
// window-i, so the newest observation weighs `window` and weights
// strictly decrease from there.
func WeightedMean(values []float64, window int) float64 {
	if len(values) == 0 {
		return 0
	}
	var num, den float64
	for i, v := range values {
		w := float64(window - i)
		num += w * v
		den += w
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Edge tiers, strongest first
const (
	TierA = "A"
	TierB = "B"
	TierC = "C"
)

// TierThresholds holds the absolute-edge cutoffs for tiers A and B.
// Anything below B is tier C.
type TierThresholds struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// DefaultTierThresholds returns the canonical cutoffs: A >= 3.0, B >= 1.5
func DefaultTierThresholds() TierThresholds {
	return TierThresholds{A: 3.0, B: 1.5}
}

// TierFor classifies an absolute edge
func (t TierThresholds) TierFor(absEdge float64) string {
	switch {
	case absEdge >= t.A:
		return TierA
	case absEdge >= t.B:
		return TierB
	default:
		return TierC
	}
}
