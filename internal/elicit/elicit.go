package elicit

import (
	"math"
	"sort"
)

// Point is one row of a custom requirements table: a raw value and the
// satisfaction percentage (0–100) assigned to it.
type Point struct {
	Value      float64 `yaml:"value" json:"value"`
	Percentage float64 `yaml:"percentage" json:"percentage"`
}

// Increasing scores "higher is better": 0 at or below min, 1 at or above max,
// linear in between.
// When the thresholds are degenerate (min >= max) the function is a step at min.
func Increasing(value, min, max float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	if value <= min {
		return 0
	}
	if value >= max {
		return 1
	}
	return clamp((value - min) / (max - min))
}

// Decreasing scores "lower is better" and mirrors Increasing exactly.
func Decreasing(value, min, max float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	return 1 - Increasing(value, min, max)
}

// Range scores a preferred interval described by four points:
// unacceptable below a, rising from a to b, fully satisfied within [b, c],
// falling from c to d, and unacceptable at or above d.
//
// Out-of-order thresholds are repaired by clamping each point to the one before it.
func Range(value, a, b, c, d float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	b = math.Max(a, b)
	c = math.Max(b, c)
	d = math.Max(c, d)

	switch {
	case value < a:
		return 0
	case value >= d:
		return 0
	case value < b:
		return clamp((value - a) / (b - a))
	case value <= c:
		return 1
	default:
		return clamp((d - value) / (d - c))
	}
}

// Points interpolates satisfaction from a table of (value, percentage) pairs.
// The table is sorted by value on a copy; values outside the covered range take
// the percentage of the nearest end point. An empty table scores 0.
func Points(value float64, points []Point) float64 {
	if math.IsNaN(value) || len(points) == 0 {
		return 0
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value < sorted[j].Value
	})

	first, last := sorted[0], sorted[len(sorted)-1]
	if value <= first.Value {
		return percent(first.Percentage)
	}
	if value >= last.Value {
		return percent(last.Percentage)
	}

	for i := 0; i < len(sorted)-1; i++ {
		p1, p2 := sorted[i], sorted[i+1]
		if p2.Value == p1.Value {
			continue
		}
		if value >= p1.Value && value <= p2.Value {
			ratio := (value - p1.Value) / (p2.Value - p1.Value)
			return percent(p1.Percentage + ratio*(p2.Percentage-p1.Percentage))
		}
	}

	return 0
}

func percent(p float64) float64 {
	return clamp(p / 100)
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
