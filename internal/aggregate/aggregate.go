package aggregate

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// NormalizeWeights turns sibling importances into weights summing to 1.
// Negative and NaN importances count as zero; when nothing is left the
// weights are uniform.
func NormalizeWeights(importances []float64) []float64 {
	n := len(importances)
	weights := make([]float64, n)
	if n == 0 {
		return weights
	}

	for i, imp := range importances {
		if imp > 0 && !math.IsInf(imp, 1) {
			weights[i] = imp
		}
	}

	sum := floats.Sum(weights)
	if sum <= 0 {
		for i := range weights {
			weights[i] = 1 / float64(n)
		}
		return weights
	}

	floats.Scale(1/sum, weights)
	return weights
}

// WeightedMean is the neutral aggregator: sum of w[i]*v[i].
func WeightedMean(values, weights []float64) float64 {
	if len(values) == 0 || len(values) != len(weights) {
		return 0
	}
	return clamp(floats.Dot(weights, values))
}

// HardConjunction models "all components are mandatory": a weighted power mean
// with a negative exponent, so any unsatisfied input drives the result to 0.
func HardConjunction(values, weights []float64, v Variant) float64 {
	if single, ok := trivial(values, weights); ok {
		return single
	}
	return powerMean(values, weights, hardExponent(v, len(values)))
}

// SoftConjunction mixes the arithmetic mean with a negative-exponent power mean,
// tolerating some unsatisfied inputs while still penalizing them.
func SoftConjunction(values, weights []float64, v Variant) float64 {
	if single, ok := trivial(values, weights); ok {
		return single
	}
	m := softMix(v)
	mean := WeightedMean(values, weights)
	pm := powerMean(values, weights, softExponent(len(values)))
	return clamp(m.mean*mean + m.power*pm)
}

// SoftDisjunction is the De Morgan dual of SoftConjunction.
func SoftDisjunction(values, weights []float64, v Variant) float64 {
	return 1 - SoftConjunction(complement(values), weights, v)
}

// HardDisjunction is the De Morgan dual of HardConjunction.
func HardDisjunction(values, weights []float64, v Variant) float64 {
	return 1 - HardConjunction(complement(values), weights, v)
}

// Aggregate applies connector c to the child satisfactions. Unknown connectors
// aggregate as the weighted mean.
func Aggregate(c Connector, values, weights []float64) float64 {
	if len(values) != len(weights) {
		weights = NormalizeWeights(make([]float64, len(values)))
	}

	switch c.Family() {
	case FamilyHardConjunction:
		return HardConjunction(values, weights, c.Variant())
	case FamilySoftConjunction:
		return SoftConjunction(values, weights, c.Variant())
	case FamilySoftDisjunction:
		return SoftDisjunction(values, weights, c.Variant())
	case FamilyHardDisjunction:
		return HardDisjunction(values, weights, c.Variant())
	default:
		if single, ok := trivial(values, weights); ok {
			return single
		}
		return WeightedMean(values, weights)
	}
}

// powerMean computes (sum w[i]*v[i]^r)^(1/r). For r < 0 any input at or below
// zero that carries weight yields exactly 0. Zero-weight inputs are ignored.
func powerMean(values, weights []float64, r float64) float64 {
	if len(values) == 0 || len(values) != len(weights) {
		return 0
	}

	if r == 0 {
		logSum := 0.0
		for i, v := range values {
			if weights[i] <= 0 {
				continue
			}
			if v <= 0 {
				return 0
			}
			logSum += weights[i] * math.Log(v)
		}
		return clamp(math.Exp(logSum))
	}

	sum := 0.0
	for i, v := range values {
		w := weights[i]
		if w <= 0 {
			continue
		}
		v = clamp(v)
		if r < 0 && v <= 0 {
			return 0
		}
		sum += w * math.Pow(v, r)
	}
	if sum <= 0 {
		return 0
	}
	return clamp(math.Pow(sum, 1/r))
}

// trivial handles arities below the tabulated range: no inputs score 0 and a
// single input passes through unchanged.
func trivial(values, weights []float64) (float64, bool) {
	switch len(values) {
	case 0:
		return 0, true
	case 1:
		return clamp(values[0]), true
	default:
		return 0, false
	}
}

func complement(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = 1 - clamp(v)
	}
	return out
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
