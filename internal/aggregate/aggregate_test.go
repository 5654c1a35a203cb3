package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWeights_SumsToOne(t *testing.T) {
	inputs := [][]float64{
		{1, 1},
		{9, 3, 1},
		{0.2, 0.5, 0.1, 7},
		{5, 0, 5, 0, 1},
	}
	for _, in := range inputs {
		w := NormalizeWeights(in)
		require.Len(t, w, len(in))
		sum := 0.0
		for _, x := range w {
			assert.GreaterOrEqual(t, x, 0.0)
			sum += x
		}
		assert.InDelta(t, 1.0, sum, 1e-12, "input %v", in)
	}
}

func TestNormalizeWeights_Proportional(t *testing.T) {
	w := NormalizeWeights([]float64{3, 1})
	assert.InDelta(t, 0.75, w[0], 1e-12)
	assert.InDelta(t, 0.25, w[1], 1e-12)
}

func TestNormalizeWeights_AllZeroIsUniform(t *testing.T) {
	w := NormalizeWeights([]float64{0, 0, 0, 0})
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, w)

	w = NormalizeWeights([]float64{-1, math.NaN()})
	assert.Equal(t, []float64{0.5, 0.5}, w)
}

func TestNormalizeWeights_Empty(t *testing.T) {
	assert.Empty(t, NormalizeWeights(nil))
}

func TestWeightedMean(t *testing.T) {
	assert.Equal(t, 0.5, WeightedMean([]float64{1, 0}, []float64{0.5, 0.5}))
	assert.InDelta(t, 0.7, WeightedMean([]float64{1, 0.4}, []float64{0.5, 0.5}), 1e-12)
	assert.Equal(t, 0.0, WeightedMean([]float64{1, 0}, []float64{0, 1}))
	assert.Equal(t, 0.0, WeightedMean([]float64{1}, []float64{0.5, 0.5}))
}

func TestHardConjunction_ZeroInputCollapses(t *testing.T) {
	for _, v := range []Variant{VariantLow, VariantMedium, VariantHigh, VariantHighest} {
		for n := 2; n <= 7; n++ {
			values := make([]float64, n)
			for i := range values {
				values[i] = 0.9
			}
			values[n-1] = 0
			weights := NormalizeWeights(make([]float64, n))

			assert.Equal(t, 0.0, HardConjunction(values, weights, v), "variant %d arity %d", v, n)
			assert.NotEqual(t, 0.0, WeightedMean(values, weights))
		}
	}
}

func TestHardConjunction_Formula(t *testing.T) {
	values := []float64{0.8, 0.4}
	weights := []float64{0.5, 0.5}
	r := -1.655
	want := math.Pow(0.5*math.Pow(0.8, r)+0.5*math.Pow(0.4, r), 1/r)

	assert.InDelta(t, want, HardConjunction(values, weights, VariantMedium), 1e-12)
}

func TestHardConjunction_Strictness(t *testing.T) {
	values := []float64{0.9, 0.3, 0.6}
	weights := NormalizeWeights([]float64{1, 1, 1})

	low := HardConjunction(values, weights, VariantLow)
	med := HardConjunction(values, weights, VariantMedium)
	high := HardConjunction(values, weights, VariantHigh)
	highest := HardConjunction(values, weights, VariantHighest)

	assert.Greater(t, WeightedMean(values, weights), low)
	assert.Greater(t, low, med)
	assert.Greater(t, med, high)
	assert.Greater(t, high, highest)
	assert.GreaterOrEqual(t, highest, 0.3)
}

func TestHardConjunction_IdempotentOnEqualInputs(t *testing.T) {
	got := HardConjunction([]float64{0.6, 0.6, 0.6}, NormalizeWeights([]float64{2, 1, 1}), VariantHigh)
	assert.InDelta(t, 0.6, got, 1e-9)
}

func TestSoftConjunction_Formula(t *testing.T) {
	values := []float64{0.8, 0.4}
	weights := []float64{0.5, 0.5}
	r := -3.510
	mean := 0.6
	pm := math.Pow(0.5*math.Pow(0.8, r)+0.5*math.Pow(0.4, r), 1/r)

	assert.InDelta(t, 3.0/7.0*mean+4.0/7.0*pm, SoftConjunction(values, weights, VariantMedium), 1e-12)
	assert.InDelta(t, 1.0/7.0*mean+6.0/7.0*pm, SoftConjunction(values, weights, VariantHigh), 1e-12)
	assert.InDelta(t, 5.0/7.0*mean+2.0/7.0*pm, SoftConjunction(values, weights, VariantLow), 1e-12)
}

func TestSoftConjunction_ToleratesZero(t *testing.T) {
	got := SoftConjunction([]float64{1, 0}, []float64{0.5, 0.5}, VariantMedium)
	assert.InDelta(t, 3.0/7.0*0.5, got, 1e-12)
}

func TestDisjunctions_AreDeMorganDuals(t *testing.T) {
	cases := [][]float64{
		{0.1, 0.9},
		{0.3, 0.5, 0.7},
		{0, 1, 0.25, 0.75},
		{0.2, 0.2, 0.4, 0.6, 1},
		{0.5, 0.1, 0.9, 0.3, 0.7, 0.6},
	}
	for _, values := range cases {
		weights := NormalizeWeights(make([]float64, len(values)))
		complemented := make([]float64, len(values))
		for i, v := range values {
			complemented[i] = 1 - v
		}

		for _, variant := range []Variant{VariantLow, VariantMedium, VariantHigh} {
			assert.Equal(t, 1-SoftConjunction(complemented, weights, variant), SoftDisjunction(values, weights, variant))
		}
		for _, variant := range []Variant{VariantLow, VariantMedium, VariantHigh, VariantHighest} {
			assert.Equal(t, 1-HardConjunction(complemented, weights, variant), HardDisjunction(values, weights, variant))
		}
	}
}

func TestHardDisjunction_FullInputSatisfies(t *testing.T) {
	got := HardDisjunction([]float64{1, 0.1, 0}, NormalizeWeights([]float64{1, 1, 1}), VariantMedium)
	assert.Equal(t, 1.0, got)
}

func TestAggregate_Dispatch(t *testing.T) {
	values := []float64{1, 0}
	weights := []float64{0.5, 0.5}

	assert.Equal(t, 0.5, Aggregate(Average, values, weights))
	assert.Equal(t, 0.0, Aggregate(HardConjunctionMedium, values, weights))
	assert.Equal(t, 1.0, Aggregate(HardDisjunctionMedium, values, weights))
	assert.Equal(t, 0.5, Aggregate(Connector("XYZ"), values, weights))
	assert.Equal(t, SoftConjunction(values, weights, VariantHigh), Aggregate(SoftConjunctionHigh, values, weights))
	assert.Equal(t, SoftDisjunction(values, weights, VariantLow), Aggregate(SoftDisjunctionLow, values, weights))
}

func TestAggregate_ArityFallback(t *testing.T) {
	// single child passes through for every connector
	for c := range connectors {
		assert.InDelta(t, 0.37, Aggregate(c, []float64{0.37}, []float64{1}), 1e-12, "connector %s", c)
	}

	// no children scores 0 rather than failing
	assert.Equal(t, 0.0, Aggregate(HardConjunctionHigh, nil, nil))

	// arities above the table reuse the n=5 row
	values := []float64{0.5, 0.6, 0.7, 0.8, 0.9, 0.4, 0.3}
	weights := NormalizeWeights(make([]float64, len(values)))
	r := hardConjunctionExponents[VariantMedium][5]
	sum := 0.0
	for i, v := range values {
		sum += weights[i] * math.Pow(v, r)
	}
	assert.InDelta(t, math.Pow(sum, 1/r), Aggregate(HardConjunctionMedium, values, weights), 1e-12)
}

func TestAggregate_MismatchedWeightsFallBackToUniform(t *testing.T) {
	assert.Equal(t, 0.5, Aggregate(Average, []float64{1, 0}, []float64{1}))
}

func TestAggregate_OutputInRange(t *testing.T) {
	values := []float64{0, 0.001, 0.5, 0.999, 1}
	weights := NormalizeWeights([]float64{1, 2, 3, 4, 5})
	for c := range connectors {
		got := Aggregate(c, values, weights)
		assert.False(t, math.IsNaN(got), "connector %s", c)
		assert.GreaterOrEqual(t, got, 0.0, "connector %s", c)
		assert.LessOrEqual(t, got, 1.0, "connector %s", c)
	}
}
