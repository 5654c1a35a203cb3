package aggregate

// Calibrated exponents of the weighted power mean, indexed by connector variant and
// arity. Results scored before must stay comparable, so these values are fixed data.
const (
	minTabulatedArity = 2
	maxTabulatedArity = 5
)

// hardConjunctionExponents holds r(n) for the hard conjunction variants.
var hardConjunctionExponents = map[Variant]map[int]float64{
	VariantLow:     {2: -0.720, 3: -0.732, 4: -0.737, 5: -0.741},
	VariantMedium:  {2: -1.655, 3: -1.550, 4: -1.480, 5: -1.430},
	VariantHigh:    {2: -3.510, 3: -3.114, 4: -2.924, 5: -2.788},
	VariantHighest: {2: -9.060, 3: -7.639, 4: -6.849, 5: -6.350},
}

// softConjunctionExponents holds R(n), shared by every soft conjunction variant.
var softConjunctionExponents = map[int]float64{
	2: -3.510,
	3: -3.114,
	4: -2.924,
	5: -2.788,
}

// mix is the convex combination a*mean + b*powerMean used by soft conjunction.
type mix struct {
	mean  float64
	power float64
}

var softConjunctionMix = map[Variant]mix{
	VariantLow:    {mean: 5.0 / 7.0, power: 2.0 / 7.0},
	VariantMedium: {mean: 3.0 / 7.0, power: 4.0 / 7.0},
	VariantHigh:   {mean: 1.0 / 7.0, power: 6.0 / 7.0},
}

// tabulatedArity maps n onto the table rows. Arities above the table reuse the
// largest row; arities below it reuse the smallest.
func tabulatedArity(n int) int {
	switch {
	case n < minTabulatedArity:
		return minTabulatedArity
	case n > maxTabulatedArity:
		return maxTabulatedArity
	default:
		return n
	}
}

// Tabulated reports whether n has its own row in the exponent tables.
func Tabulated(n int) bool {
	return n >= minTabulatedArity && n <= maxTabulatedArity
}

func hardExponent(v Variant, n int) float64 {
	row, ok := hardConjunctionExponents[v]
	if !ok {
		row = hardConjunctionExponents[VariantMedium]
	}
	return row[tabulatedArity(n)]
}

func softExponent(n int) float64 {
	return softConjunctionExponents[tabulatedArity(n)]
}

func softMix(v Variant) mix {
	m, ok := softConjunctionMix[v]
	if !ok {
		// soft conjunction has no "highest" row
		return softConjunctionMix[VariantHigh]
	}
	return m
}
