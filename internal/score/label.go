package score

// Qualitative labels, from worst to best.
const (
	LabelLowest   = "Lowest"
	LabelVeryLow  = "Very low"
	LabelLow      = "Low"
	LabelMedium   = "Medium"
	LabelHigh     = "High"
	LabelVeryHigh = "Very high"
	LabelHighest  = "Highest"
)

type breakpoint struct {
	below float64
	label string
}

// labelBreakpoints are upper bounds (exclusive); anything above the last is Highest.
var labelBreakpoints = []breakpoint{
	{0.15, LabelLowest},
	{0.30, LabelVeryLow},
	{0.45, LabelLow},
	{0.60, LabelMedium},
	{0.75, LabelHigh},
	{0.90, LabelVeryHigh},
}

// Labels returns the seven labels in ascending order.
func Labels() []string {
	labels := make([]string, 0, len(labelBreakpoints)+1)
	for _, bp := range labelBreakpoints {
		labels = append(labels, bp.label)
	}
	return append(labels, LabelHighest)
}

// Label maps a score in [0,1] to its qualitative label.
func Label(score float64) string {
	for _, bp := range labelBreakpoints {
		if score < bp.below {
			return bp.label
		}
	}
	return LabelHighest
}
