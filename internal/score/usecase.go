package score

// Anomaly names a data problem the scoring core absorbed instead of failing.
type Anomaly string

const (
	// AnomalyMissingValue: a leaf had no value or a non-numeric one and scored 0.
	AnomalyMissingValue Anomaly = "missing_value"
	// AnomalyDegenerateThresholds: leaf thresholds were inverted or collapsed.
	AnomalyDegenerateThresholds Anomaly = "degenerate_thresholds"
	// AnomalyUnknownConnector: a node's connector was missing or unrecognized and averaged instead.
	AnomalyUnknownConnector Anomaly = "unknown_connector"
	// AnomalyArityFallback: a node had more or fewer children than the exponent tables cover.
	AnomalyArityFallback Anomaly = "arity_fallback"
	// AnomalyEmptyNode: an internal node without children scored 0.
	AnomalyEmptyNode Anomaly = "empty_node"
)

// Recorder observes evaluations. Implementations must be safe for concurrent use.
type Recorder interface {
	RecordAnomaly(kind Anomaly)
	ObserveScore(score float64)
}

// Deriver computes additional leaf values from the values an alternative supplies.
type Deriver interface {
	Derive(values map[string]float64) map[string]float64
}

type nopRecorder struct{}

func (nopRecorder) RecordAnomaly(Anomaly)  {}
func (nopRecorder) ObserveScore(float64) {}
