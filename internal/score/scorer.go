package score

import (
	"errors"
	"log/slog"
	"math"

	"dema/internal/aggregate"
	"dema/internal/elicit"
	"dema/internal/tree"
)

// DefaultPrecision is the number of decimals final scores are rounded to.
const DefaultPrecision = 2

// ErrNoTree is returned when an alternative is scored without a tree template.
var ErrNoTree = errors.New("decision tree is not set")

// Alternative is one candidate scored against a tree.
type Alternative struct {
	Name string `yaml:"name" json:"name"`
	// Cost is informational and does not take part in aggregation.
	Cost float64 `yaml:"cost" json:"cost"`
	// Values maps leaf ids to raw inputs (numbers or numeric strings).
	Values map[string]any `yaml:"values" json:"values"`
}

// Result is the outcome of scoring one alternative.
type Result struct {
	Alternative string      `json:"alternative"`
	Cost        float64     `json:"cost"`
	Score       float64     `json:"score"`
	Raw         float64     `json:"raw"`
	Label       string      `json:"label"`
	Nodes       []NodeScore `json:"nodes,omitempty"`
}

// Scorer scores alternatives against a shared tree template. The template is
// cloned for every alternative and never modified, so one Scorer can serve
// concurrent callers.
type Scorer struct {
	precision int
	override  aggregate.Connector
	domain    elicit.Domain
	deriver   Deriver
	recorder  Recorder
	logger    *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithPrecision sets the number of decimals of the final score.
func WithPrecision(decimals int) Option {
	return func(s *Scorer) {
		if decimals >= 0 {
			s.precision = decimals
		}
	}
}

// WithConnectorOverride scores every internal node with c instead of its own
// connector. An empty connector disables the override.
func WithConnectorOverride(c aggregate.Connector) Option {
	return func(s *Scorer) {
		s.override = c
	}
}

// WithDomain replaces the default value range used for unset leaf thresholds.
func WithDomain(d elicit.Domain) Option {
	return func(s *Scorer) {
		s.domain = d
	}
}

// WithDeriver computes extra leaf values before merging.
func WithDeriver(d Deriver) Option {
	return func(s *Scorer) {
		s.deriver = d
	}
}

// WithRecorder reports anomalies and final scores to r.
func WithRecorder(r Recorder) Option {
	return func(s *Scorer) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLogger sets the logger used by the scorer and its evaluator.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScorer creates a Scorer.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		precision: DefaultPrecision,
		domain:    elicit.DefaultDomain,
		recorder:  nopRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score evaluates one alternative against template and returns the rounded score
// with its qualitative label. Missing or invalid values degrade the score; the
// only error is a missing template.
func (s *Scorer) Score(template tree.Node, alt Alternative) (Result, error) {
	if template == nil {
		return Result{}, ErrNoTree
	}

	merged := s.Merge(template, alt)
	evaluation := NewEvaluator(s.domain, s.recorder, s.logger).Evaluate(merged)

	score := Round(evaluation.Satisfaction, s.precision)
	s.recorder.ObserveScore(score)
	s.logger.Info("alternative scored", "alternative", alt.Name, "score", score)

	return Result{
		Alternative: alt.Name,
		Cost:        alt.Cost,
		Score:       score,
		Raw:         evaluation.Satisfaction,
		Label:       Label(score),
		Nodes:       evaluation.Nodes,
	}, nil
}

// Merge returns a copy of template with the alternative's values (and any derived
// values) placed into matching leaves and the connector override applied.
func (s *Scorer) Merge(template tree.Node, alt Alternative) tree.Node {
	merged := template.Clone()
	values := s.values(alt)

	for _, leaf := range tree.Leaves(merged) {
		if v, ok := values[leaf.ID]; ok {
			leaf.Value = v
		} else {
			leaf.Value = nil
		}
	}

	if s.override != "" {
		for _, n := range tree.Internals(merged) {
			n.Connector = s.override
		}
	}
	return merged
}

func (s *Scorer) values(alt Alternative) map[string]any {
	values := make(map[string]any, len(alt.Values))
	for k, v := range alt.Values {
		values[k] = v
	}
	if s.deriver == nil {
		return values
	}

	numeric := make(map[string]float64, len(values))
	for k, v := range values {
		if f, ok := elicit.ParseValue(v); ok {
			numeric[k] = f
		}
	}
	for k, v := range s.deriver.Derive(numeric) {
		values[k] = v
	}
	return values
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	if decimals < 0 {
		return v
	}
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
