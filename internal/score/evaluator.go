package score

import (
	"log/slog"

	"dema/internal/aggregate"
	"dema/internal/elicit"
	"dema/internal/tree"
)

// NodeScore is the satisfaction reached at one node during an evaluation.
type NodeScore struct {
	ID           string  `json:"id"`
	Name         string  `json:"name,omitempty"`
	Leaf         bool    `json:"leaf"`
	Connector    string  `json:"connector,omitempty"`
	Weight       float64 `json:"weight"`
	Satisfaction float64 `json:"satisfaction"`
}

// Evaluation is the outcome of walking one merged tree.
type Evaluation struct {
	// Satisfaction is the root score in [0,1], unrounded.
	Satisfaction float64
	// Nodes lists every node in postorder, children left to right.
	Nodes []NodeScore
}

// Evaluator computes satisfaction bottom-up over a tree whose leaves already
// hold one alternative's values.
//
// Bad data never fails an evaluation: an offending leaf scores 0 and the
// connectors above it decide how much that matters.
type Evaluator struct {
	domain   elicit.Domain
	recorder Recorder
	logger   *slog.Logger
}

// NewEvaluator creates an Evaluator. A nil recorder or logger is replaced by a
// no-op recorder and slog.Default().
func NewEvaluator(domain elicit.Domain, recorder Recorder, logger *slog.Logger) *Evaluator {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{domain: domain, recorder: recorder, logger: logger}
}

// Evaluate returns the root satisfaction and the per-node breakdown.
func (e *Evaluator) Evaluate(root tree.Node) Evaluation {
	if root == nil {
		return Evaluation{}
	}
	var nodes []NodeScore
	s := e.evaluate(root, 1, &nodes)
	return Evaluation{Satisfaction: s, Nodes: nodes}
}

func (e *Evaluator) evaluate(n tree.Node, weight float64, nodes *[]NodeScore) float64 {
	switch node := n.(type) {
	case *tree.Leaf:
		s := e.leaf(node)
		*nodes = append(*nodes, NodeScore{ID: node.ID, Name: node.Name, Leaf: true, Weight: weight, Satisfaction: s})
		return s
	case *tree.Internal:
		s, connector := e.internal(node, nodes)
		*nodes = append(*nodes, NodeScore{ID: node.ID, Name: node.Name, Connector: string(connector), Weight: weight, Satisfaction: s})
		return s
	default:
		return 0
	}
}

func (e *Evaluator) leaf(l *tree.Leaf) float64 {
	value, ok := elicit.ParseValue(l.Value)
	if !ok {
		e.recorder.RecordAnomaly(AnomalyMissingValue)
		e.logger.Debug("leaf value missing", "id", l.ID, "value", l.Value)
		return 0
	}
	if l.Preference.Degenerate(e.domain) {
		e.recorder.RecordAnomaly(AnomalyDegenerateThresholds)
		e.logger.Debug("degenerate thresholds", "id", l.ID, "preference", l.Preference.Type)
	}

	s := l.Preference.Satisfaction(value, e.domain)
	e.logger.Debug("leaf evaluated", "id", l.ID, "value", value, "satisfaction", s)
	return s
}

func (e *Evaluator) internal(n *tree.Internal, nodes *[]NodeScore) (float64, aggregate.Connector) {
	connector := n.Connector
	if !connector.Valid() {
		e.recorder.RecordAnomaly(AnomalyUnknownConnector)
		e.logger.Debug("connector fallback", "id", n.ID, "connector", string(n.Connector))
		connector = aggregate.Average
	}

	if len(n.Children) == 0 {
		e.recorder.RecordAnomaly(AnomalyEmptyNode)
		return 0, connector
	}
	if !aggregate.Tabulated(len(n.Children)) && connector != aggregate.Average {
		e.recorder.RecordAnomaly(AnomalyArityFallback)
	}

	importances := make([]float64, len(n.Children))
	for i, child := range n.Children {
		importances[i] = child.Header().Importance
	}
	weights := aggregate.NormalizeWeights(importances)

	values := make([]float64, len(n.Children))
	for i, child := range n.Children {
		values[i] = e.evaluate(child, weights[i], nodes)
	}

	s := aggregate.Aggregate(connector, values, weights)
	e.logger.Debug("node evaluated", "id", n.ID, "connector", string(connector), "satisfaction", s)
	return s, connector
}
