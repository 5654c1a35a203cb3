package tree

import (
	"fmt"
	"os"

	"dema/internal/aggregate"
	"dema/internal/elicit"

	"gopkg.in/yaml.v3"
)

// ValidationError reports a structural problem in a tree document.
type ValidationError struct {
	NodeID string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.NodeID == "" {
		return "invalid tree: " + e.Reason
	}
	return fmt.Sprintf("invalid tree node %q: %s", e.NodeID, e.Reason)
}

// nodeID accepts numeric and string ids alike.
type nodeID string

func (id *nodeID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: node id must be a scalar", value.Line)
	}
	*id = nodeID(value.Value)
	return nil
}

// document is the on-disk shape of a decision tree (YAML or JSON).
//
//	id: car
//	name: Car
//	connector: HC
//	children:
//	  - id: price
//	    importance: 3
//	    preference: {type: decreasing, min: 10000, max: 40000}
type document struct {
	ID         nodeID             `yaml:"id"`
	Name       string             `yaml:"name"`
	Importance *float64           `yaml:"importance"`
	Connector  string             `yaml:"connector"`
	Preference *elicit.Preference `yaml:"preference"`
	Children   []document         `yaml:"children"`
}

// Load reads a tree document from a file.
func Load(path string) (Node, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}
	return Parse(content)
}

// Parse builds a tree from a YAML or JSON document and validates its structure.
func Parse(content []byte) (Node, error) {
	var doc document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse tree: %w", err)
	}
	if doc.ID == "" && len(doc.Children) == 0 {
		return nil, &ValidationError{Reason: "empty document"}
	}

	seen := make(map[string]bool)
	return build(doc, seen)
}

func build(doc document, seen map[string]bool) (Node, error) {
	id := string(doc.ID)
	if id == "" {
		return nil, &ValidationError{Reason: fmt.Sprintf("node %q has no id", doc.Name)}
	}
	if seen[id] {
		return nil, &ValidationError{NodeID: id, Reason: "duplicate id"}
	}
	seen[id] = true

	meta := Meta{ID: id, Name: doc.Name, Importance: DefaultImportance}
	if doc.Importance != nil {
		if *doc.Importance < 0 {
			return nil, &ValidationError{NodeID: id, Reason: "importance must not be negative"}
		}
		meta.Importance = *doc.Importance
	}

	if len(doc.Children) == 0 {
		if doc.Connector != "" {
			return nil, &ValidationError{NodeID: id, Reason: "leaf cannot have a connector"}
		}
		pref := elicit.Preference{Type: elicit.TypeIncreasing}
		if doc.Preference != nil {
			pref = *doc.Preference
			if pref.Type == "" {
				pref.Type = elicit.TypeIncreasing
			}
		}
		switch pref.Type {
		case elicit.TypeIncreasing, elicit.TypeDecreasing, elicit.TypeRange, elicit.TypeTable:
		default:
			return nil, &ValidationError{NodeID: id, Reason: fmt.Sprintf("unknown preference type %q", pref.Type)}
		}
		return &Leaf{Meta: meta, Preference: pref}, nil
	}

	if doc.Preference != nil {
		return nil, &ValidationError{NodeID: id, Reason: "internal node cannot have a preference"}
	}

	connector := aggregate.Connector(doc.Connector)
	if c, ok := aggregate.ParseConnector(doc.Connector); ok {
		connector = c
	}

	node := &Internal{Meta: meta, Connector: connector, Children: make([]Node, 0, len(doc.Children))}
	for _, childDoc := range doc.Children {
		child, err := build(childDoc, seen)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}
