package tree

import (
	"dema/internal/aggregate"
	"dema/internal/elicit"
)

// DefaultImportance is used when a document leaves a node's importance unset.
const DefaultImportance = 1.0

// Meta holds the fields shared by every node.
type Meta struct {
	// ID is stable across evaluations; alternative values are matched against it.
	ID string
	// Name is a display label and plays no part in scoring.
	Name string
	// Importance is the node's weight among its siblings before normalization.
	Importance float64
}

// Header returns the shared node fields.
func (m Meta) Header() Meta {
	return m
}

// Node is either a *Leaf or an *Internal.
type Node interface {
	Header() Meta
	Clone() Node
	sealed()
}

// Leaf carries an elicitation preference and, during one evaluation, the raw
// attribute value of the alternative being scored.
type Leaf struct {
	Meta
	Preference elicit.Preference
	// Value is the raw input for one alternative; nil means unset.
	Value any
}

// Internal combines its children with Connector.
type Internal struct {
	Meta
	Connector aggregate.Connector
	Children  []Node
}

func (*Leaf) sealed()     {}
func (*Internal) sealed() {}

// Clone returns a deep copy of the leaf.
func (l *Leaf) Clone() Node {
	return &Leaf{
		Meta:       l.Meta,
		Preference: l.Preference.Clone(),
		Value:      l.Value,
	}
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Internal) Clone() Node {
	out := &Internal{
		Meta:      n.Meta,
		Connector: n.Connector,
		Children:  make([]Node, len(n.Children)),
	}
	for i, child := range n.Children {
		out.Children[i] = child.Clone()
	}
	return out
}

// Walk visits every node in postorder, children left to right.
// Returning false from fn stops the walk.
func Walk(n Node, fn func(Node) bool) bool {
	if n == nil {
		return true
	}
	if in, ok := n.(*Internal); ok {
		for _, child := range in.Children {
			if !Walk(child, fn) {
				return false
			}
		}
	}
	return fn(n)
}

// Leaves returns the leaves of the tree in left-to-right order.
func Leaves(n Node) []*Leaf {
	var leaves []*Leaf
	Walk(n, func(node Node) bool {
		if leaf, ok := node.(*Leaf); ok {
			leaves = append(leaves, leaf)
		}
		return true
	})
	return leaves
}

// Internals returns the internal nodes of the tree in postorder.
func Internals(n Node) []*Internal {
	var nodes []*Internal
	Walk(n, func(node Node) bool {
		if in, ok := node.(*Internal); ok {
			nodes = append(nodes, in)
		}
		return true
	})
	return nodes
}

// Find returns the node with the given id.
func Find(n Node, id string) (Node, bool) {
	var found Node
	Walk(n, func(node Node) bool {
		if node.Header().ID == id {
			found = node
			return false
		}
		return true
	})
	return found, found != nil
}
