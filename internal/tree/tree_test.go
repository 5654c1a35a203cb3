package tree

import (
	"os"
	"path/filepath"
	"testing"

	"dema/internal/aggregate"
	"dema/internal/elicit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const carTree = `
id: 1
name: Car
connector: HC
children:
  - id: 2
    name: Economy
    importance: 3
    connector: sc+
    children:
      - id: price
        name: Price
        importance: 2
        preference:
          type: decreasing
          min: 10000
          max: 40000
      - id: consumption
        name: Fuel consumption
        preference:
          type: table
          points:
            - {value: 4, percentage: 100}
            - {value: 10, percentage: 0}
  - id: 3
    name: Comfort
    importance: 1
    connector: A
    children:
      - id: seats
        preference: {type: range, min: 2, ideal_min: 4, ideal_max: 5, max: 8}
      - id: trunk
`

func TestParse_BuildsTaggedTree(t *testing.T) {
	root, err := Parse([]byte(carTree))
	require.NoError(t, err)

	in, ok := root.(*Internal)
	require.True(t, ok, "root should be internal")
	assert.Equal(t, "1", in.ID)
	assert.Equal(t, aggregate.HardConjunctionMedium, in.Connector)
	assert.Equal(t, DefaultImportance, in.Importance)
	require.Len(t, in.Children, 2)

	economy := in.Children[0].(*Internal)
	assert.Equal(t, aggregate.SoftConjunctionHigh, economy.Connector)
	assert.Equal(t, 3.0, economy.Importance)

	price := economy.Children[0].(*Leaf)
	assert.Equal(t, elicit.TypeDecreasing, price.Preference.Type)
	assert.Equal(t, 40000.0, *price.Preference.Max)
	assert.Nil(t, price.Value)

	consumption := economy.Children[1].(*Leaf)
	assert.Len(t, consumption.Preference.Points, 2)

	trunk, ok := Find(root, "trunk")
	require.True(t, ok)
	assert.Equal(t, elicit.TypeIncreasing, trunk.(*Leaf).Preference.Type)
}

func TestParse_JSONDocument(t *testing.T) {
	doc := `{"id": 10, "name": "Root", "connector": "HD", "children": [{"id": 11}, {"id": "b", "importance": 0}]}`
	root, err := Parse([]byte(doc))
	require.NoError(t, err)

	in := root.(*Internal)
	assert.Equal(t, aggregate.HardDisjunctionMedium, in.Connector)
	assert.Equal(t, "11", in.Children[0].Header().ID)
	assert.Equal(t, 0.0, in.Children[1].Header().Importance)
}

func TestParse_UnknownConnectorIsKept(t *testing.T) {
	root, err := Parse([]byte("id: r\nconnector: XOR\nchildren: [{id: a}, {id: b}]"))
	require.NoError(t, err)
	assert.Equal(t, aggregate.Connector("XOR"), root.(*Internal).Connector)
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"duplicate id", "id: r\nchildren: [{id: a}, {id: a}]"},
		{"missing id", "id: r\nchildren: [{name: nameless}]"},
		{"negative importance", "id: r\nchildren: [{id: a, importance: -1}]"},
		{"leaf connector", "id: r\nchildren: [{id: a, connector: HC}]"},
		{"internal preference", "id: r\npreference: {type: increasing}\nchildren: [{id: a}]"},
		{"unknown preference", "id: r\nchildren: [{id: a, preference: {type: sideways}}]"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse([]byte("id: [[["))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(carTree), 0o600))

	root, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, Leaves(root), 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestClone_IsDeep(t *testing.T) {
	root, err := Parse([]byte(carTree))
	require.NoError(t, err)

	cp := root.Clone()
	for _, leaf := range Leaves(cp) {
		leaf.Value = 1
		if leaf.Preference.Max != nil {
			*leaf.Preference.Max = -1
		}
	}
	cp.(*Internal).Connector = aggregate.Average
	cp.(*Internal).Children[0].(*Internal).Children = nil

	for _, leaf := range Leaves(root) {
		assert.Nil(t, leaf.Value)
		if leaf.Preference.Max != nil {
			assert.NotEqual(t, -1.0, *leaf.Preference.Max)
		}
	}
	assert.Equal(t, aggregate.HardConjunctionMedium, root.(*Internal).Connector)
	assert.Len(t, Leaves(root), 4)
}

func TestWalk_PostorderLeftToRight(t *testing.T) {
	root, err := Parse([]byte(carTree))
	require.NoError(t, err)

	var ids []string
	Walk(root, func(n Node) bool {
		ids = append(ids, n.Header().ID)
		return true
	})
	assert.Equal(t, []string{"price", "consumption", "2", "seats", "trunk", "3", "1"}, ids)

	internals := Internals(root)
	require.Len(t, internals, 3)
	assert.Equal(t, "1", internals[2].ID)
}

func TestFind_Missing(t *testing.T) {
	root, err := Parse([]byte(carTree))
	require.NoError(t, err)

	_, ok := Find(root, "nope")
	assert.False(t, ok)
}
