package datastructure

import (
	"testing"

	"github.com/lintang-b-s/stepnav/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectedComponents(t *testing.T) {
	elements := []RawElement{
		NewRawNode(1, 0, 0),
		NewRawNode(2, 0, 0.001),
		NewRawNode(3, 0.01, 0.01),
		NewRawNode(4, 0.01, 0.011),
		NewRawNode(5, 0, 0.002),
		NewRawWay(10, []int64{1, 2}),
		NewRawWay(11, []int64{3, 4}),
		NewRawWay(12, []int64{2, 5}),
	}
	g, s, d, err := BuildGraph(elements, geo.NewCoordinate(0, 0), geo.NewCoordinate(0.01, 0.011))
	require.NoError(t, err)

	labels, n := g.ConnectedComponents()
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{0, 0, 1, 1, 0}, labels)

	assert.False(t, g.SameComponent(s, d))
	one, _ := g.GetVertexByOsmID(1)
	five, _ := g.GetVertexByOsmID(5)
	assert.True(t, g.SameComponent(one, five))
	assert.False(t, g.SameComponent(one, INVALID_VERTEX_ID))
}
