package datastructure

import (
	"errors"
	"math"

	"github.com/lintang-b-s/stepnav/pkg/geo"
)

var (
	ErrNoStartNode = errors.New("no routable node found near the source coordinate")
	ErrNoEndNode   = errors.New("no routable node found near the destination coordinate")
)

// BuildGraph. build the road network from raw node/way records and snap source & destination to their
// nearest routable vertex (a vertex with at least one neighbor).
// ties are broken by record order. way segments that reference unknown node ids are skipped.
// when no routable vertex exists start & end are INVALID_VERTEX_ID and the error is ErrNoStartNode.
func BuildGraph(elements []RawElement, source, destination geo.Coordinate) (*Graph, Index, Index, error) {
	numNodes := 0
	for i := range elements {
		if elements[i].IsNode() {
			numNodes++
		}
	}

	g := NewGraph(numNodes)
	for i := range elements {
		if elements[i].IsNode() {
			g.addVertex(elements[i].GetID(), elements[i].GetCoordinate())
		}
	}

	for i := range elements {
		if !elements[i].IsWay() {
			continue
		}
		wayNodes := elements[i].GetNodes()
		for j := 0; j+1 < len(wayNodes); j++ {
			u, uOk := g.osmIDMap[wayNodes[j]]
			v, vOk := g.osmIDMap[wayNodes[j+1]]
			if !uOk || !vOk {
				continue
			}
			g.addUndirectedEdge(u, v)
		}
	}

	start, end := g.SnapEndpoints(source, destination)
	if start == INVALID_VERTEX_ID {
		return g, INVALID_VERTEX_ID, INVALID_VERTEX_ID, ErrNoStartNode
	}
	if end == INVALID_VERTEX_ID {
		return g, INVALID_VERTEX_ID, INVALID_VERTEX_ID, ErrNoEndNode
	}
	return g, start, end, nil
}

// SnapEndpoints. nearest routable vertex to source and to destination, chosen independently.
func (g *Graph) SnapEndpoints(source, destination geo.Coordinate) (Index, Index) {
	start, end := INVALID_VERTEX_ID, INVALID_VERTEX_ID
	minStartDist, minEndDist := math.Inf(1), math.Inf(1)

	for u, v := range g.vertices {
		if len(v.neighbors) == 0 {
			continue
		}

		startDist := geo.Distance(v.coord, source)
		if startDist < minStartDist {
			minStartDist = startDist
			start = Index(u)
		}

		endDist := geo.Distance(v.coord, destination)
		if endDist < minEndDist {
			minEndDist = endDist
			end = Index(u)
		}
	}
	return start, end
}
