package datastructure

import (
	"math"

	"github.com/lintang-b-s/stepnav/pkg/geo"
)

type Index uint32

const (
	INVALID_VERTEX_ID Index = math.MaxUint32
)

// Vertex. one routable point of the road network. neighbors are indices into the owning graph.
type Vertex struct {
	osmID     int64
	coord     geo.Coordinate
	neighbors []Index
}

func NewVertex(osmID int64, lat, lon float64) *Vertex {
	return &Vertex{
		osmID: osmID,
		coord: geo.NewCoordinate(lat, lon),
	}
}

func (v *Vertex) GetOsmID() int64 {
	return v.osmID
}

func (v *Vertex) GetCoordinate() geo.Coordinate {
	return v.coord
}

func (v *Vertex) GetLat() float64 {
	return v.coord.Lat
}

func (v *Vertex) GetLon() float64 {
	return v.coord.Lon
}

func (v *Vertex) GetNeighbors() []Index {
	return v.neighbors
}

func (v *Vertex) Degree() int {
	return len(v.neighbors)
}

func (v *Vertex) hasNeighbor(u Index) bool {
	for _, w := range v.neighbors {
		if w == u {
			return true
		}
	}
	return false
}

// Graph. undirected road network. the vertex set and adjacency are frozen once BuildGraph returns,
// so a graph can be read by any number of searches; per-search state lives in the search itself.
type Graph struct {
	vertices []*Vertex
	osmIDMap map[int64]Index
}

func NewGraph(numVertices int) *Graph {
	return &Graph{
		vertices: make([]*Vertex, 0, numVertices),
		osmIDMap: make(map[int64]Index, numVertices),
	}
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices)
}

func (g *Graph) NumberOfEdges() int {
	m := 0
	for _, v := range g.vertices {
		m += len(v.neighbors)
	}
	return m / 2
}

func (g *Graph) GetVertex(u Index) *Vertex {
	return g.vertices[u]
}

func (g *Graph) GetVertexCoordinate(u Index) geo.Coordinate {
	return g.vertices[u].coord
}

func (g *Graph) GetOsmID(u Index) int64 {
	return g.vertices[u].osmID
}

// GetVertexByOsmID. index of the vertex with the given dataset id
func (g *Graph) GetVertexByOsmID(osmID int64) (Index, bool) {
	u, ok := g.osmIDMap[osmID]
	return u, ok
}

func (g *Graph) GetNeighbors(u Index) []Index {
	return g.vertices[u].neighbors
}

// ForNeighborsOf. call handle for every neighbor v of u with the haversine length of (u,v) in meters
func (g *Graph) ForNeighborsOf(u Index, handle func(v Index, length float64)) {
	uCoord := g.vertices[u].coord
	for _, v := range g.vertices[u].neighbors {
		handle(v, geo.Distance(uCoord, g.vertices[v].coord))
	}
}

// HaversineDistance. straight line distance in meters between vertex u and v
func (g *Graph) HaversineDistance(u, v Index) float64 {
	return geo.Distance(g.vertices[u].coord, g.vertices[v].coord)
}

func (g *Graph) addVertex(osmID int64, coord geo.Coordinate) {
	if u, ok := g.osmIDMap[osmID]; ok {
		// later record for the same id wins, position stays
		g.vertices[u].coord = coord
		return
	}
	g.osmIDMap[osmID] = Index(len(g.vertices))
	g.vertices = append(g.vertices, &Vertex{osmID: osmID, coord: coord})
}

func (g *Graph) addUndirectedEdge(u, v Index) {
	if u == v || g.vertices[u].hasNeighbor(v) {
		return
	}
	g.vertices[u].neighbors = append(g.vertices[u].neighbors, v)
	g.vertices[v].neighbors = append(g.vertices[v].neighbors, u)
}
