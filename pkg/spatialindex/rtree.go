package spatialindex

import (
	"slices"

	"github.com/lintang-b-s/stepnav/pkg/datastructure"
	"github.com/lintang-b-s/stepnav/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// NodeIndex. r-tree over the node records of a map dataset, used to cut the dataset down to the
// region around a route request.
type NodeIndex struct {
	tr       *rtree.RTreeG[int] // leaf data = record position of the node
	elements []datastructure.RawElement
	nodePos  map[int64][]int // node osm id -> record positions, a node may be repeated
	nodeWays map[int64][]int // node osm id -> record positions of the ways referencing it
}

func NewNodeIndex() *NodeIndex {
	var tr rtree.RTreeG[int]
	return &NodeIndex{
		tr:       &tr,
		nodePos:  make(map[int64][]int),
		nodeWays: make(map[int64][]int),
	}
}

// Build. index every node record of elements. a repeated node id is indexed once, at its last coordinate.
func (ni *NodeIndex) Build(elements []datastructure.RawElement, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("records", len(elements)))
	ni.elements = elements

	latest := make(map[int64]geo.Coordinate)
	for pos, e := range elements {
		switch {
		case e.IsNode():
			ni.nodePos[e.GetID()] = append(ni.nodePos[e.GetID()], pos)
			latest[e.GetID()] = e.GetCoordinate()
		case e.IsWay():
			for _, nodeID := range e.GetNodes() {
				ways := ni.nodeWays[nodeID]
				if len(ways) > 0 && ways[len(ways)-1] == pos {
					continue
				}
				ni.nodeWays[nodeID] = append(ways, pos)
			}
		}
	}

	for id, positions := range ni.nodePos {
		c := latest[id]
		p := [2]float64{c.Lon, c.Lat}
		ni.tr.Insert(p, p, positions[0])
	}

	log.Info("R-tree spatial index built.", zap.Int("nodes", ni.tr.Len()))
}

func (ni *NodeIndex) Len() int {
	return ni.tr.Len()
}

// Bounds. bounding box of all indexed nodes.
func (ni *NodeIndex) Bounds() geo.BoundingBox {
	min, max := ni.tr.Bounds()
	return geo.NewBoundingBox(min[1], min[0], max[1], max[0])
}

// SearchWithinBox. osm ids of the nodes inside bbox. a box crossing the antimeridian is searched on both sides.
func (ni *NodeIndex) SearchWithinBox(bbox geo.BoundingBox) []int64 {
	results := make([]int64, 0, 16)
	for _, part := range bbox.Split() {
		ni.tr.Search([2]float64{part.GetMinLon(), part.GetMinLat()}, [2]float64{part.GetMaxLon(), part.GetMaxLat()},
			func(min, max [2]float64, pos int) bool {
				results = append(results, ni.elements[pos].GetID())
				return true
			})
	}
	return results
}

// Crop. the records a way(bbox) + recurse-down query would return: every way with at least one node inside bbox
// and every node record those ways reference (inside the box or not). records keep their input order.
func (ni *NodeIndex) Crop(bbox geo.BoundingBox) []datastructure.RawElement {
	wayPositions := make(map[int]struct{})
	for _, nodeID := range ni.SearchWithinBox(bbox) {
		for _, pos := range ni.nodeWays[nodeID] {
			wayPositions[pos] = struct{}{}
		}
	}

	positions := make([]int, 0, len(wayPositions)*4)
	seen := make(map[int]struct{})
	for wayPos := range wayPositions {
		positions = append(positions, wayPos)
		for _, nodeID := range ni.elements[wayPos].GetNodes() {
			for _, pos := range ni.nodePos[nodeID] {
				if _, dup := seen[pos]; dup {
					continue
				}
				seen[pos] = struct{}{}
				positions = append(positions, pos)
			}
		}
	}
	slices.Sort(positions)

	cropped := make([]datastructure.RawElement, 0, len(positions))
	for _, pos := range positions {
		cropped = append(cropped, ni.elements[pos])
	}
	return cropped
}
