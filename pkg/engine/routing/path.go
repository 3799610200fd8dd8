package routing

import (
	"errors"

	da "github.com/lintang-b-s/stepnav/pkg/datastructure"
	"github.com/lintang-b-s/stepnav/pkg/geo"
	"github.com/lintang-b-s/stepnav/pkg/util"
)

var (
	ErrCyclicPredecessor = errors.New("cycle detected in predecessor map")
)

// ReconstructVertexPath. walk the predecessor map back from current to the vertex without a predecessor
// (the source) and return the vertices ordered source -> current.
// an empty path is returned when current is absent, and together with ErrCyclicPredecessor when the
// walk revisits a vertex.
func ReconstructVertexPath(graph *da.Graph, predecessors *PredecessorMap, current da.Index) ([]da.Index, error) {
	if current == da.INVALID_VERTEX_ID {
		return []da.Index{}, nil
	}

	path := make([]da.Index, 0)
	visitedOsmIDs := make(map[int64]struct{})
	for {
		osmID := graph.GetOsmID(current)
		if _, ok := visitedOsmIDs[osmID]; ok {
			return []da.Index{}, ErrCyclicPredecessor
		}
		visitedOsmIDs[osmID] = struct{}{}
		path = append(path, current)

		if predecessors == nil {
			break
		}
		parent, ok := predecessors.Get(current)
		if !ok {
			break
		}
		current = parent
	}

	return util.ReverseG(path), nil
}

// ReconstructPath. same walk as ReconstructVertexPath, returned as coordinates source -> current.
func ReconstructPath(graph *da.Graph, predecessors *PredecessorMap, current da.Index) ([]geo.Coordinate, error) {
	vertices, err := ReconstructVertexPath(graph, predecessors, current)
	if err != nil {
		return []geo.Coordinate{}, err
	}
	path := make([]geo.Coordinate, 0, len(vertices))
	for _, v := range vertices {
		path = append(path, graph.GetVertexCoordinate(v))
	}
	return path, nil
}
