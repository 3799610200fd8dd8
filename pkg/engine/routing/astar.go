package routing

import (
	da "github.com/lintang-b-s/stepnav/pkg/datastructure"
)

// NewAStar. A* from source to target. frontier ordered by best known cost + straight line distance
// to the target. edge lengths are haversine distances between the endpoints, so the estimate never
// exceeds the remaining road distance (admissible) and satisfies the triangle inequality (consistent):
// the first time the target is popped its cost is optimal.
func NewAStar(graph *da.Graph, source, target da.Index) (*Search, error) {
	return newSearch(graph, source, target, ASTAR, func(v da.Index) float64 {
		return graph.HaversineDistance(v, target)
	})
}
