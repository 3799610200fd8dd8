package routing

import (
	da "github.com/lintang-b-s/stepnav/pkg/datastructure"
)

// NewDijkstra. plain dijkstra from source to target, frontier ordered by the best known cost.
func NewDijkstra(graph *da.Graph, source, target da.Index) (*Search, error) {
	return newSearch(graph, source, target, DIJKSTRA, func(v da.Index) float64 {
		return 0
	})
}
