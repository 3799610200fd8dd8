package routing

import (
	"math"

	da "github.com/lintang-b-s/stepnav/pkg/datastructure"
)

// PredecessorMap. for every reached vertex, the vertex it was last improved from.
// the search keeps it acyclic because a vertex is only re-parented on a strictly cheaper cost.
type PredecessorMap struct {
	parent []da.Index
	size   int
}

func NewPredecessorMap(numVertices int) *PredecessorMap {
	parent := make([]da.Index, numVertices)
	for i := range parent {
		parent[i] = da.INVALID_VERTEX_ID
	}
	return &PredecessorMap{parent: parent}
}

func (p *PredecessorMap) Get(v da.Index) (da.Index, bool) {
	if int(v) >= len(p.parent) || p.parent[v] == da.INVALID_VERTEX_ID {
		return da.INVALID_VERTEX_ID, false
	}
	return p.parent[v], true
}

func (p *PredecessorMap) Set(v, u da.Index) {
	if p.parent[v] == da.INVALID_VERTEX_ID {
		p.size++
	}
	p.parent[v] = u
}

// Len. number of vertices that have a predecessor
func (p *PredecessorMap) Len() int {
	return p.size
}

func (p *PredecessorMap) ForEach(handle func(v, u da.Index)) {
	for v, u := range p.parent {
		if u != da.INVALID_VERTEX_ID {
			handle(da.Index(v), u)
		}
	}
}

func (p *PredecessorMap) Clone() *PredecessorMap {
	parent := make([]da.Index, len(p.parent))
	copy(parent, p.parent)
	return &PredecessorMap{parent: parent, size: p.size}
}

// searchState. everything a single search mutates. the graph itself is never written to.
type searchState struct {
	bestCost    []float64
	heapNodes   []*da.PriorityQueueNode[da.Index]
	finalized   []bool
	predecessor *PredecessorMap

	frontier *da.MinHeap[da.Index]

	numSettledNodes int
}

func newSearchState(numVertices int) *searchState {
	bestCost := make([]float64, numVertices)
	for i := range bestCost {
		bestCost[i] = math.Inf(1)
	}
	return &searchState{
		bestCost:    bestCost,
		heapNodes:   make([]*da.PriorityQueueNode[da.Index], numVertices),
		finalized:   make([]bool, numVertices),
		predecessor: NewPredecessorMap(numVertices),
		frontier:    da.NewFourAryHeap[da.Index](),
	}
}

func (st *searchState) inFrontier(v da.Index) bool {
	return st.heapNodes[v] != nil && st.frontier.Contains(st.heapNodes[v])
}

// push add v to the frontier or lower its priority if it is already there
func (st *searchState) push(v da.Index, priority float64) {
	if st.inFrontier(v) {
		_ = st.frontier.DecreaseKey(st.heapNodes[v], priority)
		return
	}
	hNode := da.NewPriorityQueueNode(priority, v)
	st.heapNodes[v] = hNode
	st.frontier.Insert(hNode)
}

func (st *searchState) pop() (da.Index, bool) {
	hNode, err := st.frontier.ExtractMin()
	if err != nil {
		return da.INVALID_VERTEX_ID, false
	}
	return hNode.GetItem(), true
}
