package routing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	da "github.com/lintang-b-s/stepnav/pkg/datastructure"
)

var (
	ErrInvalidVertex    = errors.New("source or target is not a vertex of the graph")
	ErrUnknownAlgorithm = errors.New("unknown shortest path algorithm")
)

type Algorithm uint8

const (
	DIJKSTRA Algorithm = iota
	ASTAR
)

func (a Algorithm) String() string {
	switch a {
	case DIJKSTRA:
		return "dijkstra"
	case ASTAR:
		return "astar"
	}
	return fmt.Sprintf("algorithm(%d)", uint8(a))
}

func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dijkstra":
		return DIJKSTRA, nil
	case "astar", "a*", "a-star":
		return ASTAR, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

type EventKind uint8

const (
	STEP_EVENT EventKind = iota
	// FOUND_EVENT target popped from the frontier, Predecessors describe the shortest path
	FOUND_EVENT
	// EXHAUSTED_EVENT frontier ran empty before the target was reached, there is no path
	EXHAUSTED_EVENT
)

func (k EventKind) String() string {
	switch k {
	case STEP_EVENT:
		return "step"
	case FOUND_EVENT:
		return "found"
	case EXHAUSTED_EVENT:
		return "exhausted"
	}
	return "unknown"
}

// Event. result of one Step.
// Predecessors is the live map of the search, it changes on the next Step. Clone it to keep a snapshot.
// for EXHAUSTED_EVENT Current is da.INVALID_VERTEX_ID and Predecessors is nil.
type Event struct {
	Kind         EventKind
	Current      da.Index
	Predecessors *PredecessorMap
	StepIndex    int
}

func (e Event) IsTerminal() bool {
	return e.Kind != STEP_EVENT
}

// heuristic lower bound of the remaining cost from v to the target
type heuristic func(v da.Index) float64

// Search. one resumable shortest path computation. every Step settles exactly one vertex and hands
// control back to the caller, who decides when (or whether) to take the next one.
// a Search is not safe for concurrent use; independent searches share nothing.
type Search struct {
	graph     *da.Graph
	source    da.Index
	target    da.Index
	algorithm Algorithm
	estimate  heuristic

	state *searchState

	stepCount int
	terminal  *Event
}

func NewSearch(graph *da.Graph, source, target da.Index, algorithm Algorithm) (*Search, error) {
	switch algorithm {
	case DIJKSTRA:
		return NewDijkstra(graph, source, target)
	case ASTAR:
		return NewAStar(graph, source, target)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownAlgorithm, algorithm)
}

func newSearch(graph *da.Graph, source, target da.Index, algorithm Algorithm, estimate heuristic) (*Search, error) {
	n := graph.NumberOfVertices()
	if source == da.INVALID_VERTEX_ID || target == da.INVALID_VERTEX_ID ||
		int(source) >= n || int(target) >= n {
		return nil, ErrInvalidVertex
	}

	s := &Search{
		graph:     graph,
		source:    source,
		target:    target,
		algorithm: algorithm,
		estimate:  estimate,
		state:     newSearchState(n),
	}

	s.state.bestCost[source] = 0
	s.state.push(source, estimate(source))
	return s, nil
}

// Step. settle the frontier vertex with the smallest priority and relax its neighbors.
// once a terminal event has been returned every further call returns that same event.
func (s *Search) Step() Event {
	if s.terminal != nil {
		return *s.terminal
	}

	st := s.state
	u, ok := st.pop()
	if !ok {
		s.stepCount++
		return s.finish(Event{Kind: EXHAUSTED_EVENT, Current: da.INVALID_VERTEX_ID, StepIndex: s.stepCount})
	}
	s.stepCount++

	if u == s.target {
		return s.finish(Event{Kind: FOUND_EVENT, Current: u, Predecessors: st.predecessor, StepIndex: s.stepCount})
	}

	st.finalized[u] = true
	st.numSettledNodes++

	s.graph.ForNeighborsOf(u, func(v da.Index, length float64) {
		if st.finalized[v] {
			return
		}

		newCost := st.bestCost[u] + length
		if newCost >= st.bestCost[v] {
			// not better
			return
		}

		st.predecessor.Set(v, u)
		st.bestCost[v] = newCost
		st.push(v, newCost+s.estimate(v))
	})

	return Event{Kind: STEP_EVENT, Current: u, Predecessors: st.predecessor, StepIndex: s.stepCount}
}

func (s *Search) finish(ev Event) Event {
	s.terminal = &ev
	return ev
}

func (s *Search) Done() bool {
	return s.terminal != nil
}

func (s *Search) GetGraph() *da.Graph {
	return s.graph
}

func (s *Search) GetSource() da.Index {
	return s.source
}

func (s *Search) GetTarget() da.Index {
	return s.target
}

func (s *Search) GetAlgorithm() Algorithm {
	return s.algorithm
}

// Steps. number of Step calls that did work (terminal repeats are not counted)
func (s *Search) Steps() int {
	return s.stepCount
}

func (s *Search) NumSettledNodes() int {
	return s.state.numSettledNodes
}

func (s *Search) FrontierSize() int {
	return s.state.frontier.Size()
}

// Cost. best known cost from the source to v, false if v has not been reached
func (s *Search) Cost(v da.Index) (float64, bool) {
	c := s.state.bestCost[v]
	return c, !math.IsInf(c, 1)
}

func (s *Search) IsFinalized(v da.Index) bool {
	return s.state.finalized[v]
}

func (s *Search) GetPredecessors() *PredecessorMap {
	return s.state.predecessor
}
