package routing

import (
	"errors"

	da "github.com/lintang-b-s/stepnav/pkg/datastructure"
	"github.com/lintang-b-s/stepnav/pkg/geo"
)

var (
	ErrStepBudgetExceeded = errors.New("search stopped after reaching the step budget")
)

type Result struct {
	Found           bool
	Path            []geo.Coordinate
	VertexPath      []da.Index
	Cost            float64
	Steps           int
	NumSettledNodes int
}

// StepObserver. called after every non terminal step. returning an error stops the search,
// which is how a caller cancels: the search itself holds nothing that needs releasing.
type StepObserver func(ev Event) error

// Run. drive search until its terminal event, at most maxSteps steps (0 = unbounded).
// no path is a normal result with Found == false.
func Run(search *Search, maxSteps int, onStep StepObserver) (Result, error) {
	for {
		if maxSteps > 0 && search.Steps() >= maxSteps && !search.Done() {
			return search.partialResult(), ErrStepBudgetExceeded
		}

		ev := search.Step()
		switch ev.Kind {
		case STEP_EVENT:
			if onStep == nil {
				continue
			}
			if err := onStep(ev); err != nil {
				return search.partialResult(), err
			}
		case FOUND_EVENT:
			return search.foundResult(ev)
		case EXHAUSTED_EVENT:
			return search.partialResult(), nil
		}
	}
}

func (s *Search) partialResult() Result {
	return Result{
		Found:           false,
		Path:            []geo.Coordinate{},
		VertexPath:      []da.Index{},
		Steps:           s.stepCount,
		NumSettledNodes: s.state.numSettledNodes,
	}
}

func (s *Search) foundResult(ev Event) (Result, error) {
	vertexPath, err := ReconstructVertexPath(s.graph, ev.Predecessors, ev.Current)
	if err != nil {
		return s.partialResult(), err
	}
	path := make([]geo.Coordinate, 0, len(vertexPath))
	for _, v := range vertexPath {
		path = append(path, s.graph.GetVertexCoordinate(v))
	}

	return Result{
		Found:           true,
		Path:            path,
		VertexPath:      vertexPath,
		Cost:            s.state.bestCost[ev.Current],
		Steps:           s.stepCount,
		NumSettledNodes: s.state.numSettledNodes,
	}, nil
}
