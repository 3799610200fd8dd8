package routing

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	da "github.com/lintang-b-s/stepnav/pkg/datastructure"
	"github.com/lintang-b-s/stepnav/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var algorithms = []Algorithm{DIJKSTRA, ASTAR}

func buildGraph(t *testing.T, elements []da.RawElement, src, dst geo.Coordinate) (*da.Graph, da.Index, da.Index) {
	t.Helper()
	g, s, d, err := da.BuildGraph(elements, src, dst)
	require.NoError(t, err)
	return g, s, d
}

func lineElements() []da.RawElement {
	return []da.RawElement{
		da.NewRawNode(1, 0, 0),
		da.NewRawNode(2, 0, 1),
		da.NewRawNode(3, 0, 2),
		da.NewRawWay(10, []int64{1, 2, 3}),
	}
}

// gridElements rows x cols grid with jittered coordinates, each street segment kept with probability keep
func gridElements(rng *rand.Rand, rows, cols int, keep float64) []da.RawElement {
	elements := make([]da.RawElement, 0, rows*cols*3)
	id := func(r, c int) int64 { return int64(r*cols + c + 1) }
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			lat := -7.80 + float64(r)*0.001 + (rng.Float64()-0.5)*0.0004
			lon := 110.36 + float64(c)*0.001 + (rng.Float64()-0.5)*0.0004
			elements = append(elements, da.NewRawNode(id(r, c), lat, lon))
		}
	}
	wayID := int64(100000)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c+1 < cols && rng.Float64() < keep {
				elements = append(elements, da.NewRawWay(wayID, []int64{id(r, c), id(r, c+1)}))
				wayID++
			}
			if r+1 < rows && rng.Float64() < keep {
				elements = append(elements, da.NewRawWay(wayID, []int64{id(r, c), id(r+1, c)}))
				wayID++
			}
			if r+1 < rows && c+1 < cols && rng.Float64() < keep/4 {
				elements = append(elements, da.NewRawWay(wayID, []int64{id(r, c), id(r+1, c+1)}))
				wayID++
			}
		}
	}
	return elements
}

func TestSearchLine(t *testing.T) {
	for _, algo := range algorithms {
		t.Run(algo.String(), func(t *testing.T) {
			a, b, c := geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 1), geo.NewCoordinate(0, 2)
			g, s, d := buildGraph(t, lineElements(), a, c)

			search, err := NewSearch(g, s, d, algo)
			require.NoError(t, err)

			res, err := Run(search, 0, nil)
			require.NoError(t, err)
			require.True(t, res.Found)

			assert.Equal(t, []geo.Coordinate{a, b, c}, res.Path)
			assert.InDelta(t, geo.Distance(a, b)+geo.Distance(b, c), res.Cost, 1e-6)
			assert.InDelta(t, geo.PathLength(res.Path), res.Cost, 1e-6)
		})
	}
}

func TestSearchEvents(t *testing.T) {
	g, s, d := buildGraph(t, lineElements(), geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 2))
	search, err := NewDijkstra(g, s, d)
	require.NoError(t, err)

	ev := search.Step()
	assert.Equal(t, STEP_EVENT, ev.Kind)
	assert.Equal(t, s, ev.Current)
	assert.Equal(t, 1, ev.StepIndex)
	assert.True(t, search.IsFinalized(s))
	assert.Equal(t, 1, ev.Predecessors.Len())

	ev = search.Step()
	assert.Equal(t, STEP_EVENT, ev.Kind)
	assert.Equal(t, int64(2), g.GetOsmID(ev.Current))

	ev = search.Step()
	require.Equal(t, FOUND_EVENT, ev.Kind)
	assert.Equal(t, d, ev.Current)
	assert.True(t, search.Done())
	assert.False(t, search.IsFinalized(d))

	// terminal event repeats and does no more work
	again := search.Step()
	assert.Equal(t, ev, again)
	assert.Equal(t, 3, search.Steps())
	assert.Equal(t, 2, search.NumSettledNodes())
}

func TestSearchSourceIsTarget(t *testing.T) {
	for _, algo := range algorithms {
		t.Run(algo.String(), func(t *testing.T) {
			g, s, d := buildGraph(t, lineElements(), geo.NewCoordinate(0, 1), geo.NewCoordinate(0, 1))
			require.Equal(t, s, d)

			search, err := NewSearch(g, s, d, algo)
			require.NoError(t, err)

			ev := search.Step()
			assert.Equal(t, FOUND_EVENT, ev.Kind)

			res, err := Run(search, 0, nil)
			require.NoError(t, err)
			assert.True(t, res.Found)
			assert.Equal(t, []geo.Coordinate{geo.NewCoordinate(0, 1)}, res.Path)
			assert.Equal(t, 0.0, res.Cost)
		})
	}
}

func TestSearchDisconnectedComponents(t *testing.T) {
	elements := []da.RawElement{
		da.NewRawNode(1, 0, 0),
		da.NewRawNode(2, 0, 0.01),
		da.NewRawNode(3, 0, 0.02),
		da.NewRawNode(4, 1, 0),
		da.NewRawNode(5, 1, 0.01),
		da.NewRawWay(10, []int64{1, 2, 3}),
		da.NewRawWay(11, []int64{4, 5}),
	}
	for _, algo := range algorithms {
		t.Run(algo.String(), func(t *testing.T) {
			g, s, d := buildGraph(t, elements, geo.NewCoordinate(0, 0), geo.NewCoordinate(1, 0))

			search, err := NewSearch(g, s, d, algo)
			require.NoError(t, err)

			var last Event
			for !search.Done() {
				last = search.Step()
			}
			assert.Equal(t, EXHAUSTED_EVENT, last.Kind)
			assert.Equal(t, da.INVALID_VERTEX_ID, last.Current)
			assert.Nil(t, last.Predecessors)
			assert.Equal(t, 3, search.NumSettledNodes())

			res, err := Run(search, 0, nil)
			require.NoError(t, err)
			assert.False(t, res.Found)
			assert.Empty(t, res.Path)
		})
	}
}

func TestDijkstraAndAStarAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		elements := gridElements(rng, 15, 15, 0.7)
		src := geo.NewCoordinate(-7.80+rng.Float64()*0.014, 110.36+rng.Float64()*0.014)
		dst := geo.NewCoordinate(-7.80+rng.Float64()*0.014, 110.36+rng.Float64()*0.014)
		g, s, d := buildGraph(t, elements, src, dst)

		dijkstra, err := NewDijkstra(g, s, d)
		require.NoError(t, err)
		astar, err := NewAStar(g, s, d)
		require.NoError(t, err)

		dRes, err := Run(dijkstra, 0, nil)
		require.NoError(t, err)
		aRes, err := Run(astar, 0, nil)
		require.NoError(t, err)

		require.Equal(t, dRes.Found, aRes.Found, "trial %d", trial)
		if !dRes.Found {
			continue
		}
		assert.InDelta(t, dRes.Cost, aRes.Cost, 1e-6, "trial %d", trial)
		assert.InDelta(t, dRes.Cost, geo.PathLength(dRes.Path), 1e-6)
		assert.InDelta(t, aRes.Cost, geo.PathLength(aRes.Path), 1e-6)
		assert.Equal(t, g.GetVertexCoordinate(s), aRes.Path[0])
		assert.Equal(t, g.GetVertexCoordinate(d), aRes.Path[len(aRes.Path)-1])
	}
}

func TestShortcutNeverIncreasesCost(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 10; trial++ {
		elements := gridElements(rng, 10, 10, 0.8)
		src := geo.NewCoordinate(-7.80, 110.36)
		dst := geo.NewCoordinate(-7.791, 110.369)
		g, s, d := buildGraph(t, elements, src, dst)

		withShortcut := append([]da.RawElement{}, elements...)
		withShortcut = append(withShortcut, da.NewRawWay(999999, []int64{g.GetOsmID(s), g.GetOsmID(d)}))
		g2, s2, d2 := buildGraph(t, withShortcut, src, dst)
		require.Equal(t, g.GetOsmID(s), g2.GetOsmID(s2))
		require.Equal(t, g.GetOsmID(d), g2.GetOsmID(d2))

		for _, algo := range algorithms {
			before, err := NewSearch(g, s, d, algo)
			require.NoError(t, err)
			after, err := NewSearch(g2, s2, d2, algo)
			require.NoError(t, err)

			bRes, err := Run(before, 0, nil)
			require.NoError(t, err)
			aRes, err := Run(after, 0, nil)
			require.NoError(t, err)

			require.True(t, aRes.Found)
			assert.InDelta(t, g2.HaversineDistance(s2, d2), aRes.Cost, 1e-6)
			if bRes.Found {
				assert.LessOrEqual(t, aRes.Cost, bRes.Cost+1e-9)
			}
		}
	}
}

func TestStepwiseExecutionIsTimeIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	elements := gridElements(rng, 12, 12, 0.75)
	src := geo.NewCoordinate(-7.80, 110.36)
	dst := geo.NewCoordinate(-7.789, 110.371)

	for _, algo := range algorithms {
		t.Run(algo.String(), func(t *testing.T) {
			g, s, d := buildGraph(t, elements, src, dst)
			eager, err := NewSearch(g, s, d, algo)
			require.NoError(t, err)

			g2, s2, d2 := buildGraph(t, elements, src, dst)
			delayed, err := NewSearch(g2, s2, d2, algo)
			require.NoError(t, err)

			const n = 40
			eagerCurrents := make([]da.Index, 0, n)
			for i := 0; i < n && !eager.Done(); i++ {
				eagerCurrents = append(eagerCurrents, eager.Step().Current)
			}

			delayedCurrents := make([]da.Index, 0, n)
			for i := 0; i < n && !delayed.Done(); i++ {
				if i%5 == 0 {
					time.Sleep(time.Millisecond)
				}
				delayedCurrents = append(delayedCurrents, delayed.Step().Current)
			}

			assert.Equal(t, eagerCurrents, delayedCurrents)
			assert.Equal(t, eager.Steps(), delayed.Steps())
			assert.Equal(t, eager.FrontierSize(), delayed.FrontierSize())
			for v := 0; v < g.NumberOfVertices(); v++ {
				c1, ok1 := eager.Cost(da.Index(v))
				c2, ok2 := delayed.Cost(da.Index(v))
				assert.Equal(t, ok1, ok2)
				if ok1 {
					assert.Equal(t, c1, c2)
				}
				p1, _ := eager.GetPredecessors().Get(da.Index(v))
				p2, _ := delayed.GetPredecessors().Get(da.Index(v))
				assert.Equal(t, p1, p2)
			}
		})
	}
}

func TestFinalizedCostsNeverImprove(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	elements := gridElements(rng, 12, 12, 0.75)
	g, s, d := buildGraph(t, elements, geo.NewCoordinate(-7.80, 110.36), geo.NewCoordinate(-7.789, 110.371))

	for _, algo := range algorithms {
		search, err := NewSearch(g, s, d, algo)
		require.NoError(t, err)

		settled := make(map[da.Index]float64)
		for !search.Done() {
			ev := search.Step()
			if ev.Kind != STEP_EVENT {
				break
			}
			_, seen := settled[ev.Current]
			require.False(t, seen, "vertex settled twice")
			c, ok := search.Cost(ev.Current)
			require.True(t, ok)
			settled[ev.Current] = c

			for v, want := range settled {
				got, _ := search.Cost(v)
				assert.Equal(t, want, got)
			}
		}
	}
}

func TestRunStepBudgetAndCancellation(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	elements := gridElements(rng, 10, 10, 1)
	g, s, d := buildGraph(t, elements, geo.NewCoordinate(-7.80, 110.36), geo.NewCoordinate(-7.791, 110.369))

	search, err := NewDijkstra(g, s, d)
	require.NoError(t, err)
	res, err := Run(search, 5, nil)
	assert.ErrorIs(t, err, ErrStepBudgetExceeded)
	assert.False(t, res.Found)
	assert.Equal(t, 5, res.Steps)

	// a budget stop leaves the search resumable
	res, err = Run(search, 0, nil)
	require.NoError(t, err)
	assert.True(t, res.Found)

	errStop := errors.New("stop")
	search, err = NewAStar(g, s, d)
	require.NoError(t, err)
	calls := 0
	_, err = Run(search, 0, func(ev Event) error {
		calls++
		if calls == 3 {
			return errStop
		}
		return nil
	})
	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, 3, search.Steps())
}

func TestNewSearchInvalidInput(t *testing.T) {
	g, s, _ := buildGraph(t, lineElements(), geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 2))

	_, err := NewDijkstra(g, s, da.INVALID_VERTEX_ID)
	assert.ErrorIs(t, err, ErrInvalidVertex)
	_, err = NewAStar(g, da.Index(42), s)
	assert.ErrorIs(t, err, ErrInvalidVertex)
	_, err = NewSearch(g, s, s, Algorithm(9))
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)

	algo, err := ParseAlgorithm(" A* ")
	require.NoError(t, err)
	assert.Equal(t, ASTAR, algo)
	_, err = ParseAlgorithm("bfs")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}
