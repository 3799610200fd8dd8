package usecases

import (
	"context"
	"errors"

	"github.com/lintang-b-s/stepnav/pkg/datastructure"
	"github.com/lintang-b-s/stepnav/pkg/engine/routing"
	"github.com/lintang-b-s/stepnav/pkg/geo"
	"github.com/lintang-b-s/stepnav/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var (
	ErrPathNotFound = errors.New("no path found")
)

// ctx is checked once every cancelCheckInterval steps
const cancelCheckInterval = 1024

type RouteRequest struct {
	Source      geo.Coordinate
	Destination geo.Coordinate
	Algorithm   routing.Algorithm
}

type RouteResponse struct {
	Algorithm       string
	Found           bool
	Path            []geo.Coordinate
	Polyline        string
	Distance        float64 // meters
	Steps           int
	NumSettledNodes int
}

// StepFrame. one search step as seen by a rendering client.
// the edge Predecessor -> Current is the search tree edge that finalized Current, the source has none.
type StepFrame struct {
	Step             int
	OsmID            int64
	Current          geo.Coordinate
	HasPredecessor   bool
	PredecessorOsmID int64
	Predecessor      geo.Coordinate
	FrontierSize     int
	NumSettledNodes  int
}

type Comparison struct {
	Dijkstra RouteResponse
	AStar    RouteResponse
}

type RoutingService struct {
	log            *zap.Logger
	source         MapSource
	maxSteps       int
	stepsPerSecond float64
	stepBurst      int
}

func NewRoutingService(log *zap.Logger, source MapSource, cfg util.RoutingConfig) *RoutingService {
	return &RoutingService{
		log:            log,
		source:         source,
		maxSteps:       cfg.SearchMaxSteps,
		stepsPerSecond: cfg.StreamStepsPerSecond,
		stepBurst:      cfg.StreamStepBurst,
	}
}

// ShortestPath. build the road graph around the request and run the requested search to completion.
func (rs *RoutingService) ShortestPath(ctx context.Context, req RouteRequest) (RouteResponse, error) {
	search, err := rs.newSearch(ctx, req)
	if err != nil {
		return RouteResponse{Algorithm: req.Algorithm.String()}, err
	}

	res, err := routing.Run(search, rs.maxSteps, func(ev routing.Event) error {
		if ev.StepIndex%cancelCheckInterval == 0 {
			return ctx.Err()
		}
		return nil
	})
	return rs.toResponse(search, req, res, err)
}

// StreamSearch. same as ShortestPath, but every step is handed to emit, paced to at most stepsPerSecond steps.
// an error from emit stops the search.
func (rs *RoutingService) StreamSearch(ctx context.Context, req RouteRequest,
	emit func(frame StepFrame) error) (RouteResponse, error) {
	search, err := rs.newSearch(ctx, req)
	if err != nil {
		return RouteResponse{Algorithm: req.Algorithm.String()}, err
	}

	limit := rate.Inf
	if rs.stepsPerSecond > 0 {
		limit = rate.Limit(rs.stepsPerSecond)
	}
	limiter := rate.NewLimiter(limit, max(rs.stepBurst, 1))

	graph := search.GetGraph()
	res, err := routing.Run(search, rs.maxSteps, func(ev routing.Event) error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		frame := StepFrame{
			Step:            ev.StepIndex,
			OsmID:           graph.GetOsmID(ev.Current),
			Current:         graph.GetVertexCoordinate(ev.Current),
			FrontierSize:    search.FrontierSize(),
			NumSettledNodes: search.NumSettledNodes(),
		}
		if u, ok := ev.Predecessors.Get(ev.Current); ok {
			frame.HasPredecessor = true
			frame.PredecessorOsmID = graph.GetOsmID(u)
			frame.Predecessor = graph.GetVertexCoordinate(u)
		}
		return emit(frame)
	})
	return rs.toResponse(search, req, res, err)
}

// CompareAlgorithms. run dijkstra and a* for the same request concurrently, each on its own graph.
func (rs *RoutingService) CompareAlgorithms(ctx context.Context, src, dst geo.Coordinate) (Comparison, error) {
	var cmp Comparison
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		cmp.Dijkstra, err = rs.ShortestPath(gctx, RouteRequest{Source: src, Destination: dst, Algorithm: routing.DIJKSTRA})
		return err
	})
	g.Go(func() error {
		var err error
		cmp.AStar, err = rs.ShortestPath(gctx, RouteRequest{Source: src, Destination: dst, Algorithm: routing.ASTAR})
		return err
	})

	if err := g.Wait(); err != nil {
		return cmp, err
	}

	if !util.AlmostEqual(cmp.Dijkstra.Distance, cmp.AStar.Distance) {
		rs.log.Warn("dijkstra and a* disagree on the shortest path cost",
			zap.Float64("dijkstra", cmp.Dijkstra.Distance), zap.Float64("astar", cmp.AStar.Distance))
	}
	return cmp, nil
}

func (rs *RoutingService) newSearch(ctx context.Context, req RouteRequest) (*routing.Search, error) {
	elements, err := rs.source.Elements(ctx, req.Source, req.Destination)
	if err != nil {
		return nil, err
	}

	graph, s, t, err := datastructure.BuildGraph(elements, req.Source, req.Destination)
	if errors.Is(err, datastructure.ErrNoStartNode) || errors.Is(err, datastructure.ErrNoEndNode) {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "no road found near %f,%f or %f,%f",
			req.Source.Lat, req.Source.Lon, req.Destination.Lat, req.Destination.Lon)
	} else if err != nil {
		return nil, err
	}

	rs.log.Debug("road graph built", zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("edges", graph.NumberOfEdges()), zap.Int64("source", graph.GetOsmID(s)),
		zap.Int64("target", graph.GetOsmID(t)), zap.String("algorithm", req.Algorithm.String()))

	search, err := routing.NewSearch(graph, s, t, req.Algorithm)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "%v", err)
	}
	return search, nil
}

func (rs *RoutingService) toResponse(search *routing.Search, req RouteRequest, res routing.Result,
	err error) (RouteResponse, error) {
	resp := RouteResponse{
		Algorithm:       req.Algorithm.String(),
		Found:           res.Found,
		Path:            res.Path,
		Polyline:        geo.PolylineFromCoords(res.Path),
		Distance:        res.Cost,
		Steps:           res.Steps,
		NumSettledNodes: res.NumSettledNodes,
	}

	switch {
	case errors.Is(err, routing.ErrCyclicPredecessor):
		rs.log.Error("error reconstructing path", zap.Error(err), zap.String("algorithm", resp.Algorithm))
		return resp, util.WrapErrorf(err, util.ErrInternalServerError, "%s", util.MessageInternalServerError)
	case errors.Is(err, routing.ErrStepBudgetExceeded):
		return resp, util.WrapErrorf(err, util.ErrBadParamInput, "route search exceeded %d steps", rs.maxSteps)
	case err != nil:
		return resp, err
	case !res.Found:
		if ce := rs.log.Check(zap.DebugLevel, "search exhausted"); ce != nil {
			graph := search.GetGraph()
			ce.Write(zap.String("algorithm", resp.Algorithm), zap.Int("steps", resp.Steps),
				zap.Bool("sameComponent", graph.SameComponent(search.GetSource(), search.GetTarget())))
		}
		return resp, util.WrapErrorf(ErrPathNotFound, util.ErrNotFound, "no path found from %f,%f to %f,%f",
			req.Source.Lat, req.Source.Lon, req.Destination.Lat, req.Destination.Lon)
	}

	rs.log.Info("route found", zap.String("algorithm", resp.Algorithm), zap.Float64("distance", resp.Distance),
		zap.Int("steps", resp.Steps), zap.Int("settled", resp.NumSettledNodes))
	return resp, nil
}
