package main

import (
	"context"
	"errors"
	"flag"
	"math"
	"time"

	"github.com/lintang-b-s/stepnav/pkg/concurrent"
	"github.com/lintang-b-s/stepnav/pkg/geo"
	"github.com/lintang-b-s/stepnav/pkg/http/usecases"
	log "github.com/lintang-b-s/stepnav/pkg/logger"
	"github.com/lintang-b-s/stepnav/pkg/util"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

var (
	mapFile    = flag.String("map", "", "map file, defaults to MAP_FILE")
	numQueries = flag.Int("n", 200, "number of random queries")
	maxDist    = flag.Float64("max_dist", 5000, "maximum straight line distance between source and destination in meters")
	seed       = flag.Uint64("seed", 0, "random seed, 0 = current time")
	workers    = flag.Int("workers", 8, "number of concurrent queries")
)

type query struct {
	id       int
	src, dst geo.Coordinate
}

type queryResult struct {
	id      int
	cmp     usecases.Comparison
	err     error
	elapsed time.Duration // both algorithms, run concurrently
}

func main() {
	flag.Parse()
	if err := util.ReadConfig(""); err != nil {
		panic(err)
	}
	logger, err := log.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := util.LoadRoutingConfig()
	if *mapFile != "" {
		cfg.MapFile = *mapFile
	}

	ctx := context.Background()
	mapSource, err := usecases.NewFileMapSource(ctx, cfg.MapFile, cfg.RegionPaddingMeters, logger)
	if err != nil {
		panic(err)
	}
	routingService := usecases.NewRoutingService(logger, mapSource, cfg)

	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	rd := rand.New(rand.NewSource(s))
	queries := randomQueries(mapSource.Bounds(), *numQueries, *maxDist, rd)
	logger.Info("running random queries", zap.Int("queries", len(queries)), zap.Uint64("seed", s))

	bar := progressbar.Default(int64(len(queries)), "comparing dijkstra and a*")
	results := concurrent.RunAll(ctx, *workers, queries, func(ctx context.Context, q query) queryResult {
		res := queryResult{id: q.id}
		start := time.Now()
		res.cmp, res.err = routingService.CompareAlgorithms(ctx, q.src, q.dst)
		res.elapsed = time.Since(start)
		_ = bar.Add(1)
		return res
	})
	_ = bar.Finish()

	report(logger, results)
}

func randomCoordinate(bb geo.BoundingBox, rd *rand.Rand) geo.Coordinate {
	lat := bb.GetMinLat() + rd.Float64()*(bb.GetMaxLat()-bb.GetMinLat())
	lon := bb.GetMinLon() + rd.Float64()*(bb.GetMaxLon()-bb.GetMinLon())
	return geo.NewCoordinate(lat, lon)
}

func randomQueries(bb geo.BoundingBox, n int, maxDist float64, rd *rand.Rand) []query {
	queries := make([]query, 0, n)
	for attempts := 0; len(queries) < n && attempts < 100*n; attempts++ {
		src := randomCoordinate(bb, rd)
		dst := randomCoordinate(bb, rd)
		if maxDist > 0 && geo.Distance(src, dst) > maxDist {
			continue
		}
		queries = append(queries, query{id: len(queries), src: src, dst: dst})
	}
	return queries
}

func report(logger *zap.Logger, results []queryResult) {
	var (
		found, notFound, failed, mismatch int
		ratioSum                          float64
		totalTime                         time.Duration
	)

	for _, res := range results {
		totalTime += res.elapsed
		if res.err != nil {
			if errors.Is(res.err, usecases.ErrPathNotFound) {
				notFound++
				continue
			}
			failed++
			logger.Debug("query failed", zap.Int("query", res.id), zap.Error(res.err))
			continue
		}
		found++

		if !util.AlmostEqual(res.cmp.Dijkstra.Distance, res.cmp.AStar.Distance) {
			mismatch++
			logger.Error("dijkstra and a* costs differ", zap.Int("query", res.id),
				zap.Float64("dijkstra", res.cmp.Dijkstra.Distance), zap.Float64("astar", res.cmp.AStar.Distance))
		}
		if res.cmp.Dijkstra.NumSettledNodes > 0 {
			ratioSum += float64(res.cmp.AStar.NumSettledNodes) / float64(res.cmp.Dijkstra.NumSettledNodes)
		}
	}

	meanRatio := math.NaN()
	if found > 0 {
		meanRatio = ratioSum / float64(found)
	}
	meanTime := time.Duration(0)
	if len(results) > 0 {
		meanTime = totalTime / time.Duration(len(results))
	}

	logger.Info("comparison done",
		zap.Int("found", found),
		zap.Int("notFound", notFound),
		zap.Int("failed", failed),
		zap.Int("costMismatch", mismatch),
		zap.Float64("meanSettledRatioAStarOverDijkstra", util.RoundFloat(meanRatio, 4)),
		zap.Duration("meanQueryTime", meanTime),
	)
}
