package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/lintang-b-s/stepnav/pkg/engine/routing"
	"github.com/lintang-b-s/stepnav/pkg/geo"
	"github.com/lintang-b-s/stepnav/pkg/http/usecases"
	"github.com/lintang-b-s/stepnav/pkg/logger"
	"github.com/lintang-b-s/stepnav/pkg/util"
	"go.uber.org/zap"
)

var (
	mapFile = flag.String("map", "", "map file (.osm, .osm.bz2, .osm.pbf or overpass .json), defaults to MAP_FILE")
	src     = flag.String("src", "", "source as lat,lon")
	dst     = flag.String("dst", "", "destination as lat,lon")
	algo    = flag.String("algo", "astar", "dijkstra | astar")
	verbose = flag.Bool("v", false, "print every search step")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(""); err != nil {
		panic(err)
	}
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Error("route failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	cfg := util.LoadRoutingConfig()
	if *mapFile != "" {
		cfg.MapFile = *mapFile
	}

	srcLat, srcLon, err := util.ParseLatLon(*src)
	if err != nil {
		return fmt.Errorf("-src: %w", err)
	}
	dstLat, dstLon, err := util.ParseLatLon(*dst)
	if err != nil {
		return fmt.Errorf("-dst: %w", err)
	}
	algorithm, err := routing.ParseAlgorithm(*algo)
	if err != nil {
		return err
	}

	ctx := context.Background()
	mapSource, err := usecases.NewFileMapSource(ctx, cfg.MapFile, cfg.RegionPaddingMeters, logger)
	if err != nil {
		return err
	}
	// one-shot, no pacing
	cfg.StreamStepsPerSecond = 0
	routingService := usecases.NewRoutingService(logger, mapSource, cfg)

	req := usecases.RouteRequest{
		Source:      geo.NewCoordinate(srcLat, srcLon),
		Destination: geo.NewCoordinate(dstLat, dstLon),
		Algorithm:   algorithm,
	}

	var resp usecases.RouteResponse
	if *verbose {
		resp, err = routingService.StreamSearch(ctx, req, func(frame usecases.StepFrame) error {
			fmt.Printf("step %d: node %d (%f,%f) frontier=%d\n", frame.Step, frame.OsmID,
				frame.Current.Lat, frame.Current.Lon, frame.FrontierSize)
			return nil
		})
	} else {
		resp, err = routingService.ShortestPath(ctx, req)
	}
	if err != nil {
		return err
	}

	fmt.Printf("algorithm: %s\n", resp.Algorithm)
	fmt.Printf("distance: %.1f m\n", resp.Distance)
	fmt.Printf("steps: %d, settled nodes: %d\n", resp.Steps, resp.NumSettledNodes)
	fmt.Printf("path: %s\n", resp.Polyline)
	return nil
}
