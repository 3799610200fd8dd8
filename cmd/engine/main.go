package main

import (
	"context"
	"errors"
	"flag"

	"github.com/lintang-b-s/stepnav/pkg/http"
	"github.com/lintang-b-s/stepnav/pkg/http/usecases"
	"github.com/lintang-b-s/stepnav/pkg/logger"
	"github.com/lintang-b-s/stepnav/pkg/util"
	"go.uber.org/zap"
)

var (
	configDir = flag.String("config_dir", "./data/", "directory containing config.yaml")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(*configDir); err != nil {
		panic(err)
	}
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := util.LoadRoutingConfig()

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	mapSource, err := usecases.NewFileMapSource(ctx, cfg.MapFile, cfg.RegionPaddingMeters, logger)
	if err != nil {
		logger.Fatal("error loading map file", zap.String("path", cfg.MapFile), zap.Error(err))
	}

	routingService := usecases.NewRoutingService(logger, mapSource, cfg)

	api := http.NewServer(logger)
	if _, err := api.Use(ctx, logger, routingService); err != nil {
		panic(err)
	}

	signal := http.GracefulShutdown()

	cleanup()
	if err := api.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped with error", zap.Error(err))
	}
	logger.Info("stepnav routing server stopped", zap.String("signal", signal.String()))
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
