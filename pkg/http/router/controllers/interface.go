package controllers

import (
	"context"

	"github.com/lintang-b-s/stepnav/pkg/geo"
	"github.com/lintang-b-s/stepnav/pkg/http/usecases"
)

type RoutingService interface {
	ShortestPath(ctx context.Context, req usecases.RouteRequest) (usecases.RouteResponse, error)
	StreamSearch(ctx context.Context, req usecases.RouteRequest,
		emit func(frame usecases.StepFrame) error) (usecases.RouteResponse, error)
	CompareAlgorithms(ctx context.Context, src, dst geo.Coordinate) (usecases.Comparison, error)
}
