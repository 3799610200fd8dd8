package usecases

import (
	"context"

	"github.com/lintang-b-s/stepnav/pkg/datastructure"
	"github.com/lintang-b-s/stepnav/pkg/geo"
)

// MapSource. provides the raw node/way records around a route request.
type MapSource interface {
	Elements(ctx context.Context, src, dst geo.Coordinate) ([]datastructure.RawElement, error)
}
