package usecases

import (
	"context"

	"github.com/lintang-b-s/stepnav/pkg/datastructure"
	"github.com/lintang-b-s/stepnav/pkg/geo"
	"github.com/lintang-b-s/stepnav/pkg/osmparser"
	"github.com/lintang-b-s/stepnav/pkg/spatialindex"
	"go.uber.org/zap"
)

// FileMapSource. map dataset loaded once from a local file, cropped per request to the region around
// source and destination.
type FileMapSource struct {
	log           *zap.Logger
	index         *spatialindex.NodeIndex
	paddingMeters float64
}

func NewFileMapSource(ctx context.Context, path string, paddingMeters float64, log *zap.Logger) (*FileMapSource, error) {
	elements, err := osmparser.ReadFile(ctx, path, log)
	if err != nil {
		return nil, err
	}
	return NewElementsMapSource(elements, paddingMeters, log), nil
}

func NewElementsMapSource(elements []datastructure.RawElement, paddingMeters float64, log *zap.Logger) *FileMapSource {
	index := spatialindex.NewNodeIndex()
	index.Build(elements, log)
	return &FileMapSource{
		log:           log,
		index:         index,
		paddingMeters: paddingMeters,
	}
}

func (fs *FileMapSource) Elements(ctx context.Context, src, dst geo.Coordinate) ([]datastructure.RawElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	region := geo.RegionAround(src, dst, fs.paddingMeters)
	elements := fs.index.Crop(region)
	fs.log.Debug("cropped map region", zap.Float64("minLat", region.GetMinLat()),
		zap.Float64("minLon", region.GetMinLon()), zap.Float64("maxLat", region.GetMaxLat()),
		zap.Float64("maxLon", region.GetMaxLon()), zap.Int("records", len(elements)))
	return elements, nil
}

// Bounds. bounding box of the whole dataset.
func (fs *FileMapSource) Bounds() geo.BoundingBox {
	return fs.index.Bounds()
}
