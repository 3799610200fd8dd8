package geo

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

type BoundingBox struct {
	minLat, minLon float64
	maxLat, maxLon float64
}

func NewBoundingBox(minLat, minLon, maxLat, maxLon float64) BoundingBox {
	return BoundingBox{minLat: minLat,
		minLon: minLon,
		maxLat: maxLat,
		maxLon: maxLon}
}

func (b BoundingBox) GetMinLat() float64 {
	return b.minLat
}

func (b BoundingBox) GetMinLon() float64 {
	return b.minLon
}

func (b BoundingBox) GetMaxLat() float64 {
	return b.maxLat
}

func (b BoundingBox) GetMaxLon() float64 {
	return b.maxLon
}

// CrossesAntimeridian. the box wraps from minLon eastwards over 180 to maxLon.
func (b BoundingBox) CrossesAntimeridian() bool {
	return b.minLon > b.maxLon
}

// Split. the box as non-wrapping boxes: itself, or its parts east and west of the antimeridian.
func (b BoundingBox) Split() []BoundingBox {
	if !b.CrossesAntimeridian() {
		return []BoundingBox{b}
	}
	return []BoundingBox{
		NewBoundingBox(b.minLat, b.minLon, b.maxLat, 180),
		NewBoundingBox(b.minLat, -180, b.maxLat, b.maxLon),
	}
}

func (b BoundingBox) Contains(c Coordinate) bool {
	if c.Lat < b.minLat || c.Lat > b.maxLat {
		return false
	}
	if b.CrossesAntimeridian() {
		return c.Lon >= b.minLon || c.Lon <= b.maxLon
	}
	return c.Lon >= b.minLon && c.Lon <= b.maxLon
}

func toS2Point(c Coordinate) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

var validLatRange = r1.Interval{Lo: -math.Pi / 2, Hi: math.Pi / 2}

// RegionAround. box around src and dst, padded on each side by half its own span and by at least paddingMeters
// around both endpoints. this is the area a map client would request road data for.
// when the shorter way from src to dst crosses the antimeridian the box wraps, see Split.
func RegionAround(src, dst Coordinate, paddingMeters float64) BoundingBox {
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(src.Lat, src.Lon)).
		AddPoint(s2.LatLngFromDegrees(dst.Lat, dst.Lon))

	span := rect.Size()
	rect = s2.Rect{
		Lat: rect.Lat.Expanded(span.Lat.Radians() / 2).Intersection(validLatRange),
		Lng: rect.Lng.Expanded(span.Lng.Radians() / 2),
	}

	padding := s1.Angle(paddingMeters / EarthRadiusMeters)
	if padding > 0 {
		rect = rect.Union(s2.CapFromCenterAngle(toS2Point(src), padding).RectBound()).
			Union(s2.CapFromCenterAngle(toS2Point(dst), padding).RectBound())
	}

	lo, hi := rect.Lo(), rect.Hi()
	return NewBoundingBox(lo.Lat.Degrees(), lo.Lng.Degrees(), hi.Lat.Degrees(), hi.Lng.Degrees())
}
