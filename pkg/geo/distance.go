package geo

import (
	"math"

	"github.com/lintang-b-s/stepnav/pkg/util"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

const (
	EarthRadiusMeters = 6371000.0
)

// Distance. great-circle distance in meters between a and b (haversine).
func Distance(a, b Coordinate) float64 {
	return CalculateHaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon)
}

// CalculateHaversineDistance. calculate haversine distance in meters
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	phiOne := util.DegreeToRadians(latOne)
	phiTwo := util.DegreeToRadians(latTwo)
	dPhi := util.DegreeToRadians(latTwo - latOne)
	dLambda := util.DegreeToRadians(longTwo - longOne)

	sinDPhi := math.Sin(dPhi / 2)
	sinDLambda := math.Sin(dLambda / 2)

	// floating point error can push a slightly above 1 for antipodal points
	a := math.Min(1, sinDPhi*sinDPhi+math.Cos(phiOne)*math.Cos(phiTwo)*sinDLambda*sinDLambda)
	c := 2.0 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// PathLength. sum of the haversine distances between consecutive coordinates, in meters
func PathLength(path []Coordinate) float64 {
	length := 0.0
	for i := 1; i < len(path); i++ {
		length += Distance(path[i-1], path[i])
	}
	return length
}
