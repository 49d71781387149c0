package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean radius of Earth used for Haversine distance.
const EarthRadiusKm = 6371.0

// Point is a WGS 84 coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// NewPoint validates coordinates and returns a Point.
func NewPoint(lat, lng float64) (Point, error) {
	if !ValidateCoordinates(lat, lng) {
		return Point{}, fmt.Errorf("coordinates out of range: (%f, %f)", lat, lng)
	}
	return Point{Lat: lat, Lng: lng}, nil
}

// BoundingBox is an axis-aligned box in degrees.
type BoundingBox struct {
	Left   float64 // min longitude
	Top    float64 // max latitude
	Right  float64 // max longitude
	Bottom float64 // min latitude
}

// BoxAround returns a box centered on p extending halfWidthDeg in both axes.
// The box is not clamped: providers treat it as an advisory hint.
func BoxAround(p Point, halfWidthDeg float64) BoundingBox {
	return BoundingBox{
		Left:   p.Lng - halfWidthDeg,
		Top:    p.Lat + halfWidthDeg,
		Right:  p.Lng + halfWidthDeg,
		Bottom: p.Lat - halfWidthDeg,
	}
}

// Contains reports whether p lies inside the box (edges inclusive).
func (b BoundingBox) Contains(p Point) bool {
	return p.Lng >= b.Left && p.Lng <= b.Right && p.Lat >= b.Bottom && p.Lat <= b.Top
}

// HaversineKm returns the great-circle distance in kilometers between two points
// specified by latitude and longitude in degrees (spherical earth).
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := toRad(lat1)
	lat2r := toRad(lat2)
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DistanceKm is HaversineKm between two points.
func DistanceKm(a, b Point) float64 {
	return HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
// NaN fails both comparisons and is rejected.
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
