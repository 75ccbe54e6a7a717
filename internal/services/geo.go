package services

import (
	"math"

	"tripplanner/internal/repositories"
)

const (
	earthRadiusMeters = 6371000.0
	metersPerDegree   = 111320.0
)

// haversineMeters is the great-circle distance between two points.
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(la1)*math.Cos(la2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// boundingBox returns a rectangle that contains every point within radius of
// the center. Near the poles or across the antimeridian it widens to every
// longitude.
func boundingBox(lat, lng, radius float64) repositories.BoundingBox {
	dLat := radius / metersPerDegree
	box := repositories.BoundingBox{
		MinLat: math.Max(lat-dLat, -90),
		MaxLat: math.Min(lat+dLat, 90),
		MinLng: -180,
		MaxLng: 180,
	}

	cos := math.Cos(lat * math.Pi / 180)
	if cos < 1e-6 {
		return box
	}
	dLng := radius / (metersPerDegree * cos)
	if lng-dLng < -180 || lng+dLng > 180 {
		return box
	}
	box.MinLng, box.MaxLng = lng-dLng, lng+dLng
	return box
}
