package merge

import (
	"atlas-api/internal/models"

	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the radius used for all distance comparisons.
const EarthRadiusKm = 6378.14

// DistanceKm returns the great-circle distance between two locations.
func DistanceKm(a, b *models.Location) float64 {
	p := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	q := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return p.Distance(q).Radians() * EarthRadiusKm
}
