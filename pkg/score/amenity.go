package score

import (
	"github.com/golang/geo/s2"

	"github.com/gridline/siteplan/pkg/plan"
)

// Amenity proximity cutoffs, meters.
const (
	TransitProximityMeters = 800.0
	AmenityRadiusMeters    = 1000.0
	MinAmenityCategories   = 3
)

const earthRadiusMeters = 6371000.0

// haversineMeters returns the great-circle distance between two coordinates.
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * earthRadiusMeters
}

// amenityDistance returns the distance from the plot to the amenity. A
// pre-resolved distance on the record wins; otherwise the distance is
// computed from coordinates. The second return is false when neither is
// available.
func amenityDistance(origin *plan.LatLng, a plan.Amenity) (float64, bool) {
	if a.DistanceMeters > 0 {
		return a.DistanceMeters, true
	}
	if origin == nil || (a.Lat == 0 && a.Lng == 0) {
		return 0, false
	}
	return haversineMeters(origin.Lat, origin.Lng, a.Lat, a.Lng), true
}

// nearestByCategory maps each amenity category to its closest resolvable
// instance.
func nearestByCategory(origin *plan.LatLng, amenities []plan.Amenity) map[string]float64 {
	nearest := map[string]float64{}
	for _, a := range amenities {
		d, ok := amenityDistance(origin, a)
		if !ok {
			continue
		}
		if cur, seen := nearest[a.Category]; !seen || d < cur {
			nearest[a.Category] = d
		}
	}
	return nearest
}
