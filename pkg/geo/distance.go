package geo

import "math"

const earthRadiusMeters = 6371000.0

// DefaultVisitRadiusMeters is the maximum distance at which a field visit
// check-in still counts as being at the store.
const DefaultVisitRadiusMeters = 100.0

// ProximityResult reports how far a reported position is from a reference
// point and whether it falls inside the allowed radius.
type ProximityResult struct {
	DistanceMeters float64
	Valid          bool
}

// Distance returns the great-circle distance in meters between two
// latitude/longitude pairs using the haversine formula.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	deltaPhi := toRadians(lat2 - lat1)
	deltaLambda := toRadians(lng2 - lng1)

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// ValidateProximity checks a reported position against a reference position.
// A non-positive radius falls back to DefaultVisitRadiusMeters.
func ValidateProximity(reportedLat, reportedLng, referenceLat, referenceLng, radiusMeters float64) ProximityResult {
	if radiusMeters <= 0 {
		radiusMeters = DefaultVisitRadiusMeters
	}
	d := Distance(reportedLat, reportedLng, referenceLat, referenceLng)
	return ProximityResult{
		DistanceMeters: d,
		Valid:          d <= radiusMeters,
	}
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
