package domain

import "math"

// City is a known city with its reference coordinate.
type City struct {
	ID   string
	Name string
	Lat  float64
	Lng  float64
}

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// NearestCity returns the city minimizing great-circle distance to the point.
// Ties break by input order: the first minimum wins. Returns nil for an empty
// slice.
func NearestCity(lat, lng float64, cities []City) *City {
	var best *City
	bestDist := math.Inf(1)
	for i := range cities {
		d := HaversineKm(lat, lng, cities[i].Lat, cities[i].Lng)
		if d < bestDist {
			bestDist = d
			best = &cities[i]
		}
	}
	return best
}
