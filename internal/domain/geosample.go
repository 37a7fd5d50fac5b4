package domain

import "time"

// GeoSample is one timestamped GPS reading from a driver's device for a trip.
// Samples are append-only; ServerReceivedAt is assigned at ingestion and is
// the sole ordering key (client clocks are not trusted).
type GeoSample struct {
	ID               string
	TripID           string
	DriverID         string
	Lat              float64
	Lng              float64
	SpeedKmh         float64
	Heading          float64
	HasSpeed         bool
	HasHeading       bool
	ServerReceivedAt time.Time
}

// ValidCoordinate reports whether lat/lng are within WGS84 bounds.
func ValidCoordinate(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
