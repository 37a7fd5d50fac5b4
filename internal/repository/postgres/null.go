package postgres

import (
	"database/sql"
	"time"

	"freight/internal/domain"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullFloat(f float64, valid bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: valid}
}

func nullLat(e domain.TripEndpoint) sql.NullFloat64 {
	return nullFloat(e.Lat, e.HasGeo)
}

func nullLng(e domain.TripEndpoint) sql.NullFloat64 {
	return nullFloat(e.Lng, e.HasGeo)
}
