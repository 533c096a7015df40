// Package distance annotates matched records with their distance from the
// active reference point. Straight-line (haversine) distance is the default;
// when the caller pre-fetched routed driving distances for a geocoded
// address, those take precedence per record.
package distance

import (
	"math"

	"github.com/caseworks/directory-cli/internal/model"
)

// earthRadiusMiles is the mean Earth radius used for haversine distances.
const earthRadiusMiles = 3958.8

// Haversine returns the great-circle distance in miles between two
// coordinate pairs.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

// Annotate sets Distance on every record relative to the reference context
// and reports whether any routed driving distance was used.
//
// With no reference point every record gets a nil Distance. Otherwise a
// routed value from ref.RoutedMiles wins when present; records with
// coordinates fall back to haversine; records without coordinates keep a nil
// Distance and are not excluded here; only an active maximum-distance
// threshold excludes them, and the engine applies that after annotation.
func Annotate(records []model.Resource, ref model.ReferenceContext) bool {
	if ref.Point == nil {
		for i := range records {
			records[i].Distance = nil
		}
		return false
	}

	usedDriving := false
	for i := range records {
		r := &records[i]
		if miles, ok := ref.RoutedMiles[r.ID]; ok && miles >= 0 {
			d := miles
			r.Distance = &d
			usedDriving = true
			continue
		}
		if !r.HasCoordinates() {
			r.Distance = nil
			continue
		}
		d := Haversine(ref.Point.Latitude, ref.Point.Longitude, *r.Latitude, *r.Longitude)
		r.Distance = &d
	}
	return usedDriving
}
