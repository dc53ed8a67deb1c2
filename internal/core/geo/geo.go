// Package geo provides great-circle distance and coarse bounding boxes for provider search
package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// EarthRadiusKm is the mean earth radius used for every distance in search
const EarthRadiusKm = 6371.0

// Point is a lon/lat pair, orb keeps X as longitude
type Point = orb.Point

// At builds a Point from latitude and longitude in that order
func At(lat, lng float64) Point { return orb.Point{lng, lat} }

// DistanceKm returns the haversine distance between a and b in kilometers
func DistanceKm(a, b Point) float64 {
	lat1 := rad(a.Lat())
	lat2 := rad(b.Lat())
	dLat := lat2 - lat1
	dLon := rad(b.Lon() - a.Lon())

	sLat := math.Sin(dLat / 2)
	sLon := math.Sin(dLon / 2)
	h := sLat*sLat + math.Cos(lat1)*math.Cos(lat2)*sLon*sLon
	// rounding can push h a hair outside [0,1] for antipodal points
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// BoundAround returns a box that contains every point within radiusKm of center
// orb measures with a larger radius than ours, so the request is scaled up to keep the box a superset
func BoundAround(center Point, radiusKm float64) orb.Bound {
	meters := radiusKm * 1000 * (orb.EarthRadius / (EarthRadiusKm * 1000))
	return orbgeo.NewBoundAroundPoint(center, meters*1.001)
}

// WrapsAntimeridian reports whether b crosses +-180 longitude
// orb may wrap the box in that case so Left ends up east of Right
func WrapsAntimeridian(b orb.Bound) bool {
	return b.Left() > b.Right() || b.Left() < -180 || b.Right() > 180
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
