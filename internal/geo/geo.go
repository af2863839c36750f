package geo

import (
	"math"

	"github.com/haruki-inoue-314/santa-viewer/internal/journey"
)

// Mean earth radius in meters.
const EarthRadius = 6371000.0

func toRad(d float64) float64 { return d * math.Pi / 180 }
func toDeg(r float64) float64 { return r * 180 / math.Pi }

// Distance returns the great-circle (haversine) distance between two
// coordinates in meters.
func Distance(a, b journey.Coordinate) float64 {
	lat1 := toRad(a.Lat())
	lat2 := toRad(b.Lat())
	dLat := toRad(b.Lat() - a.Lat())
	dLon := toRad(b.Lon() - a.Lon())
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bearing returns the initial bearing from a to b in degrees [0, 360).
func Bearing(a, b journey.Coordinate) float64 {
	lat1 := toRad(a.Lat())
	lat2 := toRad(b.Lat())
	dLon := toRad(b.Lon() - a.Lon())
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := toDeg(math.Atan2(y, x))
	if brng < 0 {
		brng += 360
	}
	return brng
}

// Destination returns the point reached by travelling dist meters from
// origin along the given initial bearing (degrees), on a spherical
// earth. The returned longitude is normalized to [-180, 180).
func Destination(origin journey.Coordinate, bearingDeg, dist float64) journey.Coordinate {
	lat1 := toRad(origin.Lat())
	lon1 := toRad(origin.Lon())
	brng := toRad(bearingDeg)
	delta := dist / EarthRadius

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(
		math.Sin(brng)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)
	return journey.Coordinate{normalizeLon(toDeg(lon2)), toDeg(lat2)}
}

func normalizeLon(lon float64) float64 {
	lon = math.Mod(lon+540, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
