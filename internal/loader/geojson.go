package loader

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/haruki-inoue-314/santa-viewer/internal/journey"
)

// TrailFeature wraps an anti-meridian-corrected trail as a GeoJSON
// LineString feature for renderers that consume GeoJSON directly.
func TrailFeature(coords []journey.Coordinate) *geojson.Feature {
	line := make(orb.LineString, len(coords))
	for i, c := range coords {
		line[i] = orb.Point{c.Lon(), c.Lat()}
	}
	return geojson.NewFeature(line)
}

// VisitedCollection renders visited waypoints as a GeoJSON feature
// collection of points, carrying the descriptive metadata as
// properties.
func VisitedCollection(wps []journey.Waypoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, w := range wps {
		f := geojson.NewFeature(orb.Point{w.Location.Lon(), w.Location.Lat()})
		f.Properties["id"] = w.ID
		f.Properties["name"] = w.Name
		f.Properties["region"] = w.Region
		f.Properties["arrival"] = w.Arrival
		f.Properties["departure"] = w.Departure
		for k, v := range w.Counters {
			f.Properties[k] = v
		}
		fc.Append(f)
	}
	return fc
}
