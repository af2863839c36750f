package loader

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haruki-inoue-314/santa-viewer/internal/journey"
)

func TestTrailFeature(t *testing.T) {
	coords := []journey.Coordinate{{170, 0}, {190, 5}}
	f := TrailFeature(coords)

	b, err := json.Marshal(f)
	require.NoError(t, err)

	var out struct {
		Geometry struct {
			Type        string       `json:"type"`
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "LineString", out.Geometry.Type)
	require.Len(t, out.Geometry.Coordinates, 2)
	// unwrapped longitudes survive the round trip untouched
	assert.Equal(t, [2]float64{190, 5}, out.Geometry.Coordinates[1])
}

func TestVisitedCollection(t *testing.T) {
	wps := []journey.Waypoint{
		{
			ID:        "a",
			Name:      "Alpha",
			Region:    "North",
			Location:  journey.Coordinate{10, 20},
			Arrival:   100,
			Departure: 200,
			Counters:  map[string]int64{"presentsDelivered": 7},
		},
	}
	fc := VisitedCollection(wps)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, "Alpha", f.Properties["name"])
	assert.Equal(t, int64(7), f.Properties["presentsDelivered"])
	pt := f.Point()
	assert.Equal(t, 10.0, pt.Lon())
	assert.Equal(t, 20.0, pt.Lat())
}
