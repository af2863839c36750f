package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		route   Route
		wantErr bool
	}{
		{
			name:    "empty route",
			route:   Route{},
			wantErr: true,
		},
		{
			name: "single waypoint",
			route: Route{
				{ID: "a", Location: Coordinate{10, 0}, Arrival: 100, Departure: 200},
			},
		},
		{
			name: "valid ordered pair",
			route: Route{
				{ID: "a", Location: Coordinate{10, 0}, Arrival: 100, Departure: 200},
				{ID: "b", Location: Coordinate{20, 0}, Arrival: 300, Departure: 400},
			},
		},
		{
			name: "zero dwell and zero transit allowed",
			route: Route{
				{ID: "a", Location: Coordinate{10, 0}, Arrival: 100, Departure: 100},
				{ID: "b", Location: Coordinate{20, 0}, Arrival: 100, Departure: 150},
			},
		},
		{
			name: "negative dwell",
			route: Route{
				{ID: "a", Location: Coordinate{10, 0}, Arrival: 200, Departure: 100},
			},
			wantErr: true,
		},
		{
			name: "arrival before previous departure",
			route: Route{
				{ID: "a", Location: Coordinate{10, 0}, Arrival: 100, Departure: 300},
				{ID: "b", Location: Coordinate{20, 0}, Arrival: 200, Departure: 400},
			},
			wantErr: true,
		},
		{
			name: "latitude out of range",
			route: Route{
				{ID: "a", Location: Coordinate{10, 91}, Arrival: 100, Departure: 200},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.route.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCoordinateAccessors(t *testing.T) {
	c := Coordinate{135.5, -42.1}
	assert.Equal(t, 135.5, c.Lon())
	assert.Equal(t, -42.1, c.Lat())
}

func TestRouteBounds(t *testing.T) {
	r := Route{
		{ID: "a", Arrival: 100, Departure: 200},
		{ID: "b", Arrival: 300, Departure: 400},
	}
	assert.Equal(t, int64(100), r.Start())
	assert.Equal(t, int64(300), r.End())
}
