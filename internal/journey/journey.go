package journey

import (
	"fmt"
	"time"
)

// Coordinate is a geographic position in [longitude, latitude] order,
// degrees. The array layout matches the wire format consumed by the
// rendering layer, so it marshals to JSON as [lon, lat] directly.
type Coordinate [2]float64

func (c Coordinate) Lon() float64 { return c[0] }
func (c Coordinate) Lat() float64 { return c[1] }

// Waypoint is a single stop on the journey. Arrival and Departure are
// epoch milliseconds UTC. Name, Region and Counters are descriptive
// metadata carried through unchanged; interpolation never reads them.
type Waypoint struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Region    string           `json:"region"`
	Location  Coordinate       `json:"location"`
	Arrival   int64            `json:"arrival"`
	Departure int64            `json:"departure"`
	Counters  map[string]int64 `json:"counters,omitempty"`
}

// ArrivalTime returns the arrival instant as a time.Time.
func (w Waypoint) ArrivalTime() time.Time {
	return time.UnixMilli(w.Arrival).UTC()
}

// Route is the full ordered waypoint sequence for one journey, sorted
// ascending by arrival time. It is built once by a loader and never
// mutated afterwards; every consumer treats it as read-only.
type Route []Waypoint

// Start returns the arrival time of the first waypoint in epoch ms.
func (r Route) Start() int64 { return r[0].Arrival }

// End returns the arrival time of the last waypoint in epoch ms.
func (r Route) End() int64 { return r[len(r)-1].Arrival }

// Validate checks the ordering invariant the interpolator relies on:
// the route is non-empty and arrival[i] <= departure[i] <= arrival[i+1]
// for every consecutive pair. Loaders must call this before handing a
// route to the rest of the system; the query functions themselves do
// not defend against malformed input.
func (r Route) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("route is empty")
	}
	for i, w := range r {
		if w.Departure < w.Arrival {
			return fmt.Errorf("waypoint %q (#%d): departure %d before arrival %d", w.ID, i, w.Departure, w.Arrival)
		}
		if w.Location.Lat() < -90 || w.Location.Lat() > 90 {
			return fmt.Errorf("waypoint %q (#%d): latitude %f out of range", w.ID, i, w.Location.Lat())
		}
		if i > 0 && w.Arrival < r[i-1].Departure {
			return fmt.Errorf("waypoint %q (#%d): arrival %d before previous departure %d", w.ID, i, w.Arrival, r[i-1].Departure)
		}
	}
	return nil
}
