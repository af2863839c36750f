// Package interp answers point-in-time queries against an immutable
// route: where is the traveller at time t, which stops has it reached,
// and what path has it drawn so far. Every function is pure; callers
// may invoke them concurrently without coordination.
//
// All functions assume a validated route (non-empty, arrival-sorted,
// see journey.Route.Validate). Timestamps are epoch milliseconds.
package interp

import (
	"github.com/haruki-inoue-314/santa-viewer/internal/geo"
	"github.com/haruki-inoue-314/santa-viewer/internal/journey"
)

// PositionAt returns the traveller's coordinate at time t. Before the
// first arrival it is pinned to the first waypoint, during a dwell
// window it sits exactly on that waypoint, in transit it moves along
// the great-circle arc at constant angular speed, and past the end of
// the route it stays on the last waypoint.
func PositionAt(r journey.Route, t int64) journey.Coordinate {
	if t <= r[0].Arrival {
		return r[0].Location
	}
	for i := 0; i+1 < len(r); i++ {
		cur, next := r[i], r[i+1]
		if cur.Arrival <= t && t <= cur.Departure {
			return cur.Location
		}
		if cur.Departure < t && t < next.Arrival {
			return pointAlong(cur, next, t)
		}
	}
	return r[len(r)-1].Location
}

// VisitedAt returns the prefix of waypoints whose arrival time is <= t,
// in route order. The scan stops at the first waypoint still ahead of
// t; this is only correct because routes are arrival-sorted, which
// Validate enforces at load time.
func VisitedAt(r journey.Route, t int64) []journey.Waypoint {
	n := 0
	for n < len(r) && r[n].Arrival <= t {
		n++
	}
	return r[:n:n]
}

// TrailAt returns the path travelled up to time t as a coordinate
// sequence, starting at the first waypoint. Fully traversed legs
// contribute their endpoint; a leg in progress contributes the
// interpolated point and ends the trail. The result is anti-meridian
// corrected and safe to hand to a polyline renderer as-is.
func TrailAt(r journey.Route, t int64) []journey.Coordinate {
	coords := make([]journey.Coordinate, 0, len(r))
	coords = append(coords, r[0].Location)
	for i := 0; i+1 < len(r); i++ {
		cur, next := r[i], r[i+1]
		if t < cur.Departure {
			break
		}
		if t >= next.Arrival {
			coords = append(coords, next.Location)
			continue
		}
		coords = append(coords, pointAlong(cur, next, t))
		break
	}
	return FixAntimeridian(coords)
}

// FixAntimeridian unwraps longitudes so a path crossing the ±180° line
// renders continuously instead of jumping across the whole map. Each
// point is shifted by ±360° whenever it lands more than 180° of
// longitude away from the already-corrected point before it, so output
// longitudes may leave [-180, 180]. The input is never modified;
// sequences of length <= 1 come back as an untouched copy.
func FixAntimeridian(coords []journey.Coordinate) []journey.Coordinate {
	out := make([]journey.Coordinate, len(coords))
	copy(out, coords)
	for i := 1; i < len(out); i++ {
		diff := out[i].Lon() - out[i-1].Lon()
		if diff < -180 {
			out[i][0] += 360
		} else if diff > 180 {
			out[i][0] -= 360
		}
	}
	return out
}

// pointAlong interpolates the in-transit position between cur and next
// at time t. A zero-duration leg has no interior, so it resolves to
// the destination rather than dividing by zero.
func pointAlong(cur, next journey.Waypoint, t int64) journey.Coordinate {
	span := next.Arrival - cur.Departure
	if span <= 0 {
		return next.Location
	}
	ratio := float64(t-cur.Departure) / float64(span)
	dist := geo.Distance(cur.Location, next.Location)
	bearing := geo.Bearing(cur.Location, next.Location)
	return geo.Destination(cur.Location, bearing, ratio*dist)
}
