package loader

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/haruki-inoue-314/santa-viewer/internal/journey"
)

// Open returns a pooled connection to the route database.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// FetchRoute loads the waypoints of one route from the waypoints table,
// ordered by arrival time, and validates the result. Counter metadata
// is stored as a jsonb column and passed through unchanged.
func FetchRoute(ctx context.Context, db *sql.DB, routeID string) (journey.Route, error) {
	q := `SELECT waypoint_id, name, COALESCE(region, ''), lon, lat,
                 arrival_ms, departure_ms, COALESCE(counters, '{}'::jsonb)
          FROM waypoints WHERE route_id = $1 ORDER BY arrival_ms`
	rows, err := db.QueryContext(ctx, q, routeID)
	if err != nil {
		return nil, fmt.Errorf("query waypoints: %w", err)
	}
	defer rows.Close()

	var r journey.Route
	for rows.Next() {
		var w journey.Waypoint
		var lon, lat float64
		var counters []byte
		if err := rows.Scan(&w.ID, &w.Name, &w.Region, &lon, &lat, &w.Arrival, &w.Departure, &counters); err != nil {
			return nil, err
		}
		w.Location = journey.Coordinate{lon, lat}
		if len(counters) > 0 {
			if err := json.Unmarshal(counters, &w.Counters); err != nil {
				return nil, fmt.Errorf("waypoint %q counters: %w", w.ID, err)
			}
		}
		r = append(r, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(r) == 0 {
		return nil, sql.ErrNoRows
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid route %q: %w", routeID, err)
	}
	return r, nil
}
