// Package loader builds validated routes from external sources. All
// invariant checking happens here, at the boundary: once a Route leaves
// this package it is trusted by everything downstream.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/haruki-inoue-314/santa-viewer/internal/journey"
)

// LoadFile reads a route from a JSON file holding an array of waypoint
// records and validates it. Records must already be sorted ascending by
// arrival time; out-of-order input is rejected, not repaired.
func LoadFile(path string) (journey.Route, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read route file: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates a JSON route document.
func Parse(b []byte) (journey.Route, error) {
	var r journey.Route
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode route: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid route: %w", err)
	}
	return r, nil
}
