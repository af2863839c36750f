package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haruki-inoue-314/santa-viewer/internal/journey"
)

const sampleJSON = `[
  {"id": "a", "name": "Alpha", "region": "North", "location": [170.0, 10.0],
   "arrival": 1000000, "departure": 1010000,
   "counters": {"presentsDelivered": 5}},
  {"id": "b", "name": "Bravo", "region": "South", "location": [-175.0, -5.0],
   "arrival": 1070000, "departure": 1080000}
]`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(sampleJSON))
	require.NoError(t, err)
	require.Len(t, r, 2)
	assert.Equal(t, "a", r[0].ID)
	assert.Equal(t, journey.Coordinate{170, 10}, r[0].Location)
	assert.Equal(t, int64(1000000), r[0].Arrival)
	assert.Equal(t, int64(5), r[0].Counters["presentsDelivered"])
	assert.Equal(t, "South", r[1].Region)
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	_, err := Parse([]byte("{not json"))
	assert.Error(t, err)
}

func TestParseRejectsUnsortedRoute(t *testing.T) {
	unsorted := `[
  {"id": "a", "location": [10.0, 0.0], "arrival": 2000000, "departure": 2010000},
  {"id": "b", "location": [20.0, 0.0], "arrival": 1000000, "departure": 1010000}
]`
	_, err := Parse([]byte(unsorted))
	assert.Error(t, err)
}

func TestParseRejectsEmptyRoute(t *testing.T) {
	_, err := Parse([]byte("[]"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	r, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, r, 2)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
