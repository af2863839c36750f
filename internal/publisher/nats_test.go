package publisher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"san-francisco", "san-francisco"},
		{"new york", "new_york"},
		{"a.b", "a_b"},
		{"route/7", "route_7"},
		{"  spaced  ", "spaced"},
		{"", "_"},
		{">*", "__"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, subjectToken(tt.in), "input %q", tt.in)
	}
}
