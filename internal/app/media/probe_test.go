package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFrameRate(t *testing.T) {
	testCases := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"0/0", 0},
		{"25", 0},
		{"", 0},
		{"abc/def", 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, parseFrameRate(tc.in), "rate=%q", tc.in)
	}

	assert.InDelta(t, 29.97, parseFrameRate("30000/1001"), 0.001)
}
