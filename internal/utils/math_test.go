package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformInt64(t *testing.T) {
	tests := []struct {
		name     string
		r        float64
		min, max int64
		expected int64
	}{
		{"lowest draw hits min", 0, 50, 250, 50},
		{"highest draw hits max", 0.999999, 50, 250, 250},
		{"midpoint", 0.5, 1, 10, 6},
		{"degenerate range", 0.7, 3, 3, 3},
		{"inverted range returns min", 0.7, 9, 3, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UniformInt64(tt.r, tt.min, tt.max))
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(9, 0, 5))
	assert.Equal(t, int64(0), Clamp(int64(-3), 0, 5))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
}
