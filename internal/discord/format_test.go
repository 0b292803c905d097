package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "10,000", formatNumber(10000))
	assert.Equal(t, "77,777", formatNumber(77777))
	assert.Equal(t, "-1,250", formatNumber(-1250))
}

func TestItemDisplayName(t *testing.T) {
	assert.Equal(t, "Rare Loot Box", itemDisplayName("rare_loot_box"))
	assert.Equal(t, "Coins", itemDisplayName("coins"))
}

func TestOneIn(t *testing.T) {
	tests := []struct {
		name string
		odds float64
		want int64
	}{
		{"certain", 1, 1},
		{"one percent", 0.01, 100},
		{"rounds", 0.003, 333},
		{"unknown", 0, 0},
		{"invalid", 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, oneIn(tt.odds))
		})
	}
}
