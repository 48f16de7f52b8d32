package rest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterRefill(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, 2)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"), "burst exhausted")
	assert.True(t, rl.Allow("5.6.7.8"), "clients have separate buckets")

	now = now.Add(500 * time.Millisecond)
	assert.True(t, rl.Allow("1.2.3.4"), "one token refilled after half a second at 2 rps")
	assert.False(t, rl.Allow("1.2.3.4"))

	now = now.Add(time.Hour)
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"), "refill is capped at burst")
}

func TestRateLimiterBurstDefaults(t *testing.T) {
	tests := []struct {
		name  string
		rps   float64
		burst int
		want  float64
	}{
		{name: "explicit burst", rps: 5, burst: 20, want: 20},
		{name: "zero burst uses rps", rps: 5, burst: 0, want: 5},
		{name: "fractional rps floors at one", rps: 0.5, burst: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewRateLimiter(tt.rps, tt.burst).burst)
		})
	}
}

func TestRateLimiterSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(10 * time.Minute)
	rl.Allow("fresh")

	rl.Sweep(5 * time.Minute)
	assert.NotContains(t, rl.buckets, "old")
	assert.Contains(t, rl.buckets, "fresh")
}
