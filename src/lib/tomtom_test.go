package lib

import (
	"awm/src/types"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTraffic(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		freeFlow float64
		score    types.TrafficScore
	}{
		{"heavy congestion", 20, 60, types.TRAFFIC_HIGH},
		{"just under half", 29.9, 60, types.TRAFFIC_HIGH},
		{"moderate congestion", 35, 60, types.TRAFFIC_MEDIUM},
		{"exactly half", 30, 60, types.TRAFFIC_MEDIUM},
		{"just under three quarters", 44.9, 60, types.TRAFFIC_MEDIUM},
		{"free flowing", 55, 60, types.TRAFFIC_LOW},
		{"exactly three quarters", 45, 60, types.TRAFFIC_LOW},
		{"faster than free flow", 70, 60, types.TRAFFIC_LOW},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, ratio := ClassifyTraffic(tt.current, tt.freeFlow)
			assert.Equal(t, tt.score, score)
			assert.InDelta(t, tt.current/tt.freeFlow, ratio, 1e-9)
		})
	}

	t.Run("zero free flow speed does not divide by zero", func(t *testing.T) {
		score, ratio := ClassifyTraffic(0.3, 0)
		assert.Equal(t, types.TRAFFIC_HIGH, score)
		assert.InDelta(t, 0.3, ratio, 1e-9)
	})

	t.Run("negative free flow speed does not divide by zero", func(t *testing.T) {
		score, ratio := ClassifyTraffic(2, -10)
		assert.Equal(t, types.TRAFFIC_LOW, score)
		assert.InDelta(t, 2.0, ratio, 1e-9)
	})
}

func TestSampleDailyImpressions(t *testing.T) {
	tests := []struct {
		score types.TrafficScore
		min   int
		max   int
	}{
		{types.TRAFFIC_HIGH, 15000, 25000},
		{types.TRAFFIC_MEDIUM, 5000, 15000},
		{types.TRAFFIC_LOW, 1000, 5000},
	}
	for _, tt := range tests {
		t.Run(string(tt.score), func(t *testing.T) {
			for range 100 {
				got := SampleDailyImpressions(tt.score)
				assert.GreaterOrEqual(t, got, tt.min)
				assert.Less(t, got, tt.max)
			}
		})
	}

	t.Run("unknown score falls back to the low tier", func(t *testing.T) {
		got := SampleDailyImpressions(types.TrafficScore("unknown"))
		assert.GreaterOrEqual(t, got, 1000)
		assert.Less(t, got, 5000)
	})
}

func TestFetchTrafficDataWithoutKey(t *testing.T) {
	t.Setenv("TOMTOM_API_KEY", "")

	_, err := FetchTrafficData(context.Background(), 12.9716, 77.5946)
	assert.NotNil(t, err)
}
