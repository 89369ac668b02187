package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	t.Run("empty vector returns nil", func(t *testing.T) {
		assert.Nil(t, Summarize(nil))
		assert.Nil(t, Summarize([]float64{}))
	})

	t.Run("single element repeats everywhere", func(t *testing.T) {
		stats := Summarize([]float64{10})

		assert.NotNil(t, stats)
		assert.Equal(t, 10.0, stats.Min)
		assert.Equal(t, 10.0, stats.Max)
		assert.Equal(t, 10.0, stats.Mean)
		assert.Equal(t, 10.0, stats.Median)
		assert.Equal(t, 10.0, stats.Q1)
		assert.Equal(t, 10.0, stats.Q3)
		assert.Equal(t, 1, stats.Count)
	})

	t.Run("quartiles interpolate between ranks", func(t *testing.T) {
		stats := Summarize([]float64{1, 2, 3, 4})

		assert.Equal(t, 1.75, stats.Q1)
		assert.Equal(t, 2.5, stats.Median)
		assert.Equal(t, 3.25, stats.Q3)
		assert.Equal(t, 2.5, stats.Mean)
		assert.Equal(t, 4, stats.Count)
	})

	t.Run("input order does not matter", func(t *testing.T) {
		sorted := Summarize([]float64{1, 2, 3, 4})
		shuffled := Summarize([]float64{4, 1, 3, 2})

		assert.Equal(t, sorted, shuffled)
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		samples := []float64{4, 1, 3, 2}
		Summarize(samples)

		assert.Equal(t, []float64{4, 1, 3, 2}, samples)
	})

	t.Run("summary is always ordered", func(t *testing.T) {
		vectors := [][]float64{
			{5},
			{3, 3, 3},
			{9.5, 0.1, 4.2, 4.2, 7},
			{2, 4, 6, 8, 10, 12, 14},
		}

		for _, samples := range vectors {
			stats := Summarize(samples)

			assert.LessOrEqual(t, stats.Min, stats.Q1)
			assert.LessOrEqual(t, stats.Q1, stats.Median)
			assert.LessOrEqual(t, stats.Median, stats.Q3)
			assert.LessOrEqual(t, stats.Q3, stats.Max)
		}
	})
}

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{name: "p0 is min", p: 0, want: 10},
		{name: "p100 is max", p: 100, want: 50},
		{name: "p50 hits middle element", p: 50, want: 30},
		{name: "p25 lands on element", p: 25, want: 20},
		{name: "p10 interpolates", p: 10, want: 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, percentile(sorted, tt.p), 1e-9)
		})
	}
}

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 0.67, roundFloat(2.0/3.0, 2))
	assert.Equal(t, 66.7, roundFloat(66.666, 1))
	assert.Equal(t, 3.0, roundFloat(2.5, 0))
}
