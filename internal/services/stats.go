package services

import (
	"math"
	"sort"
)

// Distribution is the six-number summary returned for every pooled metric
type Distribution struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	Count  int     `json:"count"`
}

// Summarize computes the distribution of a sample vector. Returns nil for an
// empty vector so callers can serialize the absence of data as null rather
// than a row of zeros.
func Summarize(samples []float64) *Distribution {
	if len(samples) == 0 {
		return nil
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return &Distribution{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   sum / float64(len(sorted)),
		Median: percentile(sorted, 50),
		Q1:     percentile(sorted, 25),
		Q3:     percentile(sorted, 75),
		Count:  len(sorted),
	}
}

// percentile computes the p-th percentile of a sorted vector using linear
// interpolation between closest ranks: the rank p/100*(n-1) blends the two
// bracketing elements by its fractional part.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}

	frac := rank - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func roundFloat(val float64, precision int) float64 {
	ratio := 1.0
	for i := 0; i < precision; i++ {
		ratio *= 10
	}
	return float64(int(val*ratio+0.5)) / ratio
}
