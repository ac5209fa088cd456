package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariateSource_Exponential_InvalidMean(t *testing.T) {
	v := NewVariateSource(1)
	for _, mean := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := v.Exponential(mean)
		assert.ErrorIs(t, err, ErrInvalidParameter, "mean=%v", mean)
	}
}

func TestVariateSource_Exponential_BitReproducible(t *testing.T) {
	// Same seed, same call sequence, same draws; and the draw is the
	// standard math/rand ExpFloat64 scaled by the mean.
	a := NewVariateSource(42)
	b := NewVariateSource(42)
	ref := newRandFromSeed(42)
	for i := 0; i < 100; i++ {
		x, err := a.Exponential(8)
		require.NoError(t, err)
		y, err := b.Exponential(8)
		require.NoError(t, err)
		assert.Equal(t, x, y)
		assert.Equal(t, ref.ExpFloat64()*8, x)
	}
}

func TestVariateSource_Seed_ResetsStream(t *testing.T) {
	v := NewVariateSource(9)
	first := make([]float64, 5)
	for i := range first {
		first[i], _ = v.Exponential(1)
	}
	v.Seed(9)
	for i := range first {
		got, _ := v.Exponential(1)
		assert.Equal(t, first[i], got, "draw %d after reseed", i)
	}
}

func TestVariateSource_Exponential_MeanConverges(t *testing.T) {
	v := NewVariateSource(3)
	const n = 50000
	sum := 0.0
	for i := 0; i < n; i++ {
		d, err := v.Exponential(5)
		require.NoError(t, err)
		require.GreaterOrEqual(t, d, 0.0)
		sum += d
	}
	assert.InDelta(t, 5.0, sum/n, 0.15)
}

func TestVariateSource_WeightedChoice_InvalidWeights(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		weights    []float64
	}{
		{"empty", nil, nil},
		{"negative", []string{"a", "b"}, []float64{1, -1}},
		{"zero sum", []string{"a", "b"}, []float64{0, 0}},
		{"length mismatch", []string{"a"}, []float64{1, 2}},
		{"NaN", []string{"a"}, []float64{math.NaN()}},
		{"Inf", []string{"a"}, []float64{math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVariateSource(1).WeightedChoice(tt.categories, tt.weights)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestVariateSource_WeightedChoice_ZeroWeightNeverChosen(t *testing.T) {
	v := NewVariateSource(5)
	for i := 0; i < 1000; i++ {
		got, err := v.WeightedChoice([]string{"a", "b", "c"}, []float64{0, 1, 0})
		require.NoError(t, err)
		require.Equal(t, "b", got)
	}
}

func TestVariateSource_WeightedChoice_Proportional(t *testing.T) {
	v := NewVariateSource(11)
	const n = 20000
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		got, err := v.WeightedChoice([]string{"low", "high"}, []float64{1, 3})
		require.NoError(t, err)
		counts[got]++
	}
	assert.InDelta(t, 0.75, float64(counts["high"])/n, 0.02)
	assert.InDelta(t, 0.25, float64(counts["low"])/n, 0.02)
}

func TestNewSampler(t *testing.T) {
	s, err := NewSampler(DistConstant, 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, s.Sample(NewVariateSource(1)))

	s, err = NewSampler("", 2)
	require.NoError(t, err)
	assert.IsType(t, &ExponentialSampler{}, s)

	_, err = NewSampler("weibull", 2)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewSampler(DistConstant, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestConstantSampler_ConsumesNoRandomness(t *testing.T) {
	v := NewVariateSource(4)
	s := constService(3)
	for i := 0; i < 10; i++ {
		s.Sample(v)
	}
	got, _ := v.Exponential(1)
	assert.Equal(t, newRandFromSeed(4).ExpFloat64(), got)
}

func TestExponentialSampler_ZeroValuePanics(t *testing.T) {
	v := NewVariateSource(1)
	assert.Panics(t, func() { (&ExponentialSampler{}).Sample(v) })
}
