package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// VariateSource draws the random quantities the engine needs: exponential
// durations and weighted categorical choices. It is the only place the
// engine consumes randomness.
type VariateSource struct {
	rng *rand.Rand
}

// NewVariateSource creates a VariateSource seeded with seed.
func NewVariateSource(seed int64) *VariateSource {
	return &VariateSource{rng: newRandFromSeed(seed)}
}

// Seed resets the stream so the next draws replay from the beginning of the
// sequence for seed.
func (v *VariateSource) Seed(seed int64) {
	v.rng.Seed(seed)
}

// Exponential returns a draw from an exponential distribution with the given mean.
func (v *VariateSource) Exponential(mean float64) (float64, error) {
	if err := validateFinitePositive("mean", mean); err != nil {
		return 0, err
	}
	return v.rng.ExpFloat64() * mean, nil
}

// WeightedChoice returns one of categories with probability proportional to
// its weight. Categories with zero weight are never chosen.
func (v *VariateSource) WeightedChoice(categories []string, weights []float64) (string, error) {
	total, err := validateWeights(categories, weights)
	if err != nil {
		return "", err
	}
	u := v.rng.Float64() * total
	cumulative := 0.0
	last := -1
	for i, w := range weights {
		if w == 0 {
			continue
		}
		cumulative += w
		last = i
		if u < cumulative {
			return categories[i], nil
		}
	}
	// u can reach total through rounding in the running sum
	return categories[last], nil
}

func validateWeights(categories []string, weights []float64) (float64, error) {
	if len(weights) == 0 {
		return 0, fmt.Errorf("%w: weights must not be empty", ErrInvalidParameter)
	}
	if len(categories) != len(weights) {
		return 0, fmt.Errorf("%w: %d categories but %d weights", ErrInvalidParameter, len(categories), len(weights))
	}
	total := 0.0
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return 0, fmt.Errorf("%w: weight of %q must be finite, got %f", ErrInvalidParameter, categories[i], w)
		}
		if w < 0 {
			return 0, fmt.Errorf("%w: weight of %q must be non-negative, got %f", ErrInvalidParameter, categories[i], w)
		}
		total += w
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: weights sum to zero", ErrInvalidParameter)
	}
	return total, nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%w: %s must be a finite number, got %f", ErrInvalidParameter, name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %f", ErrInvalidParameter, name, val)
	}
	return nil
}

// === Duration samplers ===

// Distribution names accepted by NewSampler.
const (
	DistExponential = "exponential"
	DistConstant    = "constant"
)

var validDistributions = map[string]bool{
	"":              true, // empty defaults to exponential
	DistExponential: true,
	DistConstant:    true,
}

// IsValidDistribution reports whether name is an accepted duration distribution.
func IsValidDistribution(name string) bool {
	return validDistributions[name]
}

// Sampler draws durations (inter-arrival gaps, service times).
type Sampler interface {
	// Sample returns a non-negative duration.
	Sample(v *VariateSource) float64
}

// ExponentialSampler draws exponentially-distributed durations (CV=1).
type ExponentialSampler struct {
	mean float64
}

// Sample panics when the sampler was not built by NewSampler.
func (s *ExponentialSampler) Sample(v *VariateSource) float64 {
	d, err := v.Exponential(s.mean)
	if err != nil {
		panic(fmt.Sprintf("ExponentialSampler.Sample: %v", err))
	}
	return d
}

// ConstantSampler always returns the same duration and consumes no randomness.
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(_ *VariateSource) float64 {
	return s.value
}

// NewSampler creates a Sampler by distribution name with the given mean.
// Empty name defaults to exponential.
func NewSampler(dist string, mean float64) (Sampler, error) {
	if err := validateFinitePositive("mean", mean); err != nil {
		return nil, err
	}
	switch dist {
	case "", DistExponential:
		return &ExponentialSampler{mean: mean}, nil
	case DistConstant:
		return &ConstantSampler{value: mean}, nil
	default:
		return nil, fmt.Errorf("%w: unknown distribution %q; valid: exponential, constant", ErrInvalidParameter, dist)
	}
}
