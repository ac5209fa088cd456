package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

// PriorityClass is a category of entities. Lower Priority values are served
// first when every server is busy; Weight sets the share of arrivals drawn
// into the class.
type PriorityClass struct {
	Name     string  `yaml:"name"`
	Priority int     `yaml:"priority"`
	Weight   float64 `yaml:"weight"`
}

// ScriptedArrival places one entity at a fixed time instead of drawing
// arrivals from the generator.
type ScriptedArrival struct {
	Time  float64 `yaml:"time"`
	Class string  `yaml:"class"`
	// Service fixes the service duration; zero is a valid duration. When nil
	// the duration is drawn from the service distribution.
	Service *float64 `yaml:"service,omitempty"`
}

// FixedService returns d as a ScriptedArrival.Service value.
func FixedService(d float64) *float64 {
	return &d
}

// RunConfig groups everything a run depends on. Two runs with equal
// RunConfigs produce identical RunResults.
type RunConfig struct {
	NumServers          int             // servers in the shared resource (> 0)
	MeanArrivalInterval float64         // mean gap between arrivals (> 0 unless Arrivals is set)
	MeanServiceTime     float64         // mean service duration (> 0)
	Horizon             float64         // simulated time the run advances to (> 0)
	Classes             []PriorityClass // priority classes with their arrival weights
	Seed                int64           // master seed of every RNG stream

	ArrivalDistribution string            // "exponential" (default) or "constant"; unused with Arrivals
	ServiceDistribution string            // "exponential" (default) or "constant"
	MaxArrivals         int               // stop generating after this many arrivals (0 = unlimited); must be 0 with Arrivals
	Arrivals            []ScriptedArrival // fixed arrivals; replaces the generator when non-empty
	Trace               bool              // record per-entity lifecycle trace
}

// ClassesFromWeights converts a category → weight mapping into classes.
// Names are sorted so the result does not depend on map iteration order;
// priorities follow the sorted rank (first name is served first).
func ClassesFromWeights(weights map[string]float64) []PriorityClass {
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)
	classes := make([]PriorityClass, 0, len(names))
	for i, name := range names {
		classes = append(classes, PriorityClass{Name: name, Priority: i, Weight: weights[name]})
	}
	return classes
}

// Validate checks that all fields are usable. Every error wraps ErrInvalidParameter.
func (c *RunConfig) Validate() error {
	if c.NumServers <= 0 {
		return fmt.Errorf("%w: number of servers must be positive, got %d", ErrInvalidParameter, c.NumServers)
	}
	if err := validateFinitePositive("mean service time", c.MeanServiceTime); err != nil {
		return err
	}
	if err := validateFinitePositive("horizon", c.Horizon); err != nil {
		return err
	}
	if len(c.Arrivals) == 0 {
		if err := validateFinitePositive("mean arrival interval", c.MeanArrivalInterval); err != nil {
			return err
		}
	}
	if !IsValidDistribution(c.ArrivalDistribution) {
		return fmt.Errorf("%w: unknown arrival distribution %q; valid: exponential, constant", ErrInvalidParameter, c.ArrivalDistribution)
	}
	if !IsValidDistribution(c.ServiceDistribution) {
		return fmt.Errorf("%w: unknown service distribution %q; valid: exponential, constant", ErrInvalidParameter, c.ServiceDistribution)
	}
	if c.MaxArrivals < 0 {
		return fmt.Errorf("%w: max arrivals must be non-negative, got %d", ErrInvalidParameter, c.MaxArrivals)
	}
	if len(c.Arrivals) > 0 {
		if c.MaxArrivals > 0 {
			return fmt.Errorf("%w: max arrivals (%d) limits the generator, which %d scripted arrivals replace",
				ErrInvalidParameter, c.MaxArrivals, len(c.Arrivals))
		}
		if c.MeanArrivalInterval != 0 || c.ArrivalDistribution != "" {
			logrus.Warnf("%d scripted arrivals replace the generator; arrival mean %.2f and distribution %q are ignored",
				len(c.Arrivals), c.MeanArrivalInterval, c.ArrivalDistribution)
		}
	}
	if err := validateClasses(c.Classes); err != nil {
		return err
	}
	known := make(map[string]bool, len(c.Classes))
	for _, cl := range c.Classes {
		known[cl.Name] = true
	}
	for i, a := range c.Arrivals {
		prefix := fmt.Sprintf("arrival[%d]", i)
		if math.IsNaN(a.Time) || math.IsInf(a.Time, 0) || a.Time < 0 {
			return fmt.Errorf("%w: %s: time must be a finite non-negative number, got %f", ErrInvalidParameter, prefix, a.Time)
		}
		if !known[a.Class] {
			return fmt.Errorf("%w: %s: unknown class %q", ErrInvalidParameter, prefix, a.Class)
		}
		if a.Service != nil {
			if d := *a.Service; math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
				return fmt.Errorf("%w: %s: service must be a finite non-negative number, got %f", ErrInvalidParameter, prefix, d)
			}
		}
	}
	return nil
}

func validateClasses(classes []PriorityClass) error {
	if len(classes) == 0 {
		return fmt.Errorf("%w: at least one priority class is required", ErrInvalidParameter)
	}
	names := make([]string, 0, len(classes))
	weights := make([]float64, 0, len(classes))
	seen := make(map[string]bool, len(classes))
	for i, cl := range classes {
		if cl.Name == "" {
			return fmt.Errorf("%w: class[%d]: name must not be empty", ErrInvalidParameter, i)
		}
		if seen[cl.Name] {
			return fmt.Errorf("%w: class[%d]: duplicate name %q", ErrInvalidParameter, i, cl.Name)
		}
		seen[cl.Name] = true
		names = append(names, cl.Name)
		weights = append(weights, cl.Weight)
	}
	_, err := validateWeights(names, weights)
	return err
}
