package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ArrivalGenerator is a perpetual process that spawns one Entity per firing.
// Each firing after the activation draws a priority class, spawns the entity,
// then sleeps for a fresh inter-arrival gap. It stops on its own only when
// MaxArrivals is set; otherwise the run horizon is what ends it.
type ArrivalGenerator struct {
	interarrival Sampler
	service      Sampler
	categories   []string
	weights      []float64
	priorities   map[string]int
	maxArrivals  int // 0 = unlimited

	spawned int
	started bool
	done    bool
}

// NewArrivalGenerator creates a generator for the given classes.
// Fails with ErrInvalidParameter on nil samplers or malformed class weights.
func NewArrivalGenerator(interarrival, service Sampler, classes []PriorityClass, maxArrivals int) (*ArrivalGenerator, error) {
	if interarrival == nil || service == nil {
		return nil, fmt.Errorf("%w: arrival generator needs inter-arrival and service samplers", ErrInvalidParameter)
	}
	if maxArrivals < 0 {
		return nil, fmt.Errorf("%w: max arrivals must be non-negative, got %d", ErrInvalidParameter, maxArrivals)
	}
	g := &ArrivalGenerator{
		interarrival: interarrival,
		service:      service,
		priorities:   make(map[string]int, len(classes)),
		maxArrivals:  maxArrivals,
	}
	for _, c := range classes {
		g.categories = append(g.categories, c.Name)
		g.weights = append(g.weights, c.Weight)
		g.priorities[c.Name] = c.Priority
	}
	if _, err := validateWeights(g.categories, g.weights); err != nil {
		return nil, err
	}
	return g, nil
}

// Name identifies the generator.
func (g *ArrivalGenerator) Name() string { return "arrival-generator" }

// Spawned returns the number of entities spawned so far.
func (g *ArrivalGenerator) Spawned() int { return g.spawned }

// Resume spawns an entity (except on the first activation) and schedules the
// next firing.
func (g *ArrivalGenerator) Resume(sim *Simulator, ev *Event) error {
	if ev.Kind != EventTimer || g.done {
		return fmt.Errorf("%w: %s cannot handle %s (done=%t)", ErrInvalidTransition, g.Name(), ev.Kind, g.done)
	}
	if g.started {
		if err := g.spawn(sim); err != nil {
			return err
		}
	}
	g.started = true

	if g.maxArrivals > 0 && g.spawned >= g.maxArrivals {
		g.done = true
		logrus.Debugf("[t=%010.4f] %s finished after %d arrivals", sim.Clock, g.Name(), g.spawned)
		return nil
	}
	gap := g.interarrival.Sample(sim.Variates(SubsystemArrivals))
	return sim.ScheduleAfter(gap, g)
}

func (g *ArrivalGenerator) spawn(sim *Simulator) error {
	category, err := sim.Variates(SubsystemTriage).WeightedChoice(g.categories, g.weights)
	if err != nil {
		return fmt.Errorf("drawing priority class: %w", err)
	}
	sim.Spawn(sim.NewEntity(category, g.priorities[category], g.service))
	g.spawned++
	return nil
}
