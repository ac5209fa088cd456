// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Process is a suspendable unit of logic driven by the simulator.
// A process runs only inside Resume and yields by scheduling a timer
// (ScheduleAfter) or by waiting on a PriorityResource; it holds at most one
// outstanding suspension point at a time.
type Process interface {
	// Name identifies the process in logs and traces.
	Name() string
	// Resume runs the process logic until its next suspension point.
	Resume(sim *Simulator, ev *Event) error
}

// Simulator is the core object that holds simulation time, the event queue,
// the shared resource and the per-run metrics.
// All state is confined to the goroutine calling Run; nothing here is locked.
type Simulator struct {
	HookableBase

	// Clock is the current simulated time. It only moves forward.
	Clock float64
	// Resource is the pool of servers entities contend for.
	Resource *PriorityResource
	// Metrics collects wait and busy time for this run only.
	Metrics *Metrics

	queue      *EventQueue
	rng        *PartitionedRNG
	nextEntity int
	dispatched int
}

// NewSimulator creates a simulator with a resource of the given capacity.
// All randomness is derived from key.
// Panics if servers < 1.
func NewSimulator(servers int, key SimulationKey) *Simulator {
	if servers < 1 {
		panic(fmt.Sprintf("NewSimulator: servers must be >= 1, got %d", servers))
	}
	sim := &Simulator{
		Clock:   0,
		Metrics: NewMetrics(),
		queue:   NewEventQueue(),
		rng:     NewPartitionedRNG(key),
	}
	sim.Resource = NewPriorityResource(sim, servers)
	return sim
}

// Variates returns the VariateSource of the named RNG subsystem.
func (sim *Simulator) Variates(subsystem string) *VariateSource {
	return sim.rng.Variates(subsystem)
}

// Pending returns the number of events that have not fired yet.
func (sim *Simulator) Pending() int {
	return sim.queue.Len()
}

// Dispatched returns the number of events fired so far.
func (sim *Simulator) Dispatched() int {
	return sim.dispatched
}

// ScheduleAfter wakes p with a timer event delay time units from now.
func (sim *Simulator) ScheduleAfter(delay float64, p Process) error {
	if math.IsNaN(delay) || math.IsInf(delay, 0) || delay < 0 {
		return fmt.Errorf("%w: delay must be a finite non-negative number, got %f", ErrInvalidParameter, delay)
	}
	sim.push(sim.Clock+delay, p, EventTimer)
	return nil
}

// ScheduleAt wakes p with a timer event at absolute time t.
func (sim *Simulator) ScheduleAt(t float64, p Process) error {
	if math.IsNaN(t) || math.IsInf(t, 0) || t < sim.Clock {
		return fmt.Errorf("%w: time %f is not a finite time at or after the clock %f", ErrInvalidParameter, t, sim.Clock)
	}
	sim.push(t, p, EventTimer)
	return nil
}

// Spawn starts p by pushing an immediate activation event.
func (sim *Simulator) Spawn(p Process) {
	sim.push(sim.Clock, p, EventTimer)
}

// grant pushes an immediate resumption for a process the resource just served.
func (sim *Simulator) grant(p Process) {
	sim.push(sim.Clock, p, EventResourceGrant)
}

func (sim *Simulator) push(t float64, p Process, kind EventKind) {
	sim.queue.Push(&Event{Time: t, Kind: kind, Process: p})
}

// Run fires events in (time, sequence) order until the queue empties or the
// next event lies beyond until. Events beyond until stay queued; when the run
// stops on the horizon the clock is advanced to until.
func (sim *Simulator) Run(until float64) error {
	if math.IsNaN(until) {
		return fmt.Errorf("%w: run horizon must not be NaN", ErrInvalidParameter)
	}
	for sim.queue.Len() > 0 {
		next, err := sim.queue.PeekMin()
		if err != nil {
			return err
		}
		if next.Time > until {
			sim.Clock = math.Max(sim.Clock, until)
			break
		}

		ev, err := sim.queue.PopMin()
		if err != nil {
			return err
		}
		if ev.Time < sim.Clock {
			return fmt.Errorf("%w: cannot run event %s in the past, clock %.10f",
				ErrCausalityViolation, ev, sim.Clock)
		}
		sim.Clock = ev.Time
		logrus.Debugf("[t=%010.4f] Executing %s", sim.Clock, ev)

		sim.InvokeHook(HookCtx{Sim: sim, Pos: HookPosBeforeEvent, Item: ev})
		if err := ev.Process.Resume(sim, ev); err != nil {
			return fmt.Errorf("dispatching %s: %w", ev, err)
		}
		sim.dispatched++
		sim.InvokeHook(HookCtx{Sim: sim, Pos: HookPosAfterEvent, Item: ev})
	}
	logrus.Debugf("[t=%010.4f] Run stopped, %d events pending", sim.Clock, sim.queue.Len())
	return nil
}
