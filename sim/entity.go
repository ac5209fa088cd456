package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// EntityState is a lifecycle state of an Entity.
type EntityState int

const (
	StateCreated EntityState = iota
	StateSleeping
	StateWaitingForResource
	StateHoldingResource
	StateTerminated
)

func (s EntityState) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateSleeping:
		return "Sleeping"
	case StateWaitingForResource:
		return "WaitingForResource"
	case StateHoldingResource:
		return "HoldingResource"
	case StateTerminated:
		return "Terminated"
	default:
		return fmt.Sprintf("EntityState(%d)", int(s))
	}
}

// Entity is one simulated unit flowing through
// arrival → wait for a server → service → departure.
//
// The lifecycle is an explicit state machine driven by the simulator:
//
//	Created --activation--> WaitingForResource --grant--> HoldingResource
//	Created --activation, free server--> HoldingResource
//	HoldingResource --service timer scheduled--> Sleeping
//	Sleeping --timer--> Terminated (server released)
type Entity struct {
	ID       string
	Category string
	Priority int
	State    EntityState

	ArrivalTime   float64
	StartTime     float64 // time the server was granted
	DepartureTime float64
	ServiceTime   float64

	service Sampler
	claim   *Claim
}

// NewEntity creates an entity in the Created state with the next entity ID.
// The entity does nothing until it is spawned or scheduled.
// Panics if service is nil.
func (sim *Simulator) NewEntity(category string, priority int, service Sampler) *Entity {
	if service == nil {
		panic("NewEntity: service sampler must not be nil")
	}
	sim.nextEntity++
	return &Entity{
		ID:       fmt.Sprintf("entity-%d", sim.nextEntity),
		Category: category,
		Priority: priority,
		State:    StateCreated,
		service:  service,
	}
}

// Name returns the entity ID.
func (e *Entity) Name() string { return e.ID }

// Wait returns how long the entity waited for a server.
// Only meaningful once the entity reached HoldingResource.
func (e *Entity) Wait() float64 { return e.StartTime - e.ArrivalTime }

// Resume advances the state machine for the event that woke the entity.
func (e *Entity) Resume(sim *Simulator, ev *Event) error {
	switch {
	case e.State == StateCreated && ev.Kind == EventTimer:
		return e.arrive(sim)
	case e.State == StateWaitingForResource && ev.Kind == EventResourceGrant:
		return e.startService(sim)
	case e.State == StateSleeping && ev.Kind == EventTimer:
		return e.depart(sim)
	default:
		return fmt.Errorf("%w: %s in state %s cannot handle %s", ErrInvalidTransition, e.ID, e.State, ev.Kind)
	}
}

func (e *Entity) arrive(sim *Simulator) error {
	e.ArrivalTime = sim.Clock
	sim.Metrics.RecordArrival()
	logrus.Debugf("[t=%010.4f] %s (%s) arrives", sim.Clock, e.ID, e.Category)

	claim, granted := sim.Resource.Request(e, e.Priority)
	e.claim = claim
	if !granted {
		e.setState(sim, StateWaitingForResource)
		return nil
	}
	return e.startService(sim)
}

func (e *Entity) startService(sim *Simulator) error {
	e.StartTime = sim.Clock
	e.setState(sim, StateHoldingResource)
	sim.Metrics.RecordWait(e.Category, e.Wait())
	logrus.Debugf("[t=%010.4f] %s starts service after waiting %.4f", sim.Clock, e.ID, e.Wait())

	e.ServiceTime = e.service.Sample(sim.Variates(SubsystemService))
	if err := sim.ScheduleAfter(e.ServiceTime, e); err != nil {
		return fmt.Errorf("scheduling service of %s: %w", e.ID, err)
	}
	e.setState(sim, StateSleeping)
	return nil
}

func (e *Entity) depart(sim *Simulator) error {
	if err := sim.Resource.Release(e.claim); err != nil {
		return fmt.Errorf("releasing server held by %s: %w", e.ID, err)
	}
	sim.Metrics.RecordBusy(e.ServiceTime)
	sim.Metrics.RecordDeparture()
	e.DepartureTime = sim.Clock
	e.setState(sim, StateTerminated)
	logrus.Debugf("[t=%010.4f] %s leaves", sim.Clock, e.ID)
	return nil
}

func (e *Entity) setState(sim *Simulator, s EntityState) {
	prev := e.State
	e.State = s
	sim.InvokeHook(HookCtx{Sim: sim, Pos: HookPosStateChange, Item: e, Detail: prev})
}
