package sim

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/erqsim/erqsim/sim/trace"
)

// RunHandle is a validated, ready-to-execute run configuration.
// Each Execute builds a fresh engine, so a handle can be executed any number
// of times and always yields the same RunResult.
type RunHandle struct {
	// ID identifies the handle in logs and in the results store.
	ID string

	config       RunConfig
	interarrival Sampler
	service      Sampler
	priorities   map[string]int
	hooks        []Hook
}

// ConfigureRun validates cfg and returns a handle for Execute.
// All configuration errors wrap ErrInvalidParameter and are reported before
// any simulated time advances.
func ConfigureRun(cfg RunConfig) (*RunHandle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &RunHandle{
		ID:         xid.New().String(),
		config:     cloneConfig(cfg),
		priorities: make(map[string]int, len(cfg.Classes)),
	}
	for _, c := range cfg.Classes {
		h.priorities[c.Name] = c.Priority
	}

	var err error
	if len(cfg.Arrivals) == 0 {
		if h.interarrival, err = NewSampler(cfg.ArrivalDistribution, cfg.MeanArrivalInterval); err != nil {
			return nil, err
		}
	}
	if h.service, err = NewSampler(cfg.ServiceDistribution, cfg.MeanServiceTime); err != nil {
		return nil, err
	}
	return h, nil
}

// Config returns a copy of the configuration the handle was built from.
func (h *RunHandle) Config() RunConfig {
	return cloneConfig(h.config)
}

// AcceptHook registers a hook installed on every engine this handle executes.
func (h *RunHandle) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// Execute runs the simulation to the horizon or until no event is left, and
// returns its result. It blocks until the run is over. Execute only reads
// the handle, so concurrent calls on one handle are safe as long as the
// registered hooks are.
func Execute(h *RunHandle) (*RunResult, error) {
	res, _, err := ExecuteTraced(h)
	return res, err
}

// ExecuteTraced is Execute that also returns the lifecycle trace of this
// execution. The trace is nil unless the configuration enables tracing.
func ExecuteTraced(h *RunHandle) (*RunResult, *trace.SimulationTrace, error) {
	if h == nil {
		return nil, nil, fmt.Errorf("%w: nil run handle", ErrInvalidParameter)
	}
	cfg := h.config
	sim := NewSimulator(cfg.NumServers, NewSimulationKey(cfg.Seed))
	categories := make([]string, 0, len(cfg.Classes))
	for _, c := range cfg.Classes {
		categories = append(categories, c.Name)
	}
	sim.Metrics = NewMetrics(categories...)

	var st *trace.SimulationTrace
	if cfg.Trace {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelLifecycle})
		sim.AcceptHook(NewTraceHook(st))
	}
	for _, hook := range h.hooks {
		sim.AcceptHook(hook)
	}

	if err := h.seedArrivals(sim); err != nil {
		return nil, nil, err
	}

	logrus.Infof("Run %s: %d servers, horizon=%.2f, seed=%d, %d classes",
		h.ID, cfg.NumServers, cfg.Horizon, cfg.Seed, len(cfg.Classes))
	if err := sim.Run(cfg.Horizon); err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", h.ID, err)
	}
	result := sim.Metrics.Snapshot(sim.Clock)
	logrus.Infof("Run %s ended at %.4f: %d arrivals, %d departures, %d events fired, %d abandoned in queue",
		h.ID, result.SimulationEndTime, result.Arrivals, result.Departures, sim.Dispatched(), sim.Pending())
	return result, st, nil
}

func (h *RunHandle) seedArrivals(sim *Simulator) error {
	cfg := h.config
	if len(cfg.Arrivals) == 0 {
		gen, err := NewArrivalGenerator(h.interarrival, h.service, cfg.Classes, cfg.MaxArrivals)
		if err != nil {
			return err
		}
		sim.Spawn(gen)
		return nil
	}
	for _, a := range cfg.Arrivals {
		service := h.service
		if a.Service != nil {
			service = &ConstantSampler{value: *a.Service}
		}
		if err := sim.ScheduleAt(a.Time, sim.NewEntity(a.Class, h.priorities[a.Class], service)); err != nil {
			return err
		}
	}
	return nil
}

func cloneConfig(cfg RunConfig) RunConfig {
	out := cfg
	out.Classes = append([]PriorityClass(nil), cfg.Classes...)
	out.Arrivals = append([]ScriptedArrival(nil), cfg.Arrivals...)
	for i, a := range out.Arrivals {
		if a.Service != nil {
			out.Arrivals[i].Service = FixedService(*a.Service)
		}
	}
	return out
}

// traceHook turns entity state changes into lifecycle trace records.
type traceHook struct {
	trace *trace.SimulationTrace
}

// NewTraceHook returns a hook that records entity lifecycles into st.
func NewTraceHook(st *trace.SimulationTrace) Hook {
	return &traceHook{trace: st}
}

func (h *traceHook) Func(ctx HookCtx) {
	if ctx.Pos != HookPosStateChange || !h.trace.Enabled() {
		return
	}
	e, ok := ctx.Item.(*Entity)
	if !ok {
		return
	}
	prev, _ := ctx.Detail.(EntityState)

	if prev == StateCreated {
		h.trace.RecordArrival(trace.ArrivalRecord{
			EntityID: e.ID, Category: e.Category, Priority: e.Priority, Clock: ctx.Sim.Clock,
		})
	}
	switch e.State {
	case StateSleeping:
		h.trace.RecordService(trace.ServiceRecord{
			EntityID: e.ID, Category: e.Category, Clock: e.StartTime, Wait: e.Wait(), Duration: e.ServiceTime,
		})
	case StateTerminated:
		h.trace.RecordDeparture(trace.DepartureRecord{
			EntityID: e.ID, Category: e.Category, Clock: ctx.Sim.Clock,
		})
	}
}
