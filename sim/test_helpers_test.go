package sim

import (
	"errors"
	"math"
)

// stubProcess records every event it is resumed with and optionally runs
// onResume.
type stubProcess struct {
	name     string
	resumed  []*Event
	clocks   []float64
	onResume func(sim *Simulator, ev *Event) error
}

func newStub(name string) *stubProcess {
	return &stubProcess{name: name}
}

func (p *stubProcess) Name() string { return p.name }

func (p *stubProcess) Resume(sim *Simulator, ev *Event) error {
	p.resumed = append(p.resumed, ev)
	p.clocks = append(p.clocks, sim.Clock)
	if p.onResume != nil {
		return p.onResume(sim, ev)
	}
	return nil
}

var errStub = errors.New("stub failure")

// singleClass is the class list of a run without priorities.
func singleClass() []PriorityClass {
	return []PriorityClass{{Name: "default", Priority: 0, Weight: 1}}
}

// triageClasses mirrors a three-tier emergency-room triage.
func triageClasses() []PriorityClass {
	return []PriorityClass{
		{Name: "critical", Priority: 0, Weight: 0.1},
		{Name: "urgent", Priority: 1, Weight: 0.3},
		{Name: "routine", Priority: 2, Weight: 0.6},
	}
}

// defaultRunConfig matches the parameters of the classic two-doctor ER run.
func defaultRunConfig() RunConfig {
	return RunConfig{
		NumServers:          2,
		MeanArrivalInterval: 5,
		MeanServiceTime:     8,
		Horizon:             60,
		Classes:             singleClass(),
		Seed:                42,
	}
}

func constService(v float64) Sampler {
	return &ConstantSampler{value: v}
}

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}
