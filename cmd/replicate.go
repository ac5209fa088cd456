package cmd

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/erqsim/erqsim/sim"
	"github.com/erqsim/erqsim/sim/trace"
)

// replication is the outcome of one independent run.
type replication struct {
	ID     string              `yaml:"id"`
	Seed   int64               `yaml:"seed"`
	Result *sim.RunResult      `yaml:"result"`
	Trace  *trace.TraceSummary `yaml:"trace,omitempty"`

	config    sim.RunConfig
	lifecycle *trace.SimulationTrace
}

// runReplications executes n runs of cfg with seeds cfg.Seed, cfg.Seed+1, ...
// concurrently. Each run owns its engine, so they share no state. Results
// come back in seed order.
func runReplications(cfg sim.RunConfig, n int) ([]replication, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: replications must be >= 1, got %d", sim.ErrInvalidParameter, n)
	}
	handles := make([]*sim.RunHandle, n)
	for i := range handles {
		c := cfg
		c.Seed = cfg.Seed + int64(i)
		h, err := sim.ConfigureRun(c)
		if err != nil {
			return nil, err
		}
		handles[i] = h
	}

	reps := make([]replication, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i, h := range handles {
		wg.Add(1)
		go func(i int, h *sim.RunHandle) {
			defer wg.Done()
			res, st, err := sim.ExecuteTraced(h)
			if err != nil {
				errs[i] = err
				return
			}
			reps[i] = replication{
				ID:        h.ID,
				Seed:      h.Config().Seed,
				Result:    res,
				config:    h.Config(),
				lifecycle: st,
			}
			if st.Enabled() {
				reps[i].Trace = trace.Summarize(st)
				logrus.Infof("Run %s trace: %d arrived, %d served, %d departed, %d still waiting",
					h.ID, reps[i].Trace.Arrived, reps[i].Trace.Served, reps[i].Trace.Departed, reps[i].Trace.Waiting)
			}
		}(i, h)
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return reps, nil
}
