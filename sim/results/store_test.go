package results

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erqsim/erqsim/sim"
	"github.com/erqsim/erqsim/sim/trace"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func scriptedRun(t *testing.T, traceOn bool) (*sim.RunHandle, sim.RunConfig, *sim.RunResult, *trace.SimulationTrace) {
	t.Helper()
	cfg := sim.RunConfig{
		NumServers:          1,
		MeanServiceTime:     5,
		ServiceDistribution: sim.DistConstant,
		Horizon:             15,
		Classes:             []sim.PriorityClass{{Name: "default", Weight: 1}},
		Arrivals: []sim.ScriptedArrival{
			{Time: 0, Class: "default"},
			{Time: 1, Class: "default"},
			{Time: 2, Class: "default"},
		},
		Trace: traceOn,
	}
	h, err := sim.ConfigureRun(cfg)
	require.NoError(t, err)
	res, st, err := sim.ExecuteTraced(h)
	require.NoError(t, err)
	return h, cfg, res, st
}

func TestStore_SaveRun_RoundTrip(t *testing.T) {
	// GIVEN a finished run with tracing on
	s := openTestStore(t)
	h, cfg, res, st := scriptedRun(t, true)

	// WHEN it is saved
	require.NoError(t, s.SaveRun(h.ID, cfg, res, st))

	// THEN the summary, waits and trace are all queryable
	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, h.ID, runs[0].ID)
	assert.Equal(t, 1, runs[0].Servers)
	assert.Equal(t, 15.0, runs[0].EndTime)
	assert.Equal(t, 15.0, runs[0].BusyTime)
	assert.Equal(t, 3, runs[0].Departures)

	waits, err := s.Waits(h.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string][]float64{"default": {0, 4, 8}}, waits)

	for _, kind := range []string{"arrival", "service", "departure"} {
		n, err := s.TraceCount(h.ID, kind)
		require.NoError(t, err)
		assert.Equal(t, 3, n, kind)
	}
}

func TestStore_SaveRun_WithoutTrace(t *testing.T) {
	s := openTestStore(t)
	h, cfg, res, st := scriptedRun(t, false)

	require.NoError(t, s.SaveRun(h.ID, cfg, res, st))

	n, err := s.TraceCount(h.ID, "arrival")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStore_SaveRun_DuplicateIDFails(t *testing.T) {
	s := openTestStore(t)
	h, cfg, res, _ := scriptedRun(t, false)
	require.NoError(t, s.SaveRun(h.ID, cfg, res, nil))

	err := s.SaveRun(h.ID, cfg, res, nil)

	require.Error(t, err)
	waits, err := s.Waits(h.ID)
	require.NoError(t, err)
	assert.Len(t, waits["default"], 3, "failed save is rolled back")
}

func TestStore_ReopenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.sqlite3")
	h, cfg, res, _ := scriptedRun(t, false)

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveRun(h.ID, cfg, res, nil))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.SaveRun("second", cfg, res, nil))
	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "second", runs[1].ID)
}

func TestStore_Closed(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, cfg, res, _ := scriptedRun(t, false)
	assert.ErrorIs(t, s.SaveRun("x", cfg, res, nil), ErrClosed)
	_, err := s.Runs()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStore_SaveRun_NilResult(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.SaveRun("x", sim.RunConfig{}, nil, nil))
}
