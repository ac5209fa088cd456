package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erqsim/erqsim/sim"
	"github.com/erqsim/erqsim/sim/workload"
)

// defaultOptions mirrors the run command flag defaults.
func defaultOptions() runOptions {
	return runOptions{
		seed:         42,
		horizon:      60,
		servers:      2,
		arrivalMean:  5,
		serviceMean:  8,
		arrivalDist:  "exponential",
		serviceDist:  "exponential",
		replications: 1,
	}
}

func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestParseClasses(t *testing.T) {
	classes, err := parseClasses([]string{"critical=0.1", " urgent = 0.3", "routine=0.6"})
	require.NoError(t, err)
	assert.Equal(t, []sim.PriorityClass{
		{Name: "critical", Priority: 0, Weight: 0.1},
		{Name: "urgent", Priority: 1, Weight: 0.3},
		{Name: "routine", Priority: 2, Weight: 0.6},
	}, classes)
}

func TestParseClasses_Malformed(t *testing.T) {
	for _, entry := range []string{"critical", "=1", "critical=high"} {
		t.Run(entry, func(t *testing.T) {
			_, err := parseClasses([]string{entry})
			assert.Error(t, err)
		})
	}
}

func TestBuildWorkload_FromFlags(t *testing.T) {
	o := defaultOptions()
	o.classes = []string{"high=1", "low=2"}

	spec, err := buildWorkload(o, changedSet())
	require.NoError(t, err)

	cfg := spec.ToRunConfig()
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 2, cfg.NumServers)
	assert.Equal(t, 60.0, cfg.Horizon)
	assert.Equal(t, 5.0, cfg.MeanArrivalInterval)
	assert.Equal(t, 8.0, cfg.MeanServiceTime)
	require.Len(t, cfg.Classes, 2)
	assert.Equal(t, "high", cfg.Classes[0].Name)
}

func TestBuildWorkload_NoClasses_SingleDefaultClass(t *testing.T) {
	spec, err := buildWorkload(defaultOptions(), changedSet())
	require.NoError(t, err)

	cfg := spec.ToRunConfig()
	require.Len(t, cfg.Classes, 1)
	assert.Equal(t, workload.DefaultClassName, cfg.Classes[0].Name)
}

func TestBuildWorkload_FileWithOverrides(t *testing.T) {
	// GIVEN a workload file with seed 7 and 3 servers
	path := filepath.Join(t.TempDir(), "w.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
seed: 7
servers: 3
horizon: 100
arrival: {mean: 4}
service: {mean: 6}
`), 0o644))
	o := defaultOptions()
	o.workloadPath = path
	o.seed = 99

	// WHEN only --seed was set on the command line
	spec, err := buildWorkload(o, changedSet("seed"))
	require.NoError(t, err)

	// THEN the seed is overridden and the rest comes from the file
	cfg := spec.ToRunConfig()
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 3, cfg.NumServers)
	assert.Equal(t, 100.0, cfg.Horizon)
	assert.Equal(t, 4.0, cfg.MeanArrivalInterval)
}

func TestBuildWorkload_Invalid(t *testing.T) {
	o := defaultOptions()
	o.servers = 0

	_, err := buildWorkload(o, changedSet())

	assert.ErrorIs(t, err, sim.ErrInvalidParameter)
}
