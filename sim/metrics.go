// Tracks per-run wait times and resource busy time.

package sim

// RunResult is the output of a completed run. It is a snapshot: nothing in
// the engine holds a reference to it, so it stays fixed once returned.
type RunResult struct {
	// WaitTimesByCategory holds, per priority class, the waits in the order
	// entities were granted a server.
	WaitTimesByCategory map[string][]float64 `yaml:"wait_times_by_category"`
	// TotalResourceBusyTime is the sum of completed service durations.
	TotalResourceBusyTime float64 `yaml:"total_resource_busy_time"`
	// SimulationEndTime is the clock value when the run stopped.
	SimulationEndTime float64 `yaml:"simulation_end_time"`
	// Arrivals counts entities that arrived.
	Arrivals int `yaml:"arrivals"`
	// Departures counts entities that released their server and left.
	Departures int `yaml:"departures"`
}

// Metrics accumulates the raw observations of a single run.
// No aggregation (means, utilization) happens here; consumers of RunResult
// do that.
type Metrics struct {
	waits      map[string][]float64
	busy       float64
	arrivals   int
	departures int
}

// NewMetrics creates a collector. Listed categories appear in the snapshot
// even when nobody from them was served.
func NewMetrics(categories ...string) *Metrics {
	m := &Metrics{waits: make(map[string][]float64, len(categories))}
	for _, c := range categories {
		m.waits[c] = []float64{}
	}
	return m
}

// RecordWait appends a wait duration to the category's sequence.
func (m *Metrics) RecordWait(category string, duration float64) {
	m.waits[category] = append(m.waits[category], duration)
}

// RecordBusy adds a completed service duration to the busy total.
func (m *Metrics) RecordBusy(duration float64) {
	m.busy += duration
}

// RecordArrival counts an arrival.
func (m *Metrics) RecordArrival() {
	m.arrivals++
}

// RecordDeparture counts a departure.
func (m *Metrics) RecordDeparture() {
	m.departures++
}

// Snapshot returns a deep copy of the observations with the given end time.
func (m *Metrics) Snapshot(endTime float64) *RunResult {
	waits := make(map[string][]float64, len(m.waits))
	for c, w := range m.waits {
		waits[c] = append([]float64(nil), w...)
		if waits[c] == nil {
			waits[c] = []float64{}
		}
	}
	return &RunResult{
		WaitTimesByCategory:   waits,
		TotalResourceBusyTime: m.busy,
		SimulationEndTime:     endTime,
		Arrivals:              m.arrivals,
		Departures:            m.departures,
	}
}
