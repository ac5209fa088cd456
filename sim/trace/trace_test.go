package trace

import (
	"testing"
)

func TestSimulationTrace_RecordArrival_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for lifecycle records
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelLifecycle})

	// WHEN an arrival record is recorded
	st.RecordArrival(ArrivalRecord{
		EntityID: "entity-1",
		Category: "urgent",
		Priority: 0,
		Clock:    1.5,
	})

	// THEN the trace contains one arrival record with correct data
	if len(st.Arrivals) != 1 {
		t.Fatalf("expected 1 arrival, got %d", len(st.Arrivals))
	}
	if st.Arrivals[0].EntityID != "entity-1" {
		t.Errorf("expected entity ID entity-1, got %s", st.Arrivals[0].EntityID)
	}
	if st.Arrivals[0].Clock != 1.5 {
		t.Errorf("expected clock 1.5, got %f", st.Arrivals[0].Clock)
	}
}

func TestSimulationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelLifecycle})

	// WHEN records are added for two entities
	st.RecordArrival(ArrivalRecord{EntityID: "entity-1", Clock: 0})
	st.RecordArrival(ArrivalRecord{EntityID: "entity-2", Clock: 1})
	st.RecordService(ServiceRecord{EntityID: "entity-1", Clock: 0, Wait: 0, Duration: 5})
	st.RecordDeparture(DepartureRecord{EntityID: "entity-1", Clock: 5})
	st.RecordService(ServiceRecord{EntityID: "entity-2", Clock: 5, Wait: 4, Duration: 5})

	// THEN each slice preserves insertion order
	if len(st.Arrivals) != 2 || st.Arrivals[0].EntityID != "entity-1" || st.Arrivals[1].EntityID != "entity-2" {
		t.Errorf("arrivals out of order: %+v", st.Arrivals)
	}
	if len(st.Services) != 2 || st.Services[1].Wait != 4 {
		t.Errorf("services out of order: %+v", st.Services)
	}
	if len(st.Departures) != 1 {
		t.Errorf("expected 1 departure, got %d", len(st.Departures))
	}
}

func TestSimulationTrace_Enabled(t *testing.T) {
	var nilTrace *SimulationTrace
	if nilTrace.Enabled() {
		t.Error("nil trace must not be enabled")
	}
	if NewSimulationTrace(TraceConfig{Level: TraceLevelNone}).Enabled() {
		t.Error("level none must not be enabled")
	}
	if !NewSimulationTrace(TraceConfig{Level: TraceLevelLifecycle}).Enabled() {
		t.Error("level lifecycle must be enabled")
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"", true},
		{"none", true},
		{"lifecycle", true},
		{"decisions", false},
		{"LIFECYCLE", false},
	}
	for _, tt := range tests {
		if got := IsValidTraceLevel(tt.level); got != tt.want {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
