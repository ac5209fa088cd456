// Package trace provides per-entity lifecycle recording for a simulation run.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// ArrivalRecord captures an entity entering the system.
type ArrivalRecord struct {
	EntityID string
	Category string
	Priority int
	Clock    float64
}

// ServiceRecord captures an entity being granted a server.
type ServiceRecord struct {
	EntityID string
	Category string
	Clock    float64
	Wait     float64 // Clock - arrival time
	Duration float64 // drawn service duration
}

// DepartureRecord captures an entity releasing its server and leaving.
type DepartureRecord struct {
	EntityID string
	Category string
	Clock    float64
}
