// Package sim provides the core discrete-event simulation engine for erqsim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - entity.go: Entity lifecycle (arrival → wait → service → departure) as an explicit state machine
//   - queue.go: the EventQueue, ordered by (time, sequence)
//   - simulator.go: the clock and the run loop that dispatches events to processes
//   - resource.go: the PriorityResource servers entities contend for
//
// # Architecture
//
// Exactly one process executes at any simulated instant. A process runs only
// inside Process.Resume and suspends in one of two ways: by scheduling a timer
// (Simulator.ScheduleAfter) or by waiting on a PriorityResource claim. Both end
// with an Event pushed on the EventQueue; the run loop pops events in
// (Time, Seq) order, so a run is a deterministic function of its RunConfig.
//
// Randomness comes only from VariateSource instances derived from one
// PartitionedRNG, one stream per subsystem (arrivals, service, triage).
//
// Sub-packages:
//   - sim/trace/: per-entity lifecycle records (pure data)
//   - sim/workload/: YAML workload files → RunConfig
//   - sim/results/: SQLite persistence of run results
//
// # Entry points
//
// ConfigureRun validates a RunConfig and returns a RunHandle; Execute runs it
// and returns an immutable RunResult. Hooks (hook.go) observe the engine
// without influencing it.
package sim
