package sim

import "fmt"

// EventKind tells a process why it is being resumed.
type EventKind int

const (
	// EventTimer fires when a delay requested through ScheduleAfter (or a
	// zero-delay activation from Spawn) elapses.
	EventTimer EventKind = iota
	// EventResourceGrant fires when a PriorityResource hands a freed slot to
	// a waiting process.
	EventResourceGrant
)

func (k EventKind) String() string {
	switch k {
	case EventTimer:
		return "Timer"
	case EventResourceGrant:
		return "ResourceGrant"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a scheduled wake-up of a process.
// Events are ordered by Time, then by Seq (insertion order), so events at an
// identical timestamp fire in the order they were pushed.
// An event is consumed exactly once and never reused.
type Event struct {
	Time    float64   // simulated time at which the event fires
	Seq     uint64    // assigned by EventQueue.Push
	Kind    EventKind // why the process is resumed
	Process Process   // the process to resume
}

func (e *Event) String() string {
	return fmt.Sprintf("%s@%.4f#%d(%s)", e.Kind, e.Time, e.Seq, e.Process.Name())
}

// before reports whether e fires before o.
func (e *Event) before(o *Event) bool {
	if e.Time != o.Time {
		return e.Time < o.Time
	}
	return e.Seq < o.Seq
}
