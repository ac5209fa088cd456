package sim

import (
	"fmt"

	"github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/sirupsen/logrus"
)

// Claim is the handle a process gets back from PriorityResource.Request.
// It is either granted immediately, or queued until a slot frees up.
type Claim struct {
	process  Process
	priority int
	seq      uint64 // arrival sequence, FIFO tie-break within a priority
	granted  bool
	released bool
}

// Granted reports whether the claim currently holds (or held) a slot.
func (c *Claim) Granted() bool { return c.granted }

// Released reports whether the claim was released or withdrawn.
func (c *Claim) Released() bool { return c.released }

// Priority returns the priority the claim was requested with.
func (c *Claim) Priority() int { return c.priority }

// Seq returns the arrival sequence of the request.
func (c *Claim) Seq() uint64 { return c.seq }

// claimComparator orders waiting claims by (priority, seq): lower priority
// value first, then first-requested-first-served. The key is unique per
// claim, so the heap order is total and therefore stable.
func claimComparator(a, b interface{}) int {
	ca, cb := a.(*Claim), b.(*Claim)
	switch {
	case ca.priority < cb.priority:
		return -1
	case ca.priority > cb.priority:
		return 1
	case ca.seq < cb.seq:
		return -1
	case ca.seq > cb.seq:
		return 1
	default:
		return 0
	}
}

// PriorityResource is a capacity-limited shared resource with a
// priority-ordered, FIFO-within-priority wait queue.
// A waiting request never evicts a holder: priority only orders the queue.
type PriorityResource struct {
	sim       *Simulator
	capacity  int
	inUse     int
	peakInUse int
	waiting   int // queued claims not yet withdrawn
	nextSeq   uint64
	waitQueue *priorityqueue.Queue
}

// NewPriorityResource creates a resource with the given capacity whose grants
// are delivered through sim.
// Panics if sim is nil or capacity < 1.
func NewPriorityResource(sim *Simulator, capacity int) *PriorityResource {
	if sim == nil {
		panic("NewPriorityResource: sim must not be nil")
	}
	if capacity < 1 {
		panic(fmt.Sprintf("NewPriorityResource: capacity must be >= 1, got %d", capacity))
	}
	return &PriorityResource{
		sim:       sim,
		capacity:  capacity,
		waitQueue: priorityqueue.NewWith(claimComparator),
	}
}

// Capacity returns the number of slots.
func (r *PriorityResource) Capacity() int { return r.capacity }

// InUse returns the number of slots currently held.
func (r *PriorityResource) InUse() int { return r.inUse }

// PeakInUse returns the highest InUse observed during the run.
func (r *PriorityResource) PeakInUse() int { return r.peakInUse }

// QueueLen returns the number of requests waiting for a slot.
func (r *PriorityResource) QueueLen() int { return r.waiting }

// Request asks for one slot at the given priority (lower value is served
// first). If a slot is free the claim is granted synchronously and the
// second return value is true. Otherwise the claim is queued and p will be
// resumed with an EventResourceGrant once a slot is handed to it.
func (r *PriorityResource) Request(p Process, priority int) (*Claim, bool) {
	c := &Claim{process: p, priority: priority, seq: r.nextSeq}
	r.nextSeq++

	if r.inUse < r.capacity {
		r.take(c)
		return c, true
	}
	r.waitQueue.Enqueue(c)
	r.waiting++
	logrus.Debugf("[t=%010.4f] %s queued at priority %d (%d waiting)", r.sim.Clock, p.Name(), priority, r.waiting)
	return c, false
}

// Release gives the claim's slot back and hands it to the best waiter, if any.
// Releasing a claim that is still queued withdraws it from the queue.
// A second release of the same claim fails with ErrDoubleRelease and changes nothing.
func (r *PriorityResource) Release(c *Claim) error {
	if c == nil {
		return fmt.Errorf("%w: nil claim", ErrInvalidParameter)
	}
	if c.released {
		return fmt.Errorf("%w: %s (priority %d, seq %d)", ErrDoubleRelease, c.process.Name(), c.priority, c.seq)
	}
	c.released = true
	if !c.granted {
		// lazily dropped when it reaches the head of the queue
		r.waiting--
		return nil
	}
	r.inUse--
	r.grantNext()
	return nil
}

func (r *PriorityResource) take(c *Claim) {
	c.granted = true
	r.inUse++
	if r.inUse > r.peakInUse {
		r.peakInUse = r.inUse
	}
}

func (r *PriorityResource) grantNext() {
	for r.inUse < r.capacity {
		v, ok := r.waitQueue.Dequeue()
		if !ok {
			return
		}
		c := v.(*Claim)
		if c.released {
			continue
		}
		r.waiting--
		r.take(c)
		r.sim.grant(c.process)
	}
}
