package sim

import "errors"

var (
	// ErrInvalidParameter reports a non-positive rate, time or capacity, or a
	// malformed weight vector. Raised at configuration time, never mid-run.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEmptyQueue is returned by EventQueue.PopMin/PeekMin on an empty queue.
	// The run loop checks Len first, so seeing it means an engine bug.
	ErrEmptyQueue = errors.New("event queue is empty")

	// ErrCausalityViolation means an event was popped with a timestamp earlier
	// than the simulation clock. Fatal to the run.
	ErrCausalityViolation = errors.New("causality violation")

	// ErrDoubleRelease is returned when a claim is released a second time.
	// The second release is rejected and leaves the resource untouched.
	ErrDoubleRelease = errors.New("claim already released")

	// ErrInvalidTransition means a process received an event its current
	// state cannot accept.
	ErrInvalidTransition = errors.New("invalid process transition")
)
