package sched

import "errors"

// ErrBusy indicates the world is already stopped by another caller.
var ErrBusy = errors.New("sched: world already stopped")

// Thread is one live execution context exposed by the scheduler.
type Thread interface {
	// ID identifies the thread for diagnostics.
	ID() uint64

	// Registers returns the thread's saved register snapshot. Valid only
	// while the world is stopped.
	Registers() RegisterFile
}

// Scheduler is the global pause and enumeration contract the relocation
// engine requires from the kernel scheduler.
type Scheduler interface {
	// StopWorld attempts to gain exclusive control of the machine. It does
	// not block: if the world is already stopped it returns ErrBusy
	// immediately. Every successful StopWorld must be paired with exactly
	// one StartWorld.
	StopWorld() error

	// StartWorld releases exclusive control and resumes execution.
	StartWorld()

	// ForEachThread calls visit for every live thread in the system. A
	// visit error aborts enumeration and is returned. Must be called only
	// while the world is stopped.
	ForEachThread(visit func(Thread) error) error
}
