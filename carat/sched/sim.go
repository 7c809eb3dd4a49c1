package sched

import "sync/atomic"

// SimWorld is an in-process Scheduler over a fixed set of simulated
// threads. The stop-the-world gate is a single CAS, giving the same
// non-blocking try-acquire semantics the kernel scheduler provides.
type SimWorld struct {
	stopped atomic.Bool
	threads []*SimThread
}

// NewSimWorld returns a world with no threads.
func NewSimWorld() *SimWorld {
	return &SimWorld{}
}

// Spawn adds a thread and returns it. Threads are only added during setup,
// before any relocation runs.
func (w *SimWorld) Spawn(id uint64) *SimThread {
	t := &SimThread{id: id}
	w.threads = append(w.threads, t)
	return t
}

// StopWorld attempts to stop the world; ErrBusy if already stopped.
func (w *SimWorld) StopWorld() error {
	if !w.stopped.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

// StartWorld resumes the world.
func (w *SimWorld) StartWorld() {
	w.stopped.Store(false)
}

// Stopped reports whether the world is currently stopped.
func (w *SimWorld) Stopped() bool {
	return w.stopped.Load()
}

// ForEachThread visits every thread in spawn order.
func (w *SimWorld) ForEachThread(visit func(Thread) error) error {
	for _, t := range w.threads {
		if err := visit(t); err != nil {
			return err
		}
	}
	return nil
}

// SimThread is one simulated execution context.
type SimThread struct {
	id   uint64
	regs ArrayRegs
}

func (t *SimThread) ID() uint64 { return t.id }

func (t *SimThread) Registers() RegisterFile { return &t.regs }
