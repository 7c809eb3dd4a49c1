package carat

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/aerokernel/carat/carat/mem"
	"github.com/aerokernel/carat/carat/patch"
	"github.com/aerokernel/carat/carat/registry"
	"github.com/aerokernel/carat/carat/sched"
)

// Engine is the move orchestrator. It owns no state of its own beyond
// counters; the registry, memory view and scheduler are collaborators bound
// at construction.
type Engine struct {
	mem   mem.Memory
	sched sched.Scheduler
	reg   *registry.Registry
	log   *slog.Logger

	attempts  atomic.Uint64
	committed atomic.Uint64
	aborted   atomic.Uint64
	slots     atomic.Uint64
	regs      atomic.Uint64
}

// MoveStats is a snapshot of the engine's counters.
type MoveStats struct {
	Attempts           uint64
	Committed          uint64
	Aborted            uint64
	EscapeSlotsPatched uint64
	RegistersPatched   uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine diagnostics to l. By default all output is
// discarded.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New binds an engine to its collaborators.
func New(m mem.Memory, s sched.Scheduler, r *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		mem:   m,
		sched: s,
		reg:   r,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's allocation registry, for the allocation
// tracker and escape producer to populate.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// Stats returns a snapshot of the engine's counters.
func (e *Engine) Stats() MoveStats {
	return MoveStats{
		Attempts:           e.attempts.Load(),
		Committed:          e.committed.Load(),
		Aborted:            e.aborted.Load(),
		EscapeSlotsPatched: e.slots.Load(),
		RegistersPatched:   e.regs.Load(),
	}
}

// Relocate moves the allocation whose current base is source so that it
// lives at target, rewriting every escape slot and every thread register
// that aliases it. The whole operation runs inside one stop-the-world
// window; on any error before the copy the machine is restarted with the
// allocation untouched at source.
func (e *Engine) Relocate(source, target uint64) error {
	e.attempts.Add(1)

	if err := e.sched.StopWorld(); err != nil {
		e.aborted.Add(1)
		return fmt.Errorf("%w: %v", ErrWorldBusy, err)
	}
	defer e.sched.StartWorld()

	entry, ok := e.reg.Lookup(source)
	if !ok {
		e.aborted.Add(1)
		return fmt.Errorf("%w: %#x", ErrEntryNotFound, source)
	}
	length := entry.Length()

	// Validate the target range before any pointer is rewritten. A self
	// copy probes addressability without changing a byte.
	if err := e.mem.Copy(target, target, length); err != nil {
		e.aborted.Add(1)
		e.log.Warn("relocation target not addressable",
			"source", hex(source), "target", hex(target), "length", length, "err", err)
		return fmt.Errorf("%w: target range: %v", ErrPatchFailure, err)
	}
	if _, taken := e.reg.Lookup(target); taken && target != source {
		e.aborted.Add(1)
		return fmt.Errorf("%w: target %#x is a tracked allocation", ErrPatchFailure, target)
	}

	nslots, err := patch.Escapes(e.mem, entry, target)
	if err != nil {
		e.aborted.Add(1)
		e.log.Warn("escape patch failed; bookkeeping has drifted",
			"source", hex(source), "target", hex(target), "err", err)
		return fmt.Errorf("%w: %v", ErrPatchFailure, err)
	}

	nregs, err := patch.AllThreads(e.sched, source, length, target)
	if err != nil {
		e.aborted.Add(1)
		e.log.Warn("register patch failed; bookkeeping has drifted",
			"source", hex(source), "target", hex(target), "err", err)
		return fmt.Errorf("%w: %v", ErrPatchFailure, err)
	}

	// Point of no return: move the bytes, source contents to target.
	if err := e.mem.Copy(target, source, length); err != nil {
		e.aborted.Add(1)
		e.log.Error("copy failed after patching; pointers already rebased",
			"source", hex(source), "target", hex(target), "err", err)
		return fmt.Errorf("%w: copy: %v", ErrCommitFailed, err)
	}

	if err := e.reg.Rekey(source, target); err != nil {
		e.aborted.Add(1)
		e.log.Error("re-key failed after copy; registry no longer reflects memory",
			"source", hex(source), "target", hex(target), "err", err)
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	e.committed.Add(1)
	e.slots.Add(uint64(nslots))
	e.regs.Add(uint64(nregs))
	e.log.Debug("relocated allocation",
		"source", hex(source), "target", hex(target), "length", length,
		"escape_slots", nslots, "registers", nregs)
	return nil
}

func hex(v uint64) string { return fmt.Sprintf("%#x", v) }
