// Package carat implements runtime allocation relocation: moving a live
// memory allocation to a new address while rewriting every outstanding
// reference to the old one.
//
// # Overview
//
// References to a moving allocation live in two places: heap slots recorded
// as escape locations by compiler instrumentation, and the saved
// general-purpose registers of every live thread. A move must rewrite both,
// copy the allocation's bytes, and re-key the allocation registry, without
// any other code ever observing a half-patched pointer.
//
// Atomicity comes from a single coarse mechanism: the entire move executes
// inside a stop-the-world window obtained from the scheduler. No per-entry
// or per-register locking exists; while the world is stopped the engine is
// the sole mutator of the registry, the heap and every register snapshot.
// Fine-grained locking is deliberately not used, since it would reintroduce
// the mid-rewrite races the global pause exists to rule out.
//
// # Move protocol
//
// Relocate runs a fixed sequence: stop the world, resolve the source entry,
// validate the target range, patch escape slots, patch every thread's
// registers, copy source contents to the target, re-key the registry,
// restart the world. Failures before the copy abort cleanly: the allocation
// is still valid at its original address (patching is idempotent and
// nothing else ran, so nothing observed partial state). A re-key failure
// after the copy is fatal; memory has physically moved and the registry no
// longer reflects reality.
//
// # Usage
//
//	reg := registry.New()
//	eng := carat.New(memory, scheduler, reg)
//
//	entry, _ := reg.Track(base, length)     // allocation tracker
//	reg.RecordEscape(base, slotAddr)        // compiler instrumentation
//
//	if err := eng.Relocate(base, newBase); err != nil {
//		// ErrWorldBusy, ErrEntryNotFound, ErrPatchFailure, ErrCommitFailed
//	}
//
// Relocating allocations that contain thread stacks or code is not
// supported; rsp, rip and values spilled to stacks are outside the patch
// set (see package sched).
package carat
