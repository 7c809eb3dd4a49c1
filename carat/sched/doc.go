// Package sched defines the scheduler boundary the relocation engine
// depends on: stop-the-world control, thread enumeration, and named access
// to each thread's saved general-purpose registers.
//
// The engine consumes these interfaces; the kernel scheduler provides them.
// SimWorld is an in-process implementation used by tests and by caratctl.
//
// Register coverage is the full integer register file minus rsp and rip.
// Relocating an allocation that contains a thread's own stack or code would
// additionally require stack-pointer/instruction-pointer rewriting and a
// walk of values already spilled below the saved snapshot; that belongs to
// a stack-walking collaborator and is deliberately not handled here.
package sched
