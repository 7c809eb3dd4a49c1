package registry

import "sort"

// Entry is the metadata for one live allocation: its current base address,
// its immutable byte length, and the set of escape locations recorded
// against it. Entries are owned exclusively by the Registry; pointers
// returned from Lookup are only valid while the caller holds the machine
// (inside a stopped-world window, or in single-threaded setup code).
type Entry struct {
	base    uint64
	length  uint64
	escapes map[uint64]struct{}
}

// Base returns the allocation's current start address.
func (e *Entry) Base() uint64 { return e.base }

// Length returns the allocation's size in bytes.
func (e *Entry) Length() uint64 { return e.length }

// AddEscape records location as a slot that may hold a pointer into the
// allocation. Adding an already-recorded location is a no-op.
func (e *Entry) AddEscape(location uint64) {
	e.escapes[location] = struct{}{}
}

// RemoveEscape drops a recorded escape location.
func (e *Entry) RemoveEscape(location uint64) {
	delete(e.escapes, location)
}

// HasEscape reports whether location is recorded against the allocation.
func (e *Entry) HasEscape(location uint64) bool {
	_, ok := e.escapes[location]
	return ok
}

// EscapeCount returns the number of recorded escape locations.
func (e *Entry) EscapeCount() int { return len(e.escapes) }

// Escapes returns the recorded escape locations in ascending order.
// Sorting keeps patch order, and therefore logs and tests, deterministic.
func (e *Entry) Escapes() []uint64 {
	out := make([]uint64, 0, len(e.escapes))
	for loc := range e.escapes {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
