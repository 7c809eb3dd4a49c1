package registry

import "fmt"

// Registry maps each tracked allocation's current base address to its Entry.
type Registry struct {
	entries map[uint64]*Entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[uint64]*Entry)}
}

// Track registers a new allocation at base. The external allocation tracker
// calls this when an allocation becomes trackable; the relocation engine
// itself never creates entries.
func (r *Registry) Track(base, length uint64) (*Entry, error) {
	if length == 0 {
		return nil, ErrZeroLength
	}
	if _, ok := r.entries[base]; ok {
		return nil, fmt.Errorf("%w: %#x", ErrAlreadyTracked, base)
	}
	e := &Entry{base: base, length: length, escapes: make(map[uint64]struct{})}
	r.entries[base] = e
	return e, nil
}

// Untrack removes the allocation keyed at base, discarding its escape set.
func (r *Registry) Untrack(base uint64) error {
	if _, ok := r.entries[base]; !ok {
		return fmt.Errorf("%w: %#x", ErrNotTracked, base)
	}
	delete(r.entries, base)
	return nil
}

// Lookup returns the entry whose current base is exactly address. Interior
// pointers are not resolved; a miss is a normal caller-visible condition.
func (r *Registry) Lookup(address uint64) (*Entry, bool) {
	e, ok := r.entries[address]
	return e, ok
}

// RecordEscape records an escape location against the allocation keyed at
// base. This is the producer-side entry point for compiler-inserted
// instrumentation.
func (r *Registry) RecordEscape(base, location uint64) error {
	e, ok := r.entries[base]
	if !ok {
		return fmt.Errorf("%w: %#x", ErrNotTracked, base)
	}
	e.AddEscape(location)
	return nil
}

// Rekey moves the allocation keyed at old to new, preserving its escape set.
// The new entry carries the escape set before it becomes visible in the map,
// so there is no state, even transiently, in which the new key exists
// without its escapes. Must be called only while the world is stopped.
func (r *Registry) Rekey(old, new uint64) error {
	e, ok := r.entries[old]
	if !ok {
		return fmt.Errorf("%w: %#x", ErrNotTracked, old)
	}
	if old == new {
		return nil
	}
	if _, taken := r.entries[new]; taken {
		return fmt.Errorf("%w: %#x", ErrAlreadyTracked, new)
	}
	r.entries[new] = &Entry{base: new, length: e.length, escapes: e.escapes}
	delete(r.entries, old)
	return nil
}

// Len returns the number of tracked allocations.
func (r *Registry) Len() int { return len(r.entries) }
