// Package registry tracks live, independently relocatable allocations and
// the escape locations recorded against them.
//
// The registry is the authoritative map from an allocation's current base
// address to its metadata. It is keyed by current address rather than a
// stable id because a successful relocation changes the allocation's
// identity: the old key is removed and the new one inserted, carrying the
// escape set across unchanged in membership.
//
// An escape is the address of a pointer-sized storage slot known to have, at
// some point, held a value aliasing into the allocation. Escape facts are
// produced externally (compiler-inserted instrumentation); this package only
// stores and serves them. The set is a conservative superset of the slots
// that need rewriting during a move.
//
// The registry carries no locks of its own. During a relocation the whole
// machine is stopped and the move orchestrator is the sole mutator; outside
// a relocation, callers serialize access themselves.
package registry
