// Package patch rewrites outstanding references to a moving allocation.
//
// Two kinds of pointer storage exist: heap slots recorded as escape
// locations by compiler instrumentation, and the saved general-purpose
// registers of every live thread. Both are rewritten through the same
// aliasing rule, so interior pointers are rebased consistently: a value at
// offset o inside the old range becomes target+o.
//
// Patching is idempotent. Once a slot or register has been rewritten its
// value no longer aliases the source range, so a second pass over the same
// state is a no-op. Non-aliasing values are never touched; the escape set
// is a conservative superset of the slots that need rewriting.
//
// Callers must hold the stopped world; nothing here synchronizes.
package patch
