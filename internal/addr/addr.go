package addr

// Pointer and page arithmetic shared by the relocation engine.
// All aliasing decisions in the engine go through AliasOffset so that heap
// slots and register values are tested, and interior pointers rebased, by
// exactly the same rule.

const (
	// WordSize is the size in bytes of a pointer-sized memory slot.
	WordSize = 8

	// PageSize is the backing-store granularity used by the arena (4KB).
	PageSize = 4096

	pageMask = PageSize - 1
)

// AliasOffset reports whether candidate points into [base, base+length) and,
// if so, at what byte offset.
//
// The check is computed as candidate-base compared against length, so it
// cannot wrap even when base+length would overflow at the top of the 64-bit
// address space. The upper bound is exclusive: candidate == base+length does
// not alias.
//
// Example:
//
//	AliasOffset(0x1000, 64, 0x1020) = (0x20, true)
//	AliasOffset(0x1000, 64, 0x1040) = (0, false)
func AliasOffset(base, length, candidate uint64) (uint64, bool) {
	if candidate < base {
		return 0, false
	}
	off := candidate - base
	if off >= length {
		return 0, false
	}
	return off, true
}

// AlignPage returns n aligned up to the next 4KB boundary.
// Used for sizing arena mappings, which are page-granular.
//
// Example:
//
//	AlignPage(1)    = 4096
//	AlignPage(4096) = 4096
//	AlignPage(4097) = 8192
func AlignPage(n uint64) uint64 {
	return (n + pageMask) &^ uint64(pageMask)
}
