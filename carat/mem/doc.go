// Package mem provides word-addressed views of the single address space the
// relocation engine operates on.
//
// The engine reads and rewrites pointer-sized slots at recorded escape
// locations and bulk-copies allocation contents; both go through the Memory
// interface so the same patching code runs against a real page-backed arena
// and against sparse synthetic layouts in tests and tooling.
//
// Two implementations are provided:
//
//   - Arena: a fixed-size, page-aligned region backed by anonymous mmap,
//     exposed at a caller-chosen base address. Out-of-range access fails.
//   - SparseMemory: a byte-granular map over the full 64-bit space where
//     unwritten bytes read as zero. Used by tests and the caratctl demo.
//
// Words are little-endian and 8 bytes wide; any byte address may hold a
// word, alignment is not enforced.
package mem
