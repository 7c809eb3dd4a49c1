package mem

import "errors"

var (
	// ErrRange indicates an access outside the mapped region.
	ErrRange = errors.New("mem: address range not mapped")

	// ErrZeroSize indicates an arena was requested with no usable size.
	ErrZeroSize = errors.New("mem: zero-size region")
)

// Memory is a word-addressed, byte-copyable view of an address space.
// Implementations must give Copy memmove semantics: overlapping source and
// destination ranges copy as if through an intermediate buffer.
type Memory interface {
	// LoadWord reads the 8-byte little-endian word stored at address.
	LoadWord(address uint64) (uint64, error)

	// StoreWord writes word at address as 8 little-endian bytes.
	StoreWord(address uint64, word uint64) error

	// Copy moves length bytes from src to dst. Overlap-safe.
	Copy(dst, src, length uint64) error
}
