package mem

import (
	"encoding/binary"
	"fmt"

	"github.com/aerokernel/carat/internal/addr"
)

// Arena is a fixed-size region of the simulated physical address space,
// backed by anonymous pages and exposed at a caller-chosen base address.
// Accesses outside [base, base+size) fail with ErrRange.
type Arena struct {
	base    uint64
	data    []byte
	cleanup func() error
}

// NewArena maps size bytes (rounded up to a page) and exposes them starting
// at base. The caller must Close the arena to release the mapping.
func NewArena(base, size uint64) (*Arena, error) {
	mapped := addr.AlignPage(size)
	if mapped == 0 {
		return nil, ErrZeroSize
	}
	if base+mapped < base {
		return nil, fmt.Errorf("mem: arena [%#x, +%#x) wraps the address space: %w", base, mapped, ErrRange)
	}
	data, cleanup, err := mapAnon(int(mapped))
	if err != nil {
		return nil, fmt.Errorf("mem: map arena: %w", err)
	}
	return &Arena{base: base, data: data, cleanup: cleanup}, nil
}

// Base returns the first address of the arena.
func (a *Arena) Base() uint64 { return a.base }

// Size returns the mapped size in bytes.
func (a *Arena) Size() uint64 { return uint64(len(a.data)) }

// Close releases the backing mapping. The arena must not be used afterwards.
func (a *Arena) Close() error {
	if a.cleanup == nil {
		return nil
	}
	err := a.cleanup()
	a.cleanup = nil
	a.data = nil
	return err
}

// slice returns the n bytes of backing store at address, or ErrRange.
func (a *Arena) slice(address, n uint64) ([]byte, error) {
	off, ok := addr.AliasOffset(a.base, uint64(len(a.data)), address)
	if !ok || n > uint64(len(a.data))-off {
		return nil, fmt.Errorf("mem: [%#x, +%#x) outside arena [%#x, +%#x): %w",
			address, n, a.base, len(a.data), ErrRange)
	}
	return a.data[off : off+n], nil
}

// LoadWord reads the 8-byte little-endian word stored at address.
func (a *Arena) LoadWord(address uint64) (uint64, error) {
	s, err := a.slice(address, addr.WordSize)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(s), nil
}

// StoreWord writes word at address as 8 little-endian bytes.
func (a *Arena) StoreWord(address uint64, word uint64) error {
	s, err := a.slice(address, addr.WordSize)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(s, word)
	return nil
}

// Copy moves length bytes from src to dst. Both ranges must lie inside the
// arena; the bounds are checked before any byte moves, so a failed Copy
// leaves contents untouched. The builtin copy has memmove semantics, so
// overlapping ranges are safe.
func (a *Arena) Copy(dst, src, length uint64) error {
	if length == 0 || dst == src {
		if _, err := a.slice(dst, length); err != nil {
			return err
		}
		return nil
	}
	s, err := a.slice(src, length)
	if err != nil {
		return err
	}
	d, err := a.slice(dst, length)
	if err != nil {
		return err
	}
	copy(d, s)
	return nil
}
