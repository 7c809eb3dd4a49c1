package mem

import "encoding/binary"

// SparseMemory is a byte-granular map over the full 64-bit address space.
// Unwritten bytes read as zero, so any synthetic layout of allocations,
// escape slots and scratch ranges can be built without reserving storage.
// Not safe for concurrent use; the engine only touches memory inside the
// stopped window.
type SparseMemory struct {
	bytes map[uint64]byte
}

// NewSparse returns an empty sparse memory.
func NewSparse() *SparseMemory {
	return &SparseMemory{bytes: make(map[uint64]byte)}
}

// LoadWord reads the 8-byte little-endian word stored at address.
func (m *SparseMemory) LoadWord(address uint64) (uint64, error) {
	var buf [8]byte
	for i := range buf {
		buf[i] = m.bytes[address+uint64(i)]
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// StoreWord writes word at address as 8 little-endian bytes.
func (m *SparseMemory) StoreWord(address uint64, word uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], word)
	for i, b := range buf {
		if b == 0 {
			delete(m.bytes, address+uint64(i))
			continue
		}
		m.bytes[address+uint64(i)] = b
	}
	return nil
}

// Copy moves length bytes from src to dst through an intermediate buffer,
// so overlapping ranges behave like memmove.
func (m *SparseMemory) Copy(dst, src, length uint64) error {
	if length == 0 || dst == src {
		return nil
	}
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = m.bytes[src+uint64(i)]
	}
	for i, b := range buf {
		if b == 0 {
			delete(m.bytes, dst+uint64(i))
			continue
		}
		m.bytes[dst+uint64(i)] = b
	}
	return nil
}

// Footprint returns the number of non-zero bytes currently stored.
// Used by tests to assert that failed operations left memory untouched.
func (m *SparseMemory) Footprint() int {
	return len(m.bytes)
}
