package patch

import (
	"fmt"

	"github.com/aerokernel/carat/carat/mem"
	"github.com/aerokernel/carat/carat/registry"
	"github.com/aerokernel/carat/internal/addr"
)

// Escapes rewrites every escape slot of entry whose stored value aliases
// [entry.Base(), entry.Base()+entry.Length()) to point at the equivalent
// offset from target. It returns the number of slots rewritten.
//
// A load or store fault on an escape location is a structural error: the
// escape set has drifted from reality and the move must not proceed.
func Escapes(m mem.Memory, entry *registry.Entry, target uint64) (int, error) {
	patched := 0
	for _, loc := range entry.Escapes() {
		word, err := m.LoadWord(loc)
		if err != nil {
			return patched, fmt.Errorf("patch: read escape slot %#x: %w", loc, err)
		}
		off, ok := addr.AliasOffset(entry.Base(), entry.Length(), word)
		if !ok {
			continue
		}
		if err := m.StoreWord(loc, target+off); err != nil {
			return patched, fmt.Errorf("patch: rewrite escape slot %#x: %w", loc, err)
		}
		patched++
	}
	return patched, nil
}
