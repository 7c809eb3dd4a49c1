//go:build !unix

package mem

// mapAnon falls back to heap-allocated storage on platforms without
// anonymous mmap support.
func mapAnon(size int) ([]byte, func() error, error) {
	return make([]byte, size), func() error { return nil }, nil
}
