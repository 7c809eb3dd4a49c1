package registry

import "errors"

var (
	// ErrNotTracked indicates the address is not the current base of any
	// tracked allocation. Interior pointers do not resolve.
	ErrNotTracked = errors.New("registry: address not tracked")

	// ErrAlreadyTracked indicates an allocation is already keyed at the address.
	ErrAlreadyTracked = errors.New("registry: address already tracked")

	// ErrZeroLength indicates an attempt to track an empty allocation.
	ErrZeroLength = errors.New("registry: zero-length allocation")
)
