package carat

import "errors"

var (
	// ErrWorldBusy indicates exclusive machine control could not be
	// acquired. Nothing changed; the caller may retry later.
	ErrWorldBusy = errors.New("carat: world already stopped")

	// ErrEntryNotFound indicates the source address is not the current base
	// of any tracked allocation. Nothing changed.
	ErrEntryNotFound = errors.New("carat: no allocation entry at source address")

	// ErrPatchFailure indicates the move could not complete before any byte
	// was copied: target validation, escape patching or register patching
	// failed. The allocation remains valid at its original address. It is
	// logged as a kernel-level warning because it means escape or register
	// bookkeeping has drifted from reality.
	ErrPatchFailure = errors.New("carat: patch failure")

	// ErrCommitFailed indicates a failure at or after the physical copy:
	// pointers have already been rebased to the target but the move did not
	// commit. The system is inconsistent; this is fatal, not recoverable.
	ErrCommitFailed = errors.New("carat: commit failed after copy")
)
