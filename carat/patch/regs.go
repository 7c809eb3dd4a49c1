package patch

import (
	"fmt"

	"github.com/aerokernel/carat/carat/sched"
	"github.com/aerokernel/carat/internal/addr"
)

// Registers rewrites every general-purpose register in rf whose value
// aliases [source, source+length) to target plus the same offset, and
// returns the number of registers rewritten.
func Registers(rf sched.RegisterFile, source, length, target uint64) int {
	patched := 0
	for _, r := range sched.GPRegs() {
		off, ok := addr.AliasOffset(source, length, rf.Get(r))
		if !ok {
			continue
		}
		rf.Set(r, target+off)
		patched++
	}
	return patched
}

// AllThreads drives Registers over every thread the scheduler knows about.
// Every thread is visited regardless of which thread requested the move;
// any thread may hold a cached copy of the old address. An enumeration
// failure fails the whole phase.
func AllThreads(s sched.Scheduler, source, length, target uint64) (int, error) {
	total := 0
	err := s.ForEachThread(func(t sched.Thread) error {
		total += Registers(t.Registers(), source, length, target)
		return nil
	})
	if err != nil {
		return total, fmt.Errorf("patch: thread registers: %w", err)
	}
	return total, nil
}
