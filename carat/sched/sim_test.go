package sched

import (
	"errors"
	"testing"
)

func TestStopWorldIsNonBlocking(t *testing.T) {
	w := NewSimWorld()
	if err := w.StopWorld(); err != nil {
		t.Fatalf("first StopWorld: %v", err)
	}
	if err := w.StopWorld(); !errors.Is(err, ErrBusy) {
		t.Fatalf("second StopWorld = %v, want ErrBusy", err)
	}
	w.StartWorld()
	if w.Stopped() {
		t.Fatal("world still stopped after StartWorld")
	}
	if err := w.StopWorld(); err != nil {
		t.Fatalf("StopWorld after release: %v", err)
	}
	w.StartWorld()
}

func TestForEachThreadVisitsAll(t *testing.T) {
	w := NewSimWorld()
	w.Spawn(1)
	w.Spawn(2)
	w.Spawn(3)

	var seen []uint64
	err := w.ForEachThread(func(th Thread) error {
		seen = append(seen, th.ID())
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachThread: %v", err)
	}
	if len(seen) != 3 || seen[0] != 1 || seen[1] != 2 || seen[2] != 3 {
		t.Fatalf("visited %v, want [1 2 3]", seen)
	}
}

func TestForEachThreadStopsOnError(t *testing.T) {
	w := NewSimWorld()
	w.Spawn(1)
	w.Spawn(2)

	boom := errors.New("boom")
	visits := 0
	err := w.ForEachThread(func(Thread) error {
		visits++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ForEachThread = %v, want boom", err)
	}
	if visits != 1 {
		t.Fatalf("visits = %d, want 1", visits)
	}
}

func TestArrayRegs(t *testing.T) {
	var regs ArrayRegs
	regs.Set(R15, 0x1000)
	if got := regs.Get(R15); got != 0x1000 {
		t.Fatalf("Get(R15) = %#x, want 0x1000", got)
	}
	if got := regs.Get(RAX); got != 0 {
		t.Fatalf("Get(RAX) = %#x, want 0", got)
	}
}

func TestGPRegsExcludeStackAndInstructionPointers(t *testing.T) {
	regs := GPRegs()
	if len(regs) != NumRegs {
		t.Fatalf("len(GPRegs) = %d, want %d", len(regs), NumRegs)
	}
	for _, r := range regs {
		name := r.String()
		if name == "rsp" || name == "rip" || name == "reg?" {
			t.Fatalf("unexpected register %q in patch set", name)
		}
	}
}
