package carat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerokernel/carat/carat/mem"
	"github.com/aerokernel/carat/carat/registry"
	"github.com/aerokernel/carat/carat/sched"
)

// newTestEngine builds an engine over sparse memory and a simulated world
// with the given number of threads.
func newTestEngine(threads int) (*Engine, *mem.SparseMemory, *sched.SimWorld) {
	m := mem.NewSparse()
	w := sched.NewSimWorld()
	for i := 0; i < threads; i++ {
		w.Spawn(uint64(i + 1))
	}
	return New(m, w, registry.New()), m, w
}

// TestRelocateWorkedExample pins the canonical scenario: allocation at
// 0x1000, length 64, escape slot at 0x5000 holding an interior pointer,
// one thread register holding the base. Also pins the copy direction:
// source contents end up at the target.
func TestRelocateWorkedExample(t *testing.T) {
	eng, m, w := newTestEngine(1)
	reg := eng.Registry()

	_, err := reg.Track(0x1000, 64)
	require.NoError(t, err)
	require.NoError(t, reg.RecordEscape(0x1000, 0x5000))

	require.NoError(t, m.StoreWord(0x5000, 0x1020))  // escape slot, offset 0x20
	require.NoError(t, m.StoreWord(0x1000, 0xCAFE))  // allocation contents
	require.NoError(t, m.StoreWord(0x1038, 0xF00D))  // last word of the range

	var thread *sched.SimThread
	require.NoError(t, w.ForEachThread(func(th sched.Thread) error {
		thread = th.(*sched.SimThread)
		return nil
	}))
	thread.Registers().Set(sched.RBX, 0x1000) // offset 0

	require.NoError(t, eng.Relocate(0x1000, 0x2000))

	slot, _ := m.LoadWord(0x5000)
	assert.Equal(t, uint64(0x2020), slot, "escape slot rebased by its offset")
	assert.Equal(t, uint64(0x2000), thread.Registers().Get(sched.RBX), "register rebased")

	_, ok := reg.Lookup(0x1000)
	assert.False(t, ok, "old base no longer tracked")
	moved, ok := reg.Lookup(0x2000)
	require.True(t, ok, "new base tracked")
	assert.Equal(t, uint64(64), moved.Length())
	assert.Equal(t, []uint64{0x5000}, moved.Escapes())

	head, _ := m.LoadWord(0x2000)
	tail, _ := m.LoadWord(0x2038)
	assert.Equal(t, uint64(0xCAFE), head, "source contents copied to target")
	assert.Equal(t, uint64(0xF00D), tail)

	assert.False(t, w.Stopped(), "world restarted")
}

func TestRelocateNotFoundTouchesNothing(t *testing.T) {
	eng, m, w := newTestEngine(1)
	reg := eng.Registry()

	_, err := reg.Track(0x1000, 64)
	require.NoError(t, err)
	require.NoError(t, reg.RecordEscape(0x1000, 0x5000))
	require.NoError(t, m.StoreWord(0x5000, 0x1020))
	before := m.Footprint()

	err = eng.Relocate(0x9000, 0x2000)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	assert.Equal(t, before, m.Footprint(), "memory untouched")
	slot, _ := m.LoadWord(0x5000)
	assert.Equal(t, uint64(0x1020), slot)
	_, ok := reg.Lookup(0x1000)
	assert.True(t, ok, "registry untouched")
	assert.False(t, w.Stopped(), "world restarted after abort")
}

func TestRelocateWorldBusy(t *testing.T) {
	eng, m, w := newTestEngine(0)
	_, err := eng.Registry().Track(0x1000, 64)
	require.NoError(t, err)
	require.NoError(t, m.StoreWord(0x1000, 0xAA))

	// Another stop-the-world operation is in flight.
	require.NoError(t, w.StopWorld())
	defer w.StartWorld()

	err = eng.Relocate(0x1000, 0x2000)
	assert.ErrorIs(t, err, ErrWorldBusy)
	assert.True(t, w.Stopped(), "engine must not release a window it does not own")

	word, _ := m.LoadWord(0x1000)
	assert.Equal(t, uint64(0xAA), word, "no state changed")
	_, ok := eng.Registry().Lookup(0x1000)
	assert.True(t, ok)
}

// TestRelocateRoundTrip moves A→B→A and verifies every slot and register is
// restored exactly.
func TestRelocateRoundTrip(t *testing.T) {
	eng, m, w := newTestEngine(2)
	reg := eng.Registry()

	_, err := reg.Track(0x1000, 64)
	require.NoError(t, err)
	require.NoError(t, reg.RecordEscape(0x1000, 0x5000))
	require.NoError(t, reg.RecordEscape(0x1000, 0x5010))

	require.NoError(t, m.StoreWord(0x5000, 0x1000))
	require.NoError(t, m.StoreWord(0x5010, 0x1038))
	require.NoError(t, m.StoreWord(0x1008, 0x1234))

	var threads []*sched.SimThread
	require.NoError(t, w.ForEachThread(func(th sched.Thread) error {
		threads = append(threads, th.(*sched.SimThread))
		return nil
	}))
	threads[0].Registers().Set(sched.RSI, 0x1010)
	threads[1].Registers().Set(sched.R12, 0x7777) // unrelated

	require.NoError(t, eng.Relocate(0x1000, 0x2000))
	require.NoError(t, eng.Relocate(0x2000, 0x1000))

	slot0, _ := m.LoadWord(0x5000)
	slot1, _ := m.LoadWord(0x5010)
	body, _ := m.LoadWord(0x1008)
	assert.Equal(t, uint64(0x1000), slot0)
	assert.Equal(t, uint64(0x1038), slot1)
	assert.Equal(t, uint64(0x1234), body)
	assert.Equal(t, uint64(0x1010), threads[0].Registers().Get(sched.RSI))
	assert.Equal(t, uint64(0x7777), threads[1].Registers().Get(sched.R12))

	e, ok := reg.Lookup(0x1000)
	require.True(t, ok)
	assert.Equal(t, []uint64{0x5000, 0x5010}, e.Escapes())
	assert.Equal(t, 1, reg.Len())
}

// TestRelocateCompleteness drives several escape slots (aliasing and not)
// and several threads (with and without aliasing registers) through one
// move and checks every value individually.
func TestRelocateCompleteness(t *testing.T) {
	eng, m, w := newTestEngine(3)
	reg := eng.Registry()

	const (
		source = uint64(0x1000)
		target = uint64(0x8000)
		length = uint64(128)
	)
	_, err := reg.Track(source, length)
	require.NoError(t, err)

	slots := map[uint64]uint64{
		0x5000: source,          // offset 0
		0x5008: source + 0x7F,   // last byte
		0x5010: source + length, // one past the end: must not be patched
		0x5018: 0x0FFF,          // just below base
		0x5020: 0xDEADBEEF,      // unrelated
	}
	for loc, val := range slots {
		require.NoError(t, reg.RecordEscape(source, loc))
		require.NoError(t, m.StoreWord(loc, val))
	}

	var threads []*sched.SimThread
	require.NoError(t, w.ForEachThread(func(th sched.Thread) error {
		threads = append(threads, th.(*sched.SimThread))
		return nil
	}))
	threads[0].Registers().Set(sched.RAX, source+0x10)
	threads[0].Registers().Set(sched.R15, source+length) // not aliasing
	threads[1].Registers().Set(sched.RBP, source)
	// threads[2] holds nothing related.
	threads[2].Registers().Set(sched.RDX, 0x4242)

	require.NoError(t, eng.Relocate(source, target))

	wantSlots := map[uint64]uint64{
		0x5000: target,
		0x5008: target + 0x7F,
		0x5010: source + length,
		0x5018: 0x0FFF,
		0x5020: 0xDEADBEEF,
	}
	for loc, want := range wantSlots {
		got, _ := m.LoadWord(loc)
		assert.Equal(t, want, got, "slot %#x", loc)
	}
	assert.Equal(t, target+0x10, threads[0].Registers().Get(sched.RAX))
	assert.Equal(t, source+length, threads[0].Registers().Get(sched.R15))
	assert.Equal(t, target, threads[1].Registers().Get(sched.RBP))
	assert.Equal(t, uint64(0x4242), threads[2].Registers().Get(sched.RDX))

	st := eng.Stats()
	assert.Equal(t, uint64(1), st.Attempts)
	assert.Equal(t, uint64(1), st.Committed)
	assert.Equal(t, uint64(0), st.Aborted)
	assert.Equal(t, uint64(2), st.EscapeSlotsPatched)
	assert.Equal(t, uint64(2), st.RegistersPatched)
}

func TestRelocateTargetCollision(t *testing.T) {
	eng, m, _ := newTestEngine(0)
	reg := eng.Registry()
	_, err := reg.Track(0x1000, 64)
	require.NoError(t, err)
	_, err = reg.Track(0x2000, 64)
	require.NoError(t, err)
	require.NoError(t, reg.RecordEscape(0x1000, 0x5000))
	require.NoError(t, m.StoreWord(0x5000, 0x1000))

	err = eng.Relocate(0x1000, 0x2000)
	assert.ErrorIs(t, err, ErrPatchFailure)

	slot, _ := m.LoadWord(0x5000)
	assert.Equal(t, uint64(0x1000), slot, "no pointer rewritten")
	assert.Equal(t, 2, reg.Len())
}

// TestRelocateOnArena runs a move against page-backed memory and exercises
// target validation: an unmapped target aborts before any pointer moves.
func TestRelocateOnArena(t *testing.T) {
	a, err := mem.NewArena(0x10000, 8192)
	require.NoError(t, err)
	defer a.Close()

	w := sched.NewSimWorld()
	th := w.Spawn(1)
	eng := New(a, w, registry.New())
	reg := eng.Registry()

	const (
		source = uint64(0x10000)
		target = uint64(0x11000)
		slot   = uint64(0x10800)
	)
	_, err = reg.Track(source, 64)
	require.NoError(t, err)
	require.NoError(t, reg.RecordEscape(source, slot))
	require.NoError(t, a.StoreWord(slot, source+8))
	require.NoError(t, a.StoreWord(source+8, 0xFEED))
	th.Registers().Set(sched.R10, source+8)

	// Unmapped target: abort with nothing rewritten.
	err = eng.Relocate(source, 0x40000)
	assert.ErrorIs(t, err, ErrPatchFailure)
	got, _ := a.LoadWord(slot)
	assert.Equal(t, source+8, got)
	assert.Equal(t, source+8, th.Registers().Get(sched.R10))
	assert.False(t, w.Stopped())

	// Mapped target: full move.
	require.NoError(t, eng.Relocate(source, target))
	got, _ = a.LoadWord(slot)
	assert.Equal(t, target+8, got)
	assert.Equal(t, target+8, th.Registers().Get(sched.R10))
	body, _ := a.LoadWord(target + 8)
	assert.Equal(t, uint64(0xFEED), body)
}

func TestStatsCountAborts(t *testing.T) {
	eng, _, _ := newTestEngine(0)
	assert.ErrorIs(t, eng.Relocate(0x1, 0x2), ErrEntryNotFound)
	st := eng.Stats()
	assert.Equal(t, uint64(1), st.Attempts)
	assert.Equal(t, uint64(1), st.Aborted)
	assert.Equal(t, uint64(0), st.Committed)
}
