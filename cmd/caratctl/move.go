package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aerokernel/carat/carat"
	"github.com/aerokernel/carat/carat/mem"
	"github.com/aerokernel/carat/carat/registry"
	"github.com/aerokernel/carat/carat/sched"
)

var (
	moveSource uint64
	moveTarget uint64
	moveLength uint64
	moveSlots  []string
	moveRegs   []string
)

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Relocate a synthetic allocation and print the patched state",
	Long: `move tracks one allocation in a sparse address space, plants escape
slots and thread registers from the --slot and --reg flags, relocates the
allocation, and prints every slot and register before and after.

Addresses and values accept any Go integer literal (0x1000, 4096).`,
	Example: `  caratctl move --source 0x1000 --length 64 --target 0x2000 \
      --slot 0x5000=0x1020 --reg 1:rbx=0x1000`,
	RunE: runMove,
}

func init() {
	moveCmd.Flags().Uint64Var(&moveSource, "source", 0x1000, "Current base address of the allocation")
	moveCmd.Flags().Uint64Var(&moveTarget, "target", 0x2000, "Address to relocate the allocation to")
	moveCmd.Flags().Uint64Var(&moveLength, "length", 64, "Allocation length in bytes")
	moveCmd.Flags().StringArrayVar(&moveSlots, "slot", nil, "Escape slot as addr=value (repeatable)")
	moveCmd.Flags().StringArrayVar(&moveRegs, "reg", nil, "Thread register as thread:reg=value (repeatable)")
	rootCmd.AddCommand(moveCmd)
}

// regByName maps the flag spelling to a register.
var regByName = func() map[string]sched.Reg {
	m := make(map[string]sched.Reg, sched.NumRegs)
	for _, r := range sched.GPRegs() {
		m[r.String()] = r
	}
	return m
}()

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(s), 0, 64)
}

// parseSlot parses "addr=value".
func parseSlot(s string) (loc, val uint64, err error) {
	lhs, rhs, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, fmt.Errorf("slot %q: want addr=value", s)
	}
	if loc, err = parseUint(lhs); err != nil {
		return 0, 0, fmt.Errorf("slot %q: %v", s, err)
	}
	if val, err = parseUint(rhs); err != nil {
		return 0, 0, fmt.Errorf("slot %q: %v", s, err)
	}
	return loc, val, nil
}

// parseReg parses "thread:reg=value".
func parseReg(s string) (thread uint64, r sched.Reg, val uint64, err error) {
	spec, rhs, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, 0, fmt.Errorf("reg %q: want thread:reg=value", s)
	}
	tid, name, ok := strings.Cut(spec, ":")
	if !ok {
		return 0, 0, 0, fmt.Errorf("reg %q: want thread:reg=value", s)
	}
	if thread, err = parseUint(tid); err != nil {
		return 0, 0, 0, fmt.Errorf("reg %q: %v", s, err)
	}
	r, found := regByName[strings.ToLower(strings.TrimSpace(name))]
	if !found {
		return 0, 0, 0, fmt.Errorf("reg %q: unknown register %q", s, name)
	}
	if val, err = parseUint(rhs); err != nil {
		return 0, 0, 0, fmt.Errorf("reg %q: %v", s, err)
	}
	return thread, r, val, nil
}

func runMove(cmd *cobra.Command, _ []string) error {
	m := mem.NewSparse()
	world := sched.NewSimWorld()
	reg := registry.New()
	eng := carat.New(m, world, reg, carat.WithLogger(newLogger()))

	if _, err := reg.Track(moveSource, moveLength); err != nil {
		return err
	}

	slotLocs := make([]uint64, 0, len(moveSlots))
	for _, s := range moveSlots {
		loc, val, err := parseSlot(s)
		if err != nil {
			return err
		}
		if err := reg.RecordEscape(moveSource, loc); err != nil {
			return err
		}
		if err := m.StoreWord(loc, val); err != nil {
			return err
		}
		slotLocs = append(slotLocs, loc)
	}

	threads := make(map[uint64]*sched.SimThread)
	for _, s := range moveRegs {
		tid, r, val, err := parseReg(s)
		if err != nil {
			return err
		}
		th, ok := threads[tid]
		if !ok {
			th = world.Spawn(tid)
			threads[tid] = th
		}
		th.Registers().Set(r, val)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "relocating [%#x, +%#x) -> %#x\n", moveSource, moveLength, moveTarget)
	if err := eng.Relocate(moveSource, moveTarget); err != nil {
		return err
	}

	for _, loc := range slotLocs {
		val, _ := m.LoadWord(loc)
		fmt.Fprintf(out, "  slot %#x = %#x\n", loc, val)
	}
	for _, s := range moveRegs {
		tid, r, _, _ := parseReg(s)
		fmt.Fprintf(out, "  thread %d %s = %#x\n", tid, r, threads[tid].Registers().Get(r))
	}

	st := eng.Stats()
	fmt.Fprintf(out, "patched %d escape slot(s), %d register(s)\n",
		st.EscapeSlotsPatched, st.RegistersPatched)
	return nil
}
