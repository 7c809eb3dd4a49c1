package sched

// Reg names one saved general-purpose register in a thread's snapshot.
type Reg uint8

// The x86-64 integer register file, minus rsp and rip (see package doc).
const (
	RAX Reg = iota
	RBX
	RCX
	RDX
	RSI
	RDI
	RBP
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15

	// NumRegs is the number of patchable general-purpose registers.
	NumRegs = 15
)

var regNames = [NumRegs]string{
	"rax", "rbx", "rcx", "rdx", "rsi", "rdi", "rbp",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
}

func (r Reg) String() string {
	if int(r) < len(regNames) {
		return regNames[r]
	}
	return "reg?"
}

// GPRegs returns every patchable register, in canonical order.
func GPRegs() []Reg {
	out := make([]Reg, NumRegs)
	for i := range out {
		out[i] = Reg(i)
	}
	return out
}

// RegisterFile is a read/write view of one thread's saved general-purpose
// registers, supplied by the scheduler while the thread is not running.
type RegisterFile interface {
	Get(r Reg) uint64
	Set(r Reg, word uint64)
}

// ArrayRegs is a fixed-size RegisterFile backed by an array. The zero value
// is a register file of all zeros.
type ArrayRegs [NumRegs]uint64

func (a *ArrayRegs) Get(r Reg) uint64 { return a[r] }

func (a *ArrayRegs) Set(r Reg, word uint64) { a[r] = word }
