package riscv

// Register indices within a TrapFrame's GPR slice, in the fixed order the
// entry sequence saves them: ra, gp, tp, t0-t2, s0-s1, a0-a7, s2-s11,
// t3-t6. x0 (zero) and x2 (sp) are excluded: sp is reconstructed
// separately (see TrapFrame.SP) and zero never needs saving.
const (
	RegRA = iota
	RegGP
	RegTP
	RegT0
	RegT1
	RegT2
	RegS0
	RegS1
	RegA0
	RegA1
	RegA2
	RegA3
	RegA4
	RegA5
	RegA6
	RegA7
	RegS2
	RegS3
	RegS4
	RegS5
	RegS6
	RegS7
	RegS8
	RegS9
	RegS10
	RegS11
	RegT3
	RegT4
	RegT5
	RegT6
	numGPRs // 30
)

// TrapFrame is the fixed 34-word structure the trap entry sequence
// populates on every exception and interrupt. Index 30
// holds mcause, 31 the exception/interrupt PC, 32 the saved mstatus, and
// 33 the saved stack pointer of the interrupted context. Every trap path
// must write all 34 words before returning; there is no sparse update.
type TrapFrame struct {
	gpr    [numGPRs]uint32
	cause  uint32
	epc    uint32
	status uint32
	sp     uint32
}

// GPR returns the value of GPR index i (one of the Reg* constants).
func (f *TrapFrame) GPR(i int) uint32 { return f.gpr[i] }

// SetGPR stores v into GPR index i.
func (f *TrapFrame) SetGPR(i int, v uint32) { f.gpr[i] = v }

// Cause returns the raw mcause value saved at trap entry.
func (f *TrapFrame) Cause() uint32 { return f.cause }

// SetCause stores the mcause value (only the entry sequence should call
// this; exposed so the pure-Go simulation of that sequence can populate
// frames for tests).
func (f *TrapFrame) SetCause(v uint32) { f.cause = v }

// EPC returns the saved mepc (faulting or syscall-return PC).
func (f *TrapFrame) EPC() uint32 { return f.epc }

// SetEPC stores mepc, e.g. to advance past an ecall before returning.
func (f *TrapFrame) SetEPC(v uint32) { f.epc = v }

// AdvancePastEcall advances the saved PC by the width of one "ecall"
// instruction (4 bytes on RV32I/RV32C-uncompressed ecall), so a
// syscall-servicing return resumes at the instruction after the trap.
func (f *TrapFrame) AdvancePastEcall() { f.epc += 4 }

// Status returns the saved mstatus.
func (f *TrapFrame) Status() uint32 { return f.status }

// SetStatus stores mstatus.
func (f *TrapFrame) SetStatus(v uint32) { f.status = v }

// SP returns the saved stack pointer of the interrupted context.
func (f *TrapFrame) SP() uint32 { return f.sp }

// SetSP stores the saved stack pointer.
func (f *TrapFrame) SetSP(v uint32) { f.sp = v }

// FromUMode reports whether the trapped context's previous privilege
// mode, as recorded in the saved mstatus, was U-mode.
func (f *TrapFrame) FromUMode() bool { return GetMPP(f.status) == MPPUser }

// Syscall ABI accessors: number in a7, arguments in a0..a2, result
// written back into a0.
func (f *TrapFrame) SyscallNum() uint32    { return f.gpr[RegA7] }
func (f *TrapFrame) SyscallArg(i int) uint32 {
	switch i {
	case 0:
		return f.gpr[RegA0]
	case 1:
		return f.gpr[RegA1]
	case 2:
		return f.gpr[RegA2]
	default:
		return 0
	}
}
func (f *TrapFrame) SetSyscallResult(v uint32) { f.gpr[RegA0] = v }
