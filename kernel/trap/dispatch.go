// Package trap implements the C-level trap dispatcher invoked by the
// assembly entry sequence on every exception and interrupt (component
// 4.2). It mirrors do_trap from the reference kernel's hal.c: timer
// interrupts drive the scheduler tick, ecalls route to the syscall gate,
// and everything else is fatal.
package trap

import (
	"rvkernel/arch/riscv"
	"rvkernel/kernel/console"
)

// Scheduler is the subset of kernel/sched the dispatcher depends on. It is
// an interface, not a direct import, so trap stays testable with a fake
// scheduler and does not depend on kernel/sched.
type Scheduler interface {
	// Tick runs one scheduling decision after a timer interrupt and
	// returns the frame of the task that should run next (possibly the
	// same one that was interrupted).
	Tick(interrupted *riscv.TrapFrame) *riscv.TrapFrame
}

// SyscallGate services an ecall trap and returns the frame to resume,
// with SetSyscallResult already applied and EPC already advanced.
type SyscallGate interface {
	Dispatch(frame *riscv.TrapFrame) *riscv.TrapFrame
}

// reasons mirrors the reference kernel's exc_msg table, indexed by
// exception code, for panic diagnostics.
var reasons = [...]string{
	riscv.CauseInstAddrMisaligned:  "instruction address misaligned",
	riscv.CauseInstAccessFault:     "instruction access fault",
	riscv.CauseIllegalInstruction:  "illegal instruction",
	riscv.CauseBreakpoint:          "breakpoint",
	riscv.CauseLoadAddrMisaligned:  "load address misaligned",
	riscv.CauseLoadAccessFault:     "load access fault",
	riscv.CauseStoreAddrMisaligned: "store/amo address misaligned",
	riscv.CauseStoreAccessFault:    "store/amo access fault",
	riscv.CauseEcallFromUMode:      "environment call from U-mode",
	riscv.CauseEcallFromSMode:      "environment call from S-mode",
	riscv.CauseEcallFromMMode:      "environment call from M-mode",
	riscv.CauseInstPageFault:       "instruction page fault",
	riscv.CauseLoadPageFault:       "load page fault",
	riscv.CauseStorePageFault:      "store/amo page fault",
}

func reasonFor(code uint32) string {
	if int(code) < len(reasons) && reasons[code] != "" {
		return reasons[code]
	}
	return "unknown exception"
}

// PanicFunc is called on an unrecoverable trap. Tests override it to
// capture the call instead of halting the process.
var PanicFunc = func(format string, args ...interface{}) {
	console.Printf(format, args...)
	Panic()
}

// Panic disables interrupts and halts. On tinygo it never returns; on the
// host build it is overridden by tests.
var Panic = func() {
	riscv.InterruptSet(false)
	for {
	}
}

// Dispatch is the Go equivalent of do_trap: called with the frame the
// entry sequence just populated, it returns the frame execution should
// resume with (mepc/mstatus/sp already set appropriately by the callee).
func Dispatch(frame *riscv.TrapFrame, sched Scheduler, gate SyscallGate) *riscv.TrapFrame {
	cause := frame.Cause()
	if riscv.IsInterrupt(cause) {
		switch riscv.CauseCode(cause) {
		case riscv.CauseMachineTimerInterrupt:
			return sched.Tick(frame)
		default:
			PanicFunc("[UNHANDLED INTERRUPT] code=%x, cause=%x, epc=%x\n",
				riscv.CauseCode(cause), cause, frame.EPC())
			return frame
		}
	}

	code := riscv.CauseCode(cause)
	switch code {
	case riscv.CauseEcallFromUMode, riscv.CauseEcallFromMMode:
		frame.AdvancePastEcall()
		return gate.Dispatch(frame)
	default:
		PanicFunc("[EXCEPTION] code=%x (%s), epc=%x, cause=%x\n",
			code, reasonFor(code), frame.EPC(), cause)
		return frame
	}
}
