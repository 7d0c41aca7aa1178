//go:build !tinygo

// Package riscv, host build: a software model of the CSR set so the PMP
// engine, trap dispatcher and scheduler are exercisable with `go test`
// without real hardware or the tinygo toolchain. The exported functions
// match the tinygo build; pmpcfg goes through arrays of accessors indexed
// by register number as there, while pmpaddr indexes its backing array
// directly. The backing store is package-level variables instead of real
// CSRs.
package riscv

var (
	simMstatus uint32
	simMie     uint32
	simMip     uint32
	simMscratch uint32
	simMtvec    uint32
	simMhartid  uint32
	simPmpcfg   [4]uint32
	simPmpaddr  [16]uint32
)

var pmpcfgRegs = [4]func() uint32{
	func() uint32 { return simPmpcfg[0] },
	func() uint32 { return simPmpcfg[1] },
	func() uint32 { return simPmpcfg[2] },
	func() uint32 { return simPmpcfg[3] },
}

var pmpcfgSet = [4]func(uint32){
	func(v uint32) { simPmpcfg[0] = v },
	func(v uint32) { simPmpcfg[1] = v },
	func(v uint32) { simPmpcfg[2] = v },
	func(v uint32) { simPmpcfg[3] = v },
}

func ReadPMPCfg(idx uint8) uint32 {
	if idx > 3 {
		return 0
	}
	return pmpcfgRegs[idx]()
}

func WritePMPCfg(idx uint8, v uint32) {
	if idx > 3 {
		return
	}
	pmpcfgSet[idx](v)
}

func ReadPMPAddr(idx uint8) uint32 {
	if idx > 15 {
		return 0
	}
	return simPmpaddr[idx]
}

func WritePMPAddr(idx uint8, v uint32) {
	if idx > 15 {
		return
	}
	simPmpaddr[idx] = v
}

// ReadMscratch returns the simulated mscratch value.
func ReadMscratch() uint32 { return simMscratch }

// WriteMscratch sets the simulated mscratch value.
func WriteMscratch(v uint32) { simMscratch = v }

// SwapScratch models the "csrrw sp, mscratch, sp" instruction _isr's entry
// sequence depends on for kernel/user stack isolation: it atomically
// stores v into mscratch and returns whatever was there before.
// Convention: M-mode keeps mscratch at 0 (SP is already the kernel
// stack), U-mode keeps the kernel SP parked in mscratch while SP holds
// the user stack. After the swap, a non-zero result means the trap
// arrived from U-mode and the returned value is the user SP to save.
func SwapScratch(v uint32) uint32 {
	old := simMscratch
	simMscratch = v
	return old
}

// InterruptSet models hal_interrupt_set against the simulated mstatus.
func InterruptSet(enable bool) bool {
	was := simMstatus&MstatusMIE != 0
	if enable {
		simMstatus |= MstatusMIE
	} else {
		simMstatus &^= MstatusMIE
	}
	return was
}

// HartID returns the simulated hart id (always 0: secondary harts are
// parked and never reach Go code in this model).
func HartID() uint32 { return simMhartid }

// ResetSimCSRs clears every simulated register; tests call this between
// cases so PMP shadow-table tests don't leak state across subtests.
func ResetSimCSRs() {
	simMstatus, simMie, simMip, simMscratch, simMtvec, simMhartid = 0, 0, 0, 0, 0, 0
	simPmpcfg = [4]uint32{}
	simPmpaddr = [16]uint32{}
}
