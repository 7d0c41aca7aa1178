//go:build tinygo

package riscv

// On the bare-metal build the CSR accessors are not reimplemented here:
// they are the typed register objects tinygo's own "device/riscv" package
// already exports (MSTATUS, MIE, MIP, MCAUSE, MEPC, MSCRATCH, MTVEC,
// PMPCFG0..PMPCFG3, PMPADDR0..PMPADDR15, MHARTID), each with
// Get()/Set()/SetBits()/ClearBits(). That is the idiom the tinygo runtime
// itself uses for RISC-V (see its qemu runtime, which drives MTVEC, MIE
// and MCAUSE this exact way) and it is what the CSR read/write
// instructions compile down to: a single, compile-time-constant
// "csrrw"/"csrrs" per register, never a runtime switch over a register
// number.
//
// This file only adapts that vocabulary into the small runtime-indexed
// jump tables pmp_set_region's "region_id / 4" arithmetic needs:
// selecting one of four pmpcfg registers (and one of sixteen pmpaddr
// registers) at runtime means those constant accessors are collected
// into arrays of closures, a jump table rather than a switch.

import "device/riscv"

var (
	pmpcfgRegs = [4]func() uint32{
		func() uint32 { return uint32(riscv.PMPCFG0.Get()) },
		func() uint32 { return uint32(riscv.PMPCFG1.Get()) },
		func() uint32 { return uint32(riscv.PMPCFG2.Get()) },
		func() uint32 { return uint32(riscv.PMPCFG3.Get()) },
	}
	pmpcfgSet = [4]func(uint32){
		func(v uint32) { riscv.PMPCFG0.Set(uintptr(v)) },
		func(v uint32) { riscv.PMPCFG1.Set(uintptr(v)) },
		func(v uint32) { riscv.PMPCFG2.Set(uintptr(v)) },
		func(v uint32) { riscv.PMPCFG3.Set(uintptr(v)) },
	}
)

// ReadPMPCfg reads pmpcfg[idx] (idx in 0..3) through the jump table.
func ReadPMPCfg(idx uint8) uint32 {
	if idx > 3 {
		return 0
	}
	return pmpcfgRegs[idx]()
}

// WritePMPCfg writes pmpcfg[idx].
func WritePMPCfg(idx uint8, v uint32) {
	if idx > 3 {
		return
	}
	pmpcfgSet[idx](v)
}

var pmpaddrRegs = buildPMPAddrTable()

func buildPMPAddrTable() [16]func() uint32 {
	return [16]func() uint32{
		func() uint32 { return uint32(riscv.PMPADDR0.Get()) },
		func() uint32 { return uint32(riscv.PMPADDR1.Get()) },
		func() uint32 { return uint32(riscv.PMPADDR2.Get()) },
		func() uint32 { return uint32(riscv.PMPADDR3.Get()) },
		func() uint32 { return uint32(riscv.PMPADDR4.Get()) },
		func() uint32 { return uint32(riscv.PMPADDR5.Get()) },
		func() uint32 { return uint32(riscv.PMPADDR6.Get()) },
		func() uint32 { return uint32(riscv.PMPADDR7.Get()) },
		func() uint32 { return uint32(riscv.PMPADDR8.Get()) },
		func() uint32 { return uint32(riscv.PMPADDR9.Get()) },
		func() uint32 { return uint32(riscv.PMPADDR10.Get()) },
		func() uint32 { return uint32(riscv.PMPADDR11.Get()) },
		func() uint32 { return uint32(riscv.PMPADDR12.Get()) },
		func() uint32 { return uint32(riscv.PMPADDR13.Get()) },
		func() uint32 { return uint32(riscv.PMPADDR14.Get()) },
		func() uint32 { return uint32(riscv.PMPADDR15.Get()) },
	}
}

var pmpaddrSet = [16]func(uint32){
	func(v uint32) { riscv.PMPADDR0.Set(uintptr(v)) },
	func(v uint32) { riscv.PMPADDR1.Set(uintptr(v)) },
	func(v uint32) { riscv.PMPADDR2.Set(uintptr(v)) },
	func(v uint32) { riscv.PMPADDR3.Set(uintptr(v)) },
	func(v uint32) { riscv.PMPADDR4.Set(uintptr(v)) },
	func(v uint32) { riscv.PMPADDR5.Set(uintptr(v)) },
	func(v uint32) { riscv.PMPADDR6.Set(uintptr(v)) },
	func(v uint32) { riscv.PMPADDR7.Set(uintptr(v)) },
	func(v uint32) { riscv.PMPADDR8.Set(uintptr(v)) },
	func(v uint32) { riscv.PMPADDR9.Set(uintptr(v)) },
	func(v uint32) { riscv.PMPADDR10.Set(uintptr(v)) },
	func(v uint32) { riscv.PMPADDR11.Set(uintptr(v)) },
	func(v uint32) { riscv.PMPADDR12.Set(uintptr(v)) },
	func(v uint32) { riscv.PMPADDR13.Set(uintptr(v)) },
	func(v uint32) { riscv.PMPADDR14.Set(uintptr(v)) },
	func(v uint32) { riscv.PMPADDR15.Set(uintptr(v)) },
}

// ReadPMPAddr reads pmpaddr[idx] (idx in 0..15).
func ReadPMPAddr(idx uint8) uint32 {
	if idx > 15 {
		return 0
	}
	return pmpaddrRegs[idx]()
}

// WritePMPAddr writes pmpaddr[idx].
func WritePMPAddr(idx uint8, v uint32) {
	if idx > 15 {
		return
	}
	pmpaddrSet[idx](v)
}

// ReadMscratch reads mscratch through tinygo's typed register.
func ReadMscratch() uint32 { return uint32(riscv.MSCRATCH.Get()) }

// WriteMscratch writes mscratch.
func WriteMscratch(v uint32) { riscv.MSCRATCH.Set(uintptr(v)) }

// SwapScratch mirrors the "csrrw sp, mscratch, sp" atomic exchange _isr's
// entry sequence performs for kernel/user stack isolation: see the host
// build's SwapScratch for the mscratch-zero/non-zero convention this
// implements.
func SwapScratch(v uint32) uint32 {
	old := uint32(riscv.MSCRATCH.Get())
	riscv.MSCRATCH.Set(uintptr(v))
	return old
}

// InterruptSet enables or disables mstatus.MIE, returning the previous
// state (true if it was enabled) the way hal_interrupt_set does.
func InterruptSet(enable bool) bool {
	was := riscv.MSTATUS.Get()&MstatusMIE != 0
	if enable {
		riscv.MSTATUS.SetBits(MstatusMIE)
	} else {
		riscv.MSTATUS.ClearBits(MstatusMIE)
	}
	return was
}

// HartID returns the running hart's mhartid.
func HartID() uint32 { return uint32(riscv.MHARTID.Get()) }
