package riscv

// Physical memory layout for the qemu "virt" board. Only the ranges the
// PMP pools and the timer actually need are kept; trampoline/TRAPFRAME
// constants belong to a paged virtual-memory scheme and have no
// counterpart here (PMP replaces paging entirely).

const (
	UART0    = uintptr(0x10000000)
	UART0IRQ = 10
)

const (
	CLINT     = uintptr(0x02000000)
	CLINTTime = CLINT + 0xBFF8
)

// CLINTTimeCmp returns the address of mtimecmp for the given hart.
func CLINTTimeCmp(hart int) uintptr { return CLINT + 0x4000 + 8*uintptr(hart) }

const (
	PLIC         = uintptr(0x0c000000)
	PLICPriority = PLIC + 0x0
	PLICPending  = PLIC + 0x1000
)

func PLICMEnable(hart int) uintptr   { return PLIC + 0x2000 + uintptr(hart)*0x100 }
func PLICMPriority(hart int) uintptr { return PLIC + 0x200000 + uintptr(hart)*0x2000 }
func PLICMClaim(hart int) uintptr    { return PLIC + 0x200004 + uintptr(hart)*0x2000 }

// RAM the kernel and its tasks run in: KERNBASE..PHYSTOP.
const (
	KERNBASE = uintptr(0x80000000)
	PHYSTOP  = KERNBASE + 128*1024*1024
)

// DefaultStackSize mirrors DEFAULT_STACK_SIZE from the reference kernel's
// hal.h: the minimum per-task stack the allocator hands out absent an
// explicit request.
const DefaultStackSize = 4096
