package pmp

import (
	"rvkernel/arch/riscv"
	"rvkernel/kernel/errno"
)

// Pool mirrors mempool_t: a static memory region descriptor used to seed
// PMP regions at boot, before any flexpage exists.
type Pool struct {
	Name  string
	Start uint32
	End   uint32
	Flags uint8
	Tag   Priority
}

// KernelPools mirrors kernel_mempools from the reference kernel's pmp.c.
// The reference pulls _stext/_etext/etc from the linker script; this
// build has no linker script, so the boundaries come from the board's
// known RAM layout (arch/riscv/memlayout.go) sliced into fixed-size
// regions for text, data, bss, heap and stack. A real board port would
// replace these five constants with its own linker symbols.
var KernelPools = []Pool{
	{Name: "kernel_text", Start: uint32(riscv.KERNBASE), End: uint32(riscv.KERNBASE) + 0x00100000,
		Flags: riscv.PMPPermRX, Tag: PriorityKernel},
	{Name: "kernel_data", Start: uint32(riscv.KERNBASE) + 0x00100000, End: uint32(riscv.KERNBASE) + 0x00180000,
		Flags: riscv.PMPPermRW, Tag: PriorityKernel},
	{Name: "kernel_bss", Start: uint32(riscv.KERNBASE) + 0x00180000, End: uint32(riscv.KERNBASE) + 0x00200000,
		Flags: riscv.PMPPermRW, Tag: PriorityKernel},
	{Name: "kernel_heap", Start: uint32(riscv.KERNBASE) + 0x00200000, End: uint32(riscv.PHYSTOP) - 0x00100000,
		Flags: riscv.PMPPermRW, Tag: PriorityKernel},
	{Name: "kernel_stack", Start: uint32(riscv.PHYSTOP) - 0x00100000, End: uint32(riscv.PHYSTOP),
		Flags: riscv.PMPPermRW, Tag: PriorityKernel},
}

// InitPools configures one PMP region per pool, in array order, the Go
// equivalent of pmp_init_pools.
func (c *Config) InitPools(pools []Pool) errno.Errno {
	if len(pools) == 0 {
		return errno.PMPInvalidRegion
	}
	if e := c.Init(); e != errno.OK {
		return e
	}
	for i, pool := range pools {
		if pool.Start >= pool.End {
			return errno.PMPAddrRange
		}
		if i >= riscv.MaxRegions {
			return errno.PMPNoRegions
		}
		region := Region{
			AddrStart:   pool.Start,
			AddrEnd:     pool.End,
			Permissions: pool.Flags & (riscv.PMPCfgR | riscv.PMPCfgW | riscv.PMPCfgX),
			Priority:    pool.Tag,
			RegionID:    uint8(i),
		}
		if e := c.SetRegion(region); e != errno.OK {
			return e
		}
	}
	return errno.OK
}

// InitKernel loads the boot-time kernel pools, the Go equivalent of
// pmp_init_kernel.
func (c *Config) InitKernel() errno.Errno {
	return c.InitPools(KernelPools)
}

// LoadableRegion is satisfied by kernel/mem.Flexpage; kept as a narrow
// interface (rather than importing kernel/mem directly) so pmp has no
// dependency on the memory-space layer that depends on it.
type LoadableRegion interface {
	Base() uint32
	Size() uint32
	RWX() uint8
	EvictionPriority() Priority
	SetPMPRegion(id uint8, loaded bool)
}

// LoadFlexpage installs a flexpage into hardware PMP region regionIdx, the
// Go equivalent of pmp_load_fpage / mo_load_fpage.
func (c *Config) LoadFlexpage(fp LoadableRegion, regionIdx uint8) errno.Errno {
	region := Region{
		AddrStart:   fp.Base(),
		AddrEnd:     fp.Base() + fp.Size(),
		Permissions: fp.RWX(),
		Priority:    fp.EvictionPriority(),
		RegionID:    regionIdx,
	}
	if e := c.SetRegion(region); e != errno.OK {
		return e
	}
	fp.SetPMPRegion(regionIdx, true)
	return errno.OK
}

// EvictFlexpage removes a flexpage's hardware mapping, the Go equivalent
// of pmp_evict_fpage / mo_evict_fpage.
func (c *Config) EvictFlexpage(fp LoadableRegion, regionIdx uint8) errno.Errno {
	if e := c.DisableRegion(regionIdx); e != errno.OK {
		return e
	}
	fp.SetPMPRegion(regionIdx, false)
	return errno.OK
}
