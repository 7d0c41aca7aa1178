// Package pmp is the physical memory protection region engine (component
// 4.3). It keeps a software shadow of the sixteen hardware PMP regions in
// TOR (top-of-range) mode, and ported closely from the reference kernel's
// arch/riscv/pmp.c: the shadow exists so CheckAccess can run on hosts with
// no real PMP, and so the scheduler can ask "is this region locked" without
// a CSR round-trip.
package pmp

import (
	"rvkernel/arch/riscv"
	"rvkernel/kernel/errno"
)

// Priority mirrors pmp_priority_t: lower value means higher priority,
// meaning less eligible for eviction.
type Priority uint8

const (
	PriorityKernel Priority = iota
	PriorityStack
	PriorityShared
	PriorityTemporary
	priorityCount
)

// Region mirrors pmp_region_t, the shadow copy of one hardware PMP slot.
type Region struct {
	AddrStart   uint32
	AddrEnd     uint32
	Permissions uint8
	Priority    Priority
	RegionID    uint8
	Locked      bool
}

// Config mirrors pmp_config_t: PMP_MAX_REGIONS shadow entries plus
// bookkeeping. The zero value is not ready for use; call Init first.
type Config struct {
	regions         [riscv.MaxRegions]Region
	regionCount     uint8
	nextRegionIdx   uint8
	initialized     bool
}

func cfgIndices(regionIdx uint8) (cfgIdx, offset uint8) {
	return regionIdx / 4, (regionIdx % 4) * 8
}

// Init clears every hardware PMP region and resets the shadow state, the
// Go equivalent of pmp_init.
func (c *Config) Init() errno.Errno {
	for i := uint8(0); i < riscv.MaxRegions; i++ {
		riscv.WritePMPAddr(i, 0)
		if i%4 == 0 {
			riscv.WritePMPCfg(i/4, 0)
		}
		c.regions[i] = Region{RegionID: i, Priority: PriorityTemporary}
	}
	c.regionCount = 0
	c.nextRegionIdx = 0
	c.initialized = true
	return errno.OK
}

// SetRegion configures one PMP region in TOR mode, the Go equivalent of
// pmp_set_region: it writes both the hardware pmpaddr/pmpcfg registers and
// the shadow copy used by CheckAccess.
func (c *Config) SetRegion(r Region) errno.Errno {
	if r.RegionID >= riscv.MaxRegions {
		return errno.PMPInvalidRegion
	}
	if r.AddrStart >= r.AddrEnd {
		return errno.PMPAddrRange
	}
	if c.regions[r.RegionID].Locked {
		return errno.PMPLocked
	}

	cfgIdx, offset := cfgIndices(r.RegionID)
	perm := r.Permissions & (riscv.PMPCfgR | riscv.PMPCfgW | riscv.PMPCfgX)
	cfgByte := riscv.PMPCfgATOR | perm
	if r.Locked {
		cfgByte |= riscv.PMPCfgL
	}

	cfgVal := riscv.ReadPMPCfg(cfgIdx)
	cfgVal &^= 0xFF << offset
	cfgVal |= uint32(cfgByte) << offset

	riscv.WritePMPAddr(r.RegionID, r.AddrEnd)
	riscv.WritePMPCfg(cfgIdx, cfgVal)

	c.regions[r.RegionID] = r
	if r.RegionID >= c.regionCount {
		c.regionCount = r.RegionID + 1
	}
	return errno.OK
}

// DisableRegion clears a region in both hardware and shadow state.
func (c *Config) DisableRegion(regionIdx uint8) errno.Errno {
	if regionIdx >= riscv.MaxRegions {
		return errno.PMPInvalidRegion
	}
	if c.regions[regionIdx].Locked {
		return errno.PMPLocked
	}
	cfgIdx, offset := cfgIndices(regionIdx)
	cfgVal := riscv.ReadPMPCfg(cfgIdx)
	cfgVal &^= 0xFF << offset
	riscv.WritePMPCfg(cfgIdx, cfgVal)

	c.regions[regionIdx].AddrStart = 0
	c.regions[regionIdx].AddrEnd = 0
	c.regions[regionIdx].Permissions = 0
	return errno.OK
}

// LockRegion sets the lock bit on a region, making it immutable until the
// next Init. Matches pmp_lock_region.
func (c *Config) LockRegion(regionIdx uint8) errno.Errno {
	if regionIdx >= riscv.MaxRegions {
		return errno.PMPInvalidRegion
	}
	cfgIdx, offset := cfgIndices(regionIdx)
	cfgVal := riscv.ReadPMPCfg(cfgIdx)
	cfgByte := uint8(cfgVal>>offset) | riscv.PMPCfgL
	cfgVal &^= 0xFF << offset
	cfgVal |= uint32(cfgByte) << offset
	riscv.WritePMPCfg(cfgIdx, cfgVal)

	c.regions[regionIdx].Locked = true
	return errno.OK
}

// GetRegion returns a copy of the shadow entry for regionIdx.
func (c *Config) GetRegion(regionIdx uint8) (Region, errno.Errno) {
	if regionIdx >= riscv.MaxRegions {
		return Region{}, errno.PMPInvalidRegion
	}
	return c.regions[regionIdx], errno.OK
}

// RegionCount reports how many shadow slots are in use.
func (c *Config) RegionCount() uint8 { return c.regionCount }

// CheckAccess mirrors pmp_check_access: scans shadow regions in priority
// (index) order and returns whether [addr, addr+size) is fully contained
// in some region with the requested permissions. This is a software
// convenience only: no kernel path calls it, and real enforcement on the
// target happens in hardware via the loaded PMP registers.
func (c *Config) CheckAccess(addr, size uint32, write, execute bool) bool {
	end := addr + size
	for i := uint8(0); i < c.regionCount; i++ {
		r := &c.regions[i]
		if r.AddrStart == 0 && r.AddrEnd == 0 {
			continue
		}
		if addr >= r.AddrStart && end <= r.AddrEnd {
			required := uint8(0)
			if write {
				required |= riscv.PMPCfgW
			}
			if execute {
				required |= riscv.PMPCfgX
			}
			if !write && !execute {
				required = riscv.PMPCfgR
			}
			return r.Permissions&required == required
		}
	}
	return false
}
