//go:build !tinygo

package pmp

import (
	"testing"

	"rvkernel/arch/riscv"
	"rvkernel/kernel/errno"
)

func resetAndInit(t *testing.T) *Config {
	t.Helper()
	riscv.ResetSimCSRs()
	c := &Config{}
	if e := c.Init(); e != errno.OK {
		t.Fatalf("Init() = %v", e)
	}
	return c
}

func TestInitClearsHardwareAndShadow(t *testing.T) {
	c := resetAndInit(t)
	for i := uint8(0); i < riscv.MaxRegions; i++ {
		if riscv.ReadPMPAddr(i) != 0 {
			t.Errorf("pmpaddr%d not cleared", i)
		}
		r, _ := c.GetRegion(i)
		if r.AddrStart != 0 || r.AddrEnd != 0 {
			t.Errorf("shadow region %d not cleared", i)
		}
	}
	if c.RegionCount() != 0 {
		t.Fatalf("RegionCount() = %d, want 0", c.RegionCount())
	}
}

func TestSetRegionWritesHardwareAndShadow(t *testing.T) {
	c := resetAndInit(t)
	r := Region{AddrStart: 0x1000, AddrEnd: 0x2000, Permissions: riscv.PMPPermRW, RegionID: 2}
	if e := c.SetRegion(r); e != errno.OK {
		t.Fatalf("SetRegion() = %v", e)
	}

	if got := riscv.ReadPMPAddr(2); got != 0x2000 {
		t.Errorf("pmpaddr2 = %#x, want 0x2000", got)
	}

	cfgByte := uint8(riscv.ReadPMPCfg(0) >> (2 * 8))
	if riscv.PMPCfgA(cfgByte) != riscv.PMPCfgATOR>>riscv.PMPCfgAShift {
		t.Errorf("region 2 not configured in TOR mode: cfg byte = %#x", cfgByte)
	}
	if riscv.PMPCfgPerm(cfgByte) != riscv.PMPPermRW {
		t.Errorf("region 2 perm = %#x, want RW", riscv.PMPCfgPerm(cfgByte))
	}

	if c.RegionCount() != 3 {
		t.Errorf("RegionCount() = %d, want 3", c.RegionCount())
	}
}

func TestSetRegionRejectsInvertedRange(t *testing.T) {
	c := resetAndInit(t)
	err := c.SetRegion(Region{AddrStart: 0x2000, AddrEnd: 0x1000, RegionID: 0})
	if err != errno.PMPAddrRange {
		t.Fatalf("SetRegion() = %v, want PMPAddrRange", err)
	}
}

func TestLockedRegionRejectsFurtherWrites(t *testing.T) {
	c := resetAndInit(t)
	c.SetRegion(Region{AddrStart: 0x1000, AddrEnd: 0x2000, Permissions: riscv.PMPPermR, RegionID: 0})
	if e := c.LockRegion(0); e != errno.OK {
		t.Fatalf("LockRegion() = %v", e)
	}
	if e := c.SetRegion(Region{AddrStart: 0x3000, AddrEnd: 0x4000, RegionID: 0}); e != errno.PMPLocked {
		t.Fatalf("SetRegion() on locked region = %v, want PMPLocked", e)
	}
	if e := c.DisableRegion(0); e != errno.PMPLocked {
		t.Fatalf("DisableRegion() on locked region = %v, want PMPLocked", e)
	}
}

func TestCheckAccessHonorsPermissions(t *testing.T) {
	c := resetAndInit(t)
	c.SetRegion(Region{AddrStart: 0x1000, AddrEnd: 0x2000, Permissions: riscv.PMPPermRX, RegionID: 0})

	if !c.CheckAccess(0x1000, 0x10, false, false) {
		t.Error("read access denied, expected allow")
	}
	if c.CheckAccess(0x1000, 0x10, true, false) {
		t.Error("write access allowed, expected deny (region is RX only)")
	}
	if !c.CheckAccess(0x1000, 0x10, false, true) {
		t.Error("execute access denied, expected allow")
	}
	if c.CheckAccess(0x5000, 0x10, false, false) {
		t.Error("access outside any region allowed, expected deny")
	}
}

// TestCheckAccessRequiresBothWriteAndExecute guards against building the
// required-permission mask with an exclusive switch: a region granted
// only W (no X) must still deny a combined write+execute request, and a
// region granted both must allow it.
func TestCheckAccessRequiresBothWriteAndExecute(t *testing.T) {
	c := resetAndInit(t)
	c.SetRegion(Region{AddrStart: 0x1000, AddrEnd: 0x2000, Permissions: riscv.PMPPermRW, RegionID: 0})

	if c.CheckAccess(0x1000, 0x10, true, true) {
		t.Error("write+execute allowed on an RW-only region, expected deny")
	}

	c.SetRegion(Region{AddrStart: 0x3000, AddrEnd: 0x4000, Permissions: riscv.PMPPermRWX, RegionID: 1})
	if !c.CheckAccess(0x3000, 0x10, true, true) {
		t.Error("write+execute denied on an RWX region, expected allow")
	}
}

func TestInitKernelPopulatesFivePools(t *testing.T) {
	c := resetAndInit(t)
	if e := c.InitKernel(); e != errno.OK {
		t.Fatalf("InitKernel() = %v", e)
	}
	if c.RegionCount() != uint8(len(KernelPools)) {
		t.Fatalf("RegionCount() = %d, want %d", c.RegionCount(), len(KernelPools))
	}
}
