//go:build !tinygo

package mem

import (
	"testing"

	"rvkernel/arch/riscv"
	"rvkernel/kernel/errno"
	"rvkernel/kernel/pmp"
)

func freshConfig(t *testing.T) *pmp.Config {
	t.Helper()
	riscv.ResetSimCSRs()
	c := &pmp.Config{}
	if e := c.Init(); e != errno.OK {
		t.Fatalf("pmp Init() = %v", e)
	}
	return c
}

func TestEnsureResidentLoadsIntoFreeRegion(t *testing.T) {
	c := freshConfig(t)
	ms := NewMemspace(1, false, c)
	fp := NewFlexpage(0x1000, 0x1000, riscv.PMPPermRW, pmp.PriorityStack)
	ms.Add(fp)

	if e := ms.EnsureResident(fp); e != errno.OK {
		t.Fatalf("EnsureResident() = %v", e)
	}
	if !fp.Loaded() {
		t.Fatal("flexpage not marked loaded")
	}
	if got := riscv.ReadPMPAddr(fp.PMPRegion()); got != fp.Base()+fp.Size() {
		t.Errorf("hardware pmpaddr = %#x, want %#x", got, fp.Base()+fp.Size())
	}
}

func TestEnsureResidentEvictsLowestPriorityWhenFull(t *testing.T) {
	c := freshConfig(t)
	ms := NewMemspace(1, false, c)

	var pages []*Flexpage
	for i := 0; i < int(riscv.MaxRegions); i++ {
		fp := NewFlexpage(uint32(i)*0x1000, 0x1000, riscv.PMPPermRW, pmp.PriorityTemporary)
		ms.Add(fp)
		if e := ms.EnsureResident(fp); e != errno.OK {
			t.Fatalf("EnsureResident(page %d) = %v", i, e)
		}
		pages = append(pages, fp)
	}

	newcomer := NewFlexpage(0x100000, 0x1000, riscv.PMPPermRW, pmp.PriorityShared)
	ms.Add(newcomer)
	if e := ms.EnsureResident(newcomer); e != errno.OK {
		t.Fatalf("EnsureResident(newcomer) = %v", e)
	}
	if !newcomer.Loaded() {
		t.Fatal("newcomer was not loaded after eviction")
	}

	evicted := 0
	for _, fp := range pages {
		if !fp.Loaded() {
			evicted++
		}
	}
	if evicted != 1 {
		t.Fatalf("evicted count = %d, want 1", evicted)
	}
}

func TestEnsureResidentNeverEvictsKernelPriority(t *testing.T) {
	c := freshConfig(t)
	ms := NewMemspace(0, false, c)

	for i := 0; i < int(riscv.MaxRegions); i++ {
		fp := NewFlexpage(uint32(i)*0x1000, 0x1000, riscv.PMPPermRW, pmp.PriorityKernel)
		ms.Add(fp)
		ms.EnsureResident(fp)
	}

	newcomer := NewFlexpage(0x100000, 0x1000, riscv.PMPPermRW, pmp.PriorityTemporary)
	ms.Add(newcomer)
	if e := ms.EnsureResident(newcomer); e != errno.PMPNoRegions {
		t.Fatalf("EnsureResident() = %v, want PMPNoRegions (all kernel pages pinned)", e)
	}
}

func TestFlexpageDestroyRefusesWhileInUse(t *testing.T) {
	fp := NewFlexpage(0x1000, 0x1000, riscv.PMPPermRW, pmp.PriorityShared)
	fp.Retain()

	if e := fp.Destroy(); e != errno.TaskBusy {
		t.Fatalf("Destroy() while InUse = %v, want TaskBusy", e)
	}

	fp.Release()
	if e := fp.Destroy(); e != errno.OK {
		t.Fatalf("Destroy() after Release = %v, want OK", e)
	}
}

func TestFlexpageDestroyRefusesWhileLoaded(t *testing.T) {
	c := freshConfig(t)
	ms := NewMemspace(1, false, c)
	fp := NewFlexpage(0x1000, 0x1000, riscv.PMPPermRW, pmp.PriorityShared)
	ms.Add(fp)
	if e := ms.EnsureResident(fp); e != errno.OK {
		t.Fatalf("EnsureResident() = %v", e)
	}

	if e := fp.Destroy(); e != errno.PMPLocked {
		t.Fatalf("Destroy() while PMP-resident = %v, want PMPLocked", e)
	}

	if e := c.EvictFlexpage(fp, fp.PMPRegion()); e != errno.OK {
		t.Fatalf("EvictFlexpage() = %v", e)
	}
	fp.SetPMPRegion(fp.PMPRegion(), false)
	if e := fp.Destroy(); e != errno.OK {
		t.Fatalf("Destroy() after eviction = %v, want OK", e)
	}
}

func TestMemspaceDestroyEvictsAllPages(t *testing.T) {
	c := freshConfig(t)
	ms := NewMemspace(1, false, c)
	fp := NewFlexpage(0x1000, 0x1000, riscv.PMPPermRW, pmp.PriorityShared)
	ms.Add(fp)
	ms.EnsureResident(fp)

	ms.Destroy()
	if fp.Loaded() {
		t.Fatal("flexpage still loaded after Destroy")
	}
}
