package mem

import (
	"rvkernel/kernel/errno"
	"rvkernel/kernel/pmp"
)

// Memspace mirrors memspace_t: the set of flexpages visible to a task (or
// shared between several). AsID plays the role of as_id.
type Memspace struct {
	AsID      uint32
	first     *Flexpage // head of the as_next list, all pages owned by this space
	pmpFirst  *Flexpage // head of the pmp_next list, pages currently hardware-resident
	Shared    bool

	pmp *pmp.Config
}

// NewMemspace mirrors mo_memspace_create.
func NewMemspace(asID uint32, shared bool, config *pmp.Config) *Memspace {
	return &Memspace{AsID: asID, Shared: shared, pmp: config}
}

// Add links a flexpage into the space's as_next list, the bookkeeping
// mo_fpage_create's caller normally does by hand in the reference kernel.
func (m *Memspace) Add(fp *Flexpage) {
	fp.AsNext = m.first
	m.first = fp
}

// Destroy frees every flexpage owned by the space, evicting it from
// hardware first if resident. Mirrors mo_memspace_destroy.
func (m *Memspace) Destroy() {
	fp := m.first
	for fp != nil {
		next := fp.AsNext
		if fp.loaded {
			m.pmp.EvictFlexpage(fp, fp.pmpRegion)
			m.unlinkResident(fp)
		}
		fp = next
	}
	m.first = nil
}

func (m *Memspace) unlinkResident(target *Flexpage) {
	if m.pmpFirst == target {
		m.pmpFirst = target.PMPNext
		target.PMPNext = nil
		return
	}
	for fp := m.pmpFirst; fp != nil; fp = fp.PMPNext {
		if fp.PMPNext == target {
			fp.PMPNext = target.PMPNext
			target.PMPNext = nil
			return
		}
	}
}

func (m *Memspace) linkResident(fp *Flexpage) {
	fp.PMPNext = m.pmpFirst
	m.pmpFirst = fp
}

// residentCount reports how many of this space's pages currently hold a
// hardware PMP slot.
func (m *Memspace) residentCount() int {
	n := 0
	for fp := m.pmpFirst; fp != nil; fp = fp.PMPNext {
		n++
	}
	return n
}

// EnsureResident guarantees fp occupies a hardware PMP region, evicting
// another page first if all sixteen regions are in use. This resolves the
// "what evicts whom" open question: candidates are chosen by lowest
// priority first (PriorityTemporary before PriorityShared before
// PriorityStack; PriorityKernel is never evicted), and among equal
// priority the least-recently-loaded page (the tail of pmpFirst, since
// linkResident always pushes to the head) is evicted, approximating LRU
// without a timestamp field.
func (m *Memspace) EnsureResident(fp *Flexpage) errno.Errno {
	if fp.loaded {
		return errno.OK
	}

	regionIdx, ok := m.freeRegion()
	if !ok {
		victim := m.evictionCandidate()
		if victim == nil {
			return errno.PMPNoRegions
		}
		if e := m.pmp.EvictFlexpage(victim, victim.pmpRegion); e != errno.OK {
			return e
		}
		m.unlinkResident(victim)
		regionIdx = victim.pmpRegion
	}

	if e := m.pmp.LoadFlexpage(fp, regionIdx); e != errno.OK {
		return e
	}
	m.linkResident(fp)
	return errno.OK
}

// freeRegion returns the lowest hardware region index not currently
// backing a shadow entry with a non-zero range, i.e. the next slot
// pmp.Config.Init left disabled.
func (m *Memspace) freeRegion() (uint8, bool) {
	for i := uint8(0); i < pmpMaxRegions; i++ {
		r, _ := m.pmp.GetRegion(i)
		if r.AddrStart == 0 && r.AddrEnd == 0 {
			return i, true
		}
	}
	return 0, false
}

const pmpMaxRegions = 16

// evictionCandidate walks the resident list and returns the lowest-
// priority page, breaking ties by picking the one nearest the tail (least
// recently loaded). Pages that are still in use (mapped by another task)
// are skipped; returns nil if every resident page is pinned.
func (m *Memspace) evictionCandidate() *Flexpage {
	var best *Flexpage
	for fp := m.pmpFirst; fp != nil; fp = fp.PMPNext {
		if fp.InUse() || fp.priority == pmp.PriorityKernel {
			continue
		}
		if best == nil || fp.priority >= best.priority {
			best = fp
		}
	}
	return best
}
