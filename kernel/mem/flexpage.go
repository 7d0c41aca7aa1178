// Package mem implements the flexpage and memory-space layer: software
// descriptors for contiguous physical ranges, grouped into per-task
// memory spaces, loaded into and evicted from PMP hardware slots on
// demand. Grounded in the reference kernel's kernel/memprot.c and
// include/sys/memprot.h, with the intrusive-list fields (AsNext/MapNext/
// PMPNext) kept as typed pointers rather than a void*-generic container.
package mem

import (
	"rvkernel/kernel/errno"
	"rvkernel/kernel/pmp"
)

// Flexpage mirrors fpage_t: a contiguous physical region with R/W/X
// permissions and an eviction priority.
type Flexpage struct {
	AsNext  *Flexpage // next in owning memspace's list
	MapNext *Flexpage // next in a shared mapping chain
	PMPNext *Flexpage // next in the PMP-resident queue

	base     uint32
	size     uint32
	rwx      uint8
	priority pmp.Priority

	pmpRegion uint8
	loaded    bool
	used      int
}

// NewFlexpage mirrors mo_fpage_create.
func NewFlexpage(base, size uint32, rwx uint8, priority pmp.Priority) *Flexpage {
	return &Flexpage{base: base, size: size, rwx: rwx, priority: priority}
}

func (f *Flexpage) Base() uint32                 { return f.base }
func (f *Flexpage) Size() uint32                 { return f.size }
func (f *Flexpage) RWX() uint8                   { return f.rwx }
func (f *Flexpage) EvictionPriority() pmp.Priority { return f.priority }
func (f *Flexpage) Loaded() bool                 { return f.loaded }
func (f *Flexpage) PMPRegion() uint8             { return f.pmpRegion }

// SetPMPRegion records whether the page currently occupies a hardware PMP
// slot; called back by pmp.Config.LoadFlexpage/EvictFlexpage.
func (f *Flexpage) SetPMPRegion(id uint8, loaded bool) {
	f.pmpRegion = id
	f.loaded = loaded
}

// Retain/Release track mo_fpage's "used" reference count, so Destroy can
// refuse to free a page another task still maps and eviction can skip it.
// Memspace.Destroy does not consult this count.
func (f *Flexpage) Retain()    { f.used++ }
func (f *Flexpage) Release()   { f.used-- }
func (f *Flexpage) InUse() bool { return f.used > 0 }

// Destroy mirrors mo_fpage_destroy, generalized from a bare free() to the
// checks a memory-safe port needs in its place: it refuses while another
// task still maps the page (Retain'd) or while the page occupies a
// hardware PMP slot, since either means some Memspace still references it.
// Memspace.Destroy evicts and unlinks every resident page itself before
// its caller would reach here, so this exists for callers destroying a
// single flexpage outside that bulk teardown path.
func (f *Flexpage) Destroy() errno.Errno {
	if f.used > 0 {
		return errno.TaskBusy
	}
	if f.loaded {
		return errno.PMPLocked
	}
	*f = Flexpage{}
	return errno.OK
}
