// Package alloc is the kernel's freelist block allocator. A page-based
// kernel hands out whole pages from a freelist built by walking physical
// RAM once at boot; this kernel has no pages to hand out (PMP replaces
// paging), so the same freelist idiom is generalized to fixed-size blocks
// of a caller-chosen size. Allocation from a preallocated arena is O(1)
// and does not touch the Go runtime heap. No other package in this tree
// allocates from it: mem.NewFlexpage and sync.NewMQueue use ordinary Go
// allocation.
package alloc

import "rvkernel/kernel/errno"

type node struct {
	next *node
}

// Pool is a freelist of fixed-size blocks carved out of a caller-supplied
// backing array, mirroring Kmem's single freelist field.
type Pool struct {
	blockSize int
	freelist  *node
	backing   []byte
}

// NewPool carves backing into blocks of blockSize bytes and chains them
// onto the freelist, the equivalent of kinit+freerange.
func NewPool(backing []byte, blockSize int) *Pool {
	p := &Pool{blockSize: blockSize, backing: backing}
	for off := 0; off+blockSize <= len(backing); off += blockSize {
		p.free(off)
	}
	return p
}

func (p *Pool) free(off int) {
	n := (*node)(blockAt(p.backing, off, p.blockSize))
	n.next = p.freelist
	p.freelist = n
}

// Alloc pops one block off the freelist. Returns (nil, errno.HeapCorrupt)
// when the pool is exhausted, matching kalloc's "return 0" on an empty
// freelist but surfaced through the errno model instead of a null return.
func (p *Pool) Alloc() ([]byte, errno.Errno) {
	if p.freelist == nil {
		return nil, errno.HeapCorrupt
	}
	n := p.freelist
	p.freelist = n.next
	off := offsetOf(p.backing, n)
	block := p.backing[off : off+p.blockSize]
	memset(block, 0)
	return block, errno.OK
}

// Free returns a block previously handed out by Alloc back to the pool.
func (p *Pool) Free(block []byte) {
	off := offsetOf(p.backing, (*node)(ptrOf(block)))
	p.free(off)
}

// BlockSize reports the fixed block size this pool hands out.
func (p *Pool) BlockSize() int { return p.blockSize }
