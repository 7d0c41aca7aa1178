package sync

import (
	"rvkernel/kernel/errno"
	"rvkernel/kernel/sched"
)

// PipeMinSize/PipeMaxSize mirror PIPE_MIN_SIZE/PIPE_MAX_SIZE.
const (
	PipeMinSize = 4
	PipeMaxSize = 32768
)

// Pipe is a power-of-two byte ring buffer, ported from kernel/pipe.c's
// mask-based head/tail/used bookkeeping. Read and Write block the caller
// while the pipe is empty/full, matching pipe_wait_until_readable/
// pipe_wait_until_writable's spin-yield loop in the reference kernel.
type Pipe struct {
	buf        []byte
	mask       uint16
	head, tail uint16
	used       uint16

	readWaiters  sched.WaitList
	writeWaiters sched.WaitList
}

// NewPipe rounds size up to the next power of two (clamped to
// [PipeMinSize, PipeMaxSize]) and allocates the backing ring.
func NewPipe(size int) *Pipe {
	if size < PipeMinSize {
		size = PipeMinSize
	}
	if size > PipeMaxSize {
		size = PipeMaxSize
	}
	sz := 1
	for sz < size {
		sz <<= 1
	}
	return &Pipe{buf: make([]byte, sz), mask: uint16(sz - 1)}
}

func (p *Pipe) isEmpty() bool     { return p.used == 0 }
func (p *Pipe) isFull() bool      { return int(p.used) == len(p.buf) }
func (p *Pipe) freeSpace() uint16 { return uint16(len(p.buf)) - p.used }

func (p *Pipe) putByte(c byte) {
	p.buf[p.tail] = c
	p.tail = (p.tail + 1) & p.mask
	p.used++
}

func (p *Pipe) getByte() byte {
	c := p.buf[p.head]
	p.head = (p.head + 1) & p.mask
	p.used--
	return c
}

// Write copies all of src, blocking whenever the pipe is full, and
// returns the count written (always len(src)), mirroring
// pipe_bulk_write's contiguous-chunk copy collapsed to one byte at a time
// (there is no memcpy equivalent worth porting for a ring this small).
func (p *Pipe) Write(src []byte) (int, errno.Errno) {
	n := 0
	for n < len(src) {
		if p.isFull() {
			t := sched.Current()
			p.writeWaiters.PushBack(t)
			sched.Block()
			continue
		}
		p.putByte(src[n])
		n++
		if w := p.readWaiters.PopFront(); w != nil {
			sched.Wake(w)
		}
	}
	return n, errno.OK
}

// Read fills dst up to its length, blocking while the pipe is empty, and
// returns the count actually read, mirroring pipe_bulk_read.
func (p *Pipe) Read(dst []byte) (int, errno.Errno) {
	n := 0
	for n < len(dst) {
		if p.isEmpty() {
			if n > 0 {
				break // short read once some data has been delivered
			}
			t := sched.Current()
			p.readWaiters.PushBack(t)
			sched.Block()
			continue
		}
		dst[n] = p.getByte()
		n++
		if w := p.writeWaiters.PopFront(); w != nil {
			sched.Wake(w)
		}
	}
	return n, errno.OK
}

// Used reports how many bytes are currently buffered.
func (p *Pipe) Used() int { return int(p.used) }

// FreeSpace reports how many bytes can be written before Write blocks.
func (p *Pipe) FreeSpace() int { return int(p.freeSpace()) }
