// Package spinlock provides the subsystem lock the scheduler uses to guard
// its task table. The kernel/sync primitives do not take it (see that
// package's doc). On real hardware this is a test-and-set spinlock with
// interrupts disabled for the duration of the critical section; the
// companion IRQ save/restore here plays the same role against the
// scheduler's timer tick, which is this kernel's only source of
// preemption.
package spinlock

import "sync/atomic"

// Lock is a test-and-set spinlock. Its zero value is unlocked.
type Lock struct {
	locked uint32
}

// Acquire spins until the lock is taken.
func (l *Lock) Acquire() {
	for !atomic.CompareAndSwapUint32(&l.locked, 0, 1) {
	}
}

// Release frees the lock.
func (l *Lock) Release() {
	atomic.StoreUint32(&l.locked, 0)
}

// preemptDisable counts nested IRQ-save sections. While non-zero, the
// scheduler must not preempt the running task (see PreemptionDisabled).
var preemptDisable uint32

// AcquireIRQSave disables preemption and takes the lock, returning the
// new preemption depth, which the caller hands back to ReleaseIRQRestore.
// This mirrors spin_lock_irqsave/spin_unlock_irqrestore in the reference
// kernel: interrupts (here, scheduler preemption) stay off for exactly the
// scope of the critical section.
func (l *Lock) AcquireIRQSave() uint32 {
	saved := atomic.AddUint32(&preemptDisable, 1)
	l.Acquire()
	return saved
}

// ReleaseIRQRestore releases the lock and undoes the matching
// AcquireIRQSave's increment of the preemption depth; it does not read the
// value passed in.
func (l *Lock) ReleaseIRQRestore(uint32) {
	l.Release()
	atomic.AddUint32(&preemptDisable, ^uint32(0)) // -1
}

// PreemptionDisabled reports whether any critical section is currently
// held, i.e. whether the scheduler's timer tick must not preempt.
func PreemptionDisabled() bool {
	return atomic.LoadUint32(&preemptDisable) != 0
}
