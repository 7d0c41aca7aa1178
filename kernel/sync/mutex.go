// Package sync implements the kernel's synchronization primitives
// (components 4.5-4.7): a non-recursive mutex with FIFO ownership
// transfer, a condition variable, and a message queue, ported closely
// from the reference kernel's kernel/mutex.c and kernel/mqueue.c. The
// reference's spinlock-protected list operations become plain field
// accesses here: this kernel's scheduler already guarantees only one
// task's Go code runs at a time (sched.Scheduler's goroutine baton), so
// the spin_lock_irqsave/spin_unlock_irqrestore pairs around every list
// operation in the original have no counterpart to port - mutual
// exclusion between tasks is structural, not achieved by disabling
// interrupts.
package sync

import (
	"rvkernel/kernel/errno"
	"rvkernel/kernel/sched"
)

// noOwner marks a free mutex. sched hands out task IDs starting at 1, but
// the sentinel here is all ones rather than 0; it is also what selfID
// reports when no task is current.
const noOwner = ^uint32(0)

// Mutex is a non-recursive lock. Unlock transfers ownership directly to
// the head of the FIFO wait queue instead of waking every waiter to
// re-contend, which is what makes lock acquisition order equal arrival
// order.
type Mutex struct {
	ownerID uint32
	waiters sched.WaitList
	valid   bool
}

// NewMutex mirrors mo_mutex_init.
func NewMutex() *Mutex {
	return &Mutex{ownerID: noOwner, valid: true}
}

// Destroy mirrors mo_mutex_destroy: refuses while owned or while tasks
// are waiting, since either would orphan a blocked task.
func (m *Mutex) Destroy() errno.Errno {
	if !m.valid {
		return errno.OK
	}
	if !m.waiters.Empty() {
		return errno.TaskBusy
	}
	if m.ownerID != noOwner {
		return errno.TaskBusy
	}
	m.valid = false
	return errno.OK
}

func selfID() uint32 {
	t := sched.Current()
	if t == nil {
		return noOwner
	}
	return t.ID
}

// Lock mirrors mo_mutex_lock: fast path acquires immediately if free,
// slow path blocks the caller and only returns once ownership has been
// handed to it directly by Unlock.
func (m *Mutex) Lock() errno.Errno {
	self := selfID()
	if m.ownerID == self {
		return errno.TaskBusy
	}
	if m.ownerID == noOwner {
		m.ownerID = self
		return errno.OK
	}

	t := sched.Current()
	m.waiters.PushBack(t)
	sched.Block()
	// Woken by Unlock, which has already set m.ownerID = t.ID.
	return errno.OK
}

// TimedLock mirrors mo_mutex_timedlock: blocks like Lock, but gives up
// and returns errno.Timeout if ownership has not been transferred within
// ticks scheduler ticks. A ticks value of 0 degrades to TryLock, matching
// the reference kernel's "zero timeout = try only" shortcut.
func (m *Mutex) TimedLock(ticks uint64) errno.Errno {
	if ticks == 0 {
		return m.TryLock()
	}
	self := selfID()
	if m.ownerID == self {
		return errno.TaskBusy
	}
	if m.ownerID == noOwner {
		m.ownerID = self
		return errno.OK
	}

	t := sched.Current()
	m.waiters.PushBack(t)
	sched.BlockTimed(ticks)

	if sched.TimedOut(t) {
		m.waiters.Remove(t)
		if m.ownerID == self {
			return errno.OK // race: unlock and timeout landed together
		}
		return errno.Timeout
	}
	return errno.OK
}

// TryLock mirrors mo_mutex_trylock.
func (m *Mutex) TryLock() errno.Errno {
	self := selfID()
	if m.ownerID == self {
		return errno.TaskBusy
	}
	if m.ownerID != noOwner {
		return errno.TaskBusy
	}
	m.ownerID = self
	return errno.OK
}

// Unlock mirrors mo_mutex_unlock: verifies ownership, then either frees
// the mutex or transfers ownership to the next FIFO waiter without
// letting it re-contend against a newcomer.
func (m *Mutex) Unlock() errno.Errno {
	self := selfID()
	if m.ownerID != self {
		return errno.NotOwner
	}
	next := m.waiters.PopFront()
	if next == nil {
		m.ownerID = noOwner
		return errno.OK
	}
	m.ownerID = next.ID
	sched.Wake(next)
	return errno.OK
}

// OwnedByCurrent mirrors mo_mutex_owned_by_current.
func (m *Mutex) OwnedByCurrent() bool { return m.ownerID == selfID() }

// WaitingCount mirrors mo_mutex_waiting_count.
func (m *Mutex) WaitingCount() int { return m.waiters.Len() }
