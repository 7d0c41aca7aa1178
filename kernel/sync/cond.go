package sync

import (
	"rvkernel/kernel/errno"
	"rvkernel/kernel/sched"
)

// Cond is a condition variable, always used together with a Mutex the
// caller already holds. Mirrors cond_t/mo_cond_*.
type Cond struct {
	waiters sched.WaitList
	valid   bool
}

// NewCond mirrors mo_cond_init.
func NewCond() *Cond { return &Cond{valid: true} }

// Destroy mirrors mo_cond_destroy: refuses while tasks are waiting.
func (c *Cond) Destroy() errno.Errno {
	if !c.valid {
		return errno.OK
	}
	if !c.waiters.Empty() {
		return errno.TaskBusy
	}
	c.valid = false
	return errno.OK
}

// Wait mirrors mo_cond_wait: atomically (from the caller's point of view)
// enqueues the caller, releases m, blocks until Signal/Broadcast, then
// re-acquires m before returning. Returns errno.NotOwner if the caller
// does not hold m.
func (c *Cond) Wait(m *Mutex) errno.Errno {
	if !m.OwnedByCurrent() {
		return errno.NotOwner
	}

	t := sched.Current()
	c.waiters.PushBack(t)

	if e := m.Unlock(); e != errno.OK {
		c.waiters.Remove(t)
		return e
	}

	sched.Block()

	return m.Lock()
}

// TimedWait mirrors mo_cond_timedwait: as Wait, but gives up after ticks
// scheduler ticks with errno.Timeout if not signaled first. The mutex is
// always re-acquired before returning, matching the reference kernel's
// "re-acquire regardless of timeout status" rule.
func (c *Cond) TimedWait(m *Mutex, ticks uint64) errno.Errno {
	if !m.OwnedByCurrent() {
		return errno.NotOwner
	}
	if ticks == 0 {
		return errno.Timeout
	}

	t := sched.Current()
	c.waiters.PushBack(t)

	if e := m.Unlock(); e != errno.OK {
		c.waiters.Remove(t)
		return e
	}

	sched.BlockTimed(ticks)

	timedOut := sched.TimedOut(t)
	if timedOut {
		c.waiters.Remove(t)
	}

	if lockErr := m.Lock(); lockErr != errno.OK {
		return lockErr
	}
	if timedOut {
		return errno.Timeout
	}
	return errno.OK
}

// Signal mirrors mo_cond_signal: wakes the single longest-waiting task,
// if any.
func (c *Cond) Signal() errno.Errno {
	if w := c.waiters.PopFront(); w != nil {
		sched.Wake(w)
	}
	return errno.OK
}

// Broadcast mirrors mo_cond_broadcast: wakes every waiting task.
func (c *Cond) Broadcast() errno.Errno {
	for {
		w := c.waiters.PopFront()
		if w == nil {
			break
		}
		sched.Wake(w)
	}
	return errno.OK
}

// WaitingCount mirrors mo_cond_waiting_count.
func (c *Cond) WaitingCount() int { return c.waiters.Len() }
