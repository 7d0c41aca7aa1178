package sync

import (
	"rvkernel/kernel/errno"
	"rvkernel/kernel/sched"
)

// MaxSemCount mirrors SEM_MAX_COUNT, a sanity ceiling on the token count
// so a runaway Post loop cannot wrap the counter.
const MaxSemCount = 1 << 20

// Semaphore is a counting semaphore with a FIFO wait queue, supplementing
// Mutex/Cond, grounded in the reference kernel's kernel/semaphore.c.
type Semaphore struct {
	count   int32
	waiters sched.WaitList
}

// NewSemaphore mirrors mo_sem_create.
func NewSemaphore(initial int32) (*Semaphore, errno.Errno) {
	if initial < 0 || initial > MaxSemCount {
		return nil, errno.SemAlloc
	}
	return &Semaphore{count: initial}, errno.OK
}

// Destroy mirrors mo_sem_destroy: refuses while tasks are waiting.
func (s *Semaphore) Destroy() errno.Errno {
	if !s.waiters.Empty() {
		return errno.SemOperation
	}
	return errno.OK
}

// Wait (pend) mirrors mo_sem_wait: decrements the count if positive,
// otherwise blocks the caller in FIFO order until a matching Post.
func (s *Semaphore) Wait() errno.Errno {
	if s.count > 0 {
		s.count--
		return errno.OK
	}
	t := sched.Current()
	s.waiters.PushBack(t)
	sched.Block()
	return errno.OK
}

// TryWait mirrors a non-blocking pend: succeeds only if a token is
// immediately available.
func (s *Semaphore) TryWait() errno.Errno {
	if s.count > 0 {
		s.count--
		return errno.OK
	}
	return errno.SemOperation
}

// Post (signal) mirrors mo_sem_signal: wakes the longest-waiting blocked
// task if any, otherwise increments the count for a future Wait.
func (s *Semaphore) Post() errno.Errno {
	if w := s.waiters.PopFront(); w != nil {
		sched.Wake(w)
		return errno.OK
	}
	if s.count >= MaxSemCount {
		return errno.SemOperation
	}
	s.count++
	return errno.OK
}

// Count reports the current token count (0 while tasks are waiting).
func (s *Semaphore) Count() int32 { return s.count }

// WaitingCount reports how many tasks are blocked on this semaphore.
func (s *Semaphore) WaitingCount() int { return s.waiters.Len() }
