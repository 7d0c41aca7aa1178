package sched

// WaitList is an intrusive FIFO queue of blocked tasks, built from the
// WaitNext/WaitPrev fields embedded directly in Task rather than a
// generic linked-list container: typed pointer fields on the owning
// struct, not a void*-style node. kernel/sync's mutex, cond and mqueue
// each hold one WaitList for their waiters.
type WaitList struct {
	head *Task
	tail *Task
	len  int
}

// Len reports the number of waiters currently queued.
func (w *WaitList) Len() int { return w.len }

// Empty reports whether no task is waiting.
func (w *WaitList) Empty() bool { return w.len == 0 }

// PushBack enqueues t at the tail, preserving arrival order for strict
// FIFO wakeup (mutex fairness requires this: see kernel/sync/mutex.go).
func (w *WaitList) PushBack(t *Task) {
	t.WaitNext = nil
	t.WaitPrev = w.tail
	if w.tail != nil {
		w.tail.WaitNext = t
	} else {
		w.head = t
	}
	w.tail = t
	t.waiting = true
	w.len++
}

// PopFront removes and returns the head waiter, or nil if the list is
// empty.
func (w *WaitList) PopFront() *Task {
	t := w.head
	if t == nil {
		return nil
	}
	w.head = t.WaitNext
	if w.head != nil {
		w.head.WaitPrev = nil
	} else {
		w.tail = nil
	}
	t.WaitNext = nil
	t.WaitPrev = nil
	t.waiting = false
	w.len--
	return t
}

// Remove unlinks t from the list regardless of position, for timed waits
// that expire before being woken. A no-op if t is not currently linked in
// this list (e.g. a timeout and a PopFront/Unlock race landed together and
// the waiter was already removed by the other side), so callers never need
// to check first and len never double-decrements.
func (w *WaitList) Remove(t *Task) {
	if !t.waiting {
		return
	}
	if t.WaitPrev != nil {
		t.WaitPrev.WaitNext = t.WaitNext
	} else if w.head == t {
		w.head = t.WaitNext
	}
	if t.WaitNext != nil {
		t.WaitNext.WaitPrev = t.WaitPrev
	} else if w.tail == t {
		w.tail = t.WaitPrev
	}
	t.WaitNext = nil
	t.WaitPrev = nil
	t.waiting = false
	w.len--
}
