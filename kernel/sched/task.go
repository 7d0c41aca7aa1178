// Package sched implements round-robin task scheduling, with the
// assembly context switch a real kernel would need replaced by a
// goroutine+channel baton so the same FIFO, single-hart-serialized
// semantics are host testable without real context-switch assembly.
// Exactly one task's logic runs at a time: Scheduler hands the baton to a
// task's goroutine and blocks until that goroutine hands it back, so two
// tasks never execute concurrently even though each has its own stack
// (goroutine).
package sched

// State mirrors procstate, trimmed to the states this kernel's tasks
// actually occupy (no ZOMBIE: tasks here run until Exit and are then
// reclaimed synchronously, there is no parent to reap them).
type State int

const (
	Unused State = iota
	Ready
	Running
	Blocked
	Sleeping // blocked with a wake deadline (BlockTimed waits, Delay)
)

// Priority is a small fixed range, lower numeric value preempts higher.
type Priority uint8

const (
	PriorityIdle Priority = 255
)

// Task mirrors KProc, generalized from a kernel-stack/Context pair
// (an assembly-switch model) to a goroutine the Scheduler resumes via
// channel handshake. WaitNext/WaitPrev are intrusive wait-list fields:
// a task is in at most one wait list at a time (a mutex's waiters, a
// cond's waiters, or a mqueue's blocked receivers), so embedding the
// links directly in Task avoids a generic list node allocation per wait.
type Task struct {
	ID       uint32
	Name     string
	State    State
	Priority Priority

	WaitNext *Task
	WaitPrev *Task
	waiting  bool // true while linked into some WaitList, guards double-removal

	wakeTick uint64 // valid while State == Sleeping
	timedOut bool   // set by the scheduler's deadline sweep, cleared by Wake

	entry   func()
	proceed chan struct{}
	done    chan struct{}
	exited  bool
}

func newTask(id uint32, name string, priority Priority, entry func()) *Task {
	return &Task{
		ID:       id,
		Name:     name,
		State:    Ready,
		Priority: priority,
		entry:    entry,
		proceed:  make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// run is the task's goroutine body: wait for the first baton, run entry
// to completion (or until it never returns, for the idle task), then
// signal done one last time so the scheduler doesn't hang waiting on a
// dead goroutine.
func (t *Task) run() {
	<-t.proceed
	t.entry()
	t.exited = true
	t.done <- struct{}{}
}

// resume hands the baton to the task and blocks until it yields it back.
func (t *Task) resume() {
	t.proceed <- struct{}{}
	<-t.done
}
