package sched

import (
	"rvkernel/arch/riscv"
	"rvkernel/kernel/errno"
	"rvkernel/kernel/spinlock"
)

const maxTasks = 8 // mirrors NPROC

// Scheduler mirrors proc[NPROC]/scheduler(): a fixed task table scanned
// round-robin, with current always pointing at whichever task currently
// holds the baton. lock guards the table itself (Spawn's slot search,
// Step's scan and current assignment), the same way the reference kernel
// takes the process-table lock around those operations before handing a
// proc its own p->lock.
type Scheduler struct {
	tasks   [maxTasks]*Task
	nextID  uint32
	current *Task
	next    int // round-robin cursor, like scheduler()'s for loop index
	ticks   uint64
	lock    spinlock.Lock
	timers  *TimerTable
}

// AttachTimers installs the software timer table Tick drives on every
// scheduling tick, mirroring the reference kernel calling
// _timer_tick_handler out of the same clock interrupt that reschedules.
func (s *Scheduler) AttachTimers(tt *TimerTable) { s.timers = tt }

var active *Scheduler

// New creates an empty scheduler and installs it as the one Yield/Delay
// address (mirrors current_proc being a single package-level variable:
// this kernel runs one hart, so one active scheduler). Task IDs start at
// 1, so 0 never names a real task.
func New() *Scheduler {
	s := &Scheduler{nextID: 1}
	active = s
	return s
}

// Spawn mirrors allocProc: finds a free task slot, wires up entry as the
// new task's body and marks it Ready. Its slot does not decide when it
// runs: Step always prefers a lower Priority value, so a task spawned at
// PriorityIdle runs only when no other task is Ready.
func (s *Scheduler) Spawn(name string, priority Priority, entry func()) (*Task, errno.Errno) {
	saved := s.lock.AcquireIRQSave()
	defer s.lock.ReleaseIRQRestore(saved)

	for i, t := range s.tasks {
		if t == nil {
			task := newTask(s.nextID, name, priority, entry)
			s.nextID++
			s.tasks[i] = task
			go task.run()
			return task, errno.OK
		}
	}
	return nil, errno.TCBAlloc
}

// Current returns the task presently holding the baton, or nil if called
// from outside any task (e.g. during boot before the first Step).
func Current() *Task {
	if active == nil {
		return nil
	}
	return active.current
}

// Yield mirrors yield(p): the calling task voluntarily gives the baton
// back to the scheduler and blocks until it is resumed. Must only be
// called from within a task's own goroutine.
func Yield() {
	t := Current()
	if t == nil {
		return
	}
	t.State = Ready
	t.done <- struct{}{}
	<-t.proceed
	t.State = Running
}

// Block parks the calling task off the round-robin rotation (e.g. waiting
// on a mutex or condition variable) until some other task calls Wake.
func Block() {
	t := Current()
	if t == nil {
		return
	}
	t.State = Blocked
	t.done <- struct{}{}
	<-t.proceed
	t.State = Running
}

// Wake mirrors moving a waiter back to RUNNABLE: sync primitives call this
// directly on the task they just handed ownership/a signal to. Clears
// timedOut so a task explicitly signaled a tick before its deadline is
// not mistaken for one that timed out.
func Wake(t *Task) {
	if t.State == Blocked || t.State == Sleeping {
		t.State = Ready
		t.timedOut = false
	}
}

// Delay blocks the calling task for at least ticks scheduler ticks,
// mirroring the reference kernel's tick-based software timers (timer.c)
// collapsed onto the same Blocked/Ready machinery cond/mutex waits use,
// since this kernel has one wait queue discipline rather than a second
// parallel sleep list.
func Delay(ticks uint64) {
	t := Current()
	if t == nil || active == nil {
		return
	}
	t.State = Sleeping
	t.wakeTick = active.ticks + ticks
	t.done <- struct{}{}
	<-t.proceed
	t.State = Running
}

// BlockTimed parks the calling task off the rotation like Block, but with
// a deadline: if no one calls Wake before ticks scheduler ticks pass, the
// scheduler's own deadline sweep (see wake()) moves it back to Ready and
// marks it TimedOut. Used by sync.Mutex.TimedLock and sync.Cond.TimedWait,
// mirroring mo_mutex_timedlock/mo_cond_timedwait's reuse of the task delay
// mechanism for a wait-queue timeout.
func BlockTimed(ticks uint64) {
	t := Current()
	if t == nil || active == nil {
		return
	}
	t.State = Sleeping
	t.wakeTick = active.ticks + ticks
	t.timedOut = false
	t.done <- struct{}{}
	<-t.proceed
	t.State = Running
}

// TimedOut reports whether t's most recent BlockTimed wait ended because
// its deadline passed rather than because Wake was called.
func TimedOut(t *Task) bool { return t.timedOut }

// Step picks the highest-priority Ready task (lower Priority value wins)
// and hands it the baton for exactly one quantum (until it calls Yield,
// Block, Delay, or returns/exits), mirroring scheduler()'s for loop body
// minus the infinite outer loop (callers drive Step from Tick or from
// tests). Ties are broken by round-robin cursor position, so tasks of
// equal priority still rotate fairly among themselves instead of one
// slot starving the rest.
func (s *Scheduler) Step() {
	saved := s.lock.AcquireIRQSave()
	s.wake()

	pick := -1
	for i := 0; i < maxTasks; i++ {
		idx := (s.next + i) % maxTasks
		t := s.tasks[idx]
		if t == nil || t.State != Ready {
			continue
		}
		if pick == -1 || t.Priority < s.tasks[pick].Priority {
			pick = idx
		}
	}
	if pick == -1 {
		s.lock.ReleaseIRQRestore(saved)
		return
	}

	t := s.tasks[pick]
	s.next = (pick + 1) % maxTasks
	s.current = t
	t.State = Running
	s.lock.ReleaseIRQRestore(saved) // release before handing off the baton: resume() blocks
	t.resume()
	saved = s.lock.AcquireIRQSave()
	s.current = nil
	if t.exited {
		s.tasks[pick] = nil
	}
	s.lock.ReleaseIRQRestore(saved)
}

// wake moves every Sleeping task whose deadline has passed back to Ready,
// mirroring _timer_tick_handler's expiry sweep.
func (s *Scheduler) wake() {
	for _, t := range s.tasks {
		if t != nil && t.State == Sleeping && s.ticks >= t.wakeTick {
			t.State = Ready
			t.timedOut = true
		}
	}
}

// Tick implements trap.Scheduler: called by the trap dispatcher on every
// machine timer interrupt. It advances the tick counter and runs one
// scheduling step, then returns the same frame it was given: the actual
// register-level context swap stays the entry-sequence assembly's job,
// so at the Go level Tick only decides *which* task's goroutine should
// hold the baton next.
func (s *Scheduler) Tick(interrupted *riscv.TrapFrame) *riscv.TrapFrame {
	s.ticks++
	if s.timers != nil {
		s.timers.Tick(s.ticks)
	}
	s.Step()
	return interrupted
}

// Ticks reports the current tick count, for timer deadline math.
func (s *Scheduler) Ticks() uint64 { return s.ticks }

// RunUntilIdle drives Step in a loop until no task is Ready (every task is
// Blocked, Sleeping or gone) or maxSteps steps have run, useful for
// host-side tests that want deterministic completion instead of hooking a
// real timer interrupt. It never advances the tick count.
func (s *Scheduler) RunUntilIdle(maxSteps int) {
	for i := 0; i < maxSteps; i++ {
		anyReady := false
		for _, t := range s.tasks {
			if t != nil && t.State == Ready {
				anyReady = true
			}
		}
		if !anyReady {
			return
		}
		s.Step()
	}
}
