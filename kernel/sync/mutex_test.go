//go:build !tinygo

package sync

import (
	"testing"

	"rvkernel/kernel/errno"
	"rvkernel/kernel/sched"
)

func TestMutexFIFOFairness(t *testing.T) {
	s := sched.New()
	m := NewMutex()
	var order []string

	holdAndRecord := func(name string) func() {
		return func() {
			if e := m.Lock(); e != errno.OK {
				t.Errorf("%s: Lock() = %v", name, e)
			}
			order = append(order, name)
			sched.Yield() // hold the mutex across a quantum so later spawns queue up
			if e := m.Unlock(); e != errno.OK {
				t.Errorf("%s: Unlock() = %v", name, e)
			}
		}
	}

	// A acquires immediately (mutex free). Spawn B, C, D only after A is
	// already running and holding the lock, so they queue up behind it in
	// the order they call Lock - exercising the fairness invariant rather
	// than the scheduler's own pick order.
	s.Spawn("A", 0, holdAndRecord("A"))
	s.Step() // A runs: locks, records, yields while holding the mutex

	s.Spawn("B", 0, holdAndRecord("B"))
	s.Spawn("C", 0, holdAndRecord("C"))
	s.Spawn("D", 0, holdAndRecord("D"))

	s.RunUntilIdle(64)

	want := []string{"A", "B", "C", "D"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestMutexNonRecursive(t *testing.T) {
	sched.New()
	m := NewMutex()
	s := sched.New()

	done := false
	s.Spawn("self", 0, func() {
		if e := m.Lock(); e != errno.OK {
			t.Fatalf("first Lock() = %v", e)
		}
		if e := m.Lock(); e != errno.TaskBusy {
			t.Fatalf("recursive Lock() = %v, want TaskBusy", e)
		}
		done = true
	})
	s.RunUntilIdle(8)
	if !done {
		t.Fatal("task did not complete")
	}
}

func TestMutexUnlockByNonOwnerFails(t *testing.T) {
	s := sched.New()
	m := NewMutex()

	s.Spawn("owner", 0, func() {
		m.Lock()
		sched.Yield()
	})
	s.Spawn("intruder", 0, func() {
		if e := m.Unlock(); e != errno.NotOwner {
			t.Errorf("Unlock() by non-owner = %v, want NotOwner", e)
		}
	})
	s.RunUntilIdle(16)
}

// TestMutexTimedLockUnlockTimeoutRace reproduces the race TimedLock's
// comment documents: a waiter's deadline sweep marks it Ready+timedOut
// in the same scheduler step that the lock holder's Unlock pops it off
// the wait queue and transfers ownership. Since the waiter is already
// Ready when Unlock calls sched.Wake, Wake's Blocked/Sleeping guard
// skips clearing timedOut, so the waiter wakes up with a stale timed-out
// flag even though it actually won the lock. This must not corrupt
// WaitList bookkeeping (Remove racing an already-completed PopFront) and
// must still report the correct outcome (ownership, not a timeout).
func TestMutexTimedLockUnlockTimeoutRace(t *testing.T) {
	s := sched.New()
	m := NewMutex()
	var result errno.Errno

	s.Spawn("A", 0, func() {
		m.Lock()
		sched.Yield()
		m.Unlock()
	})
	s.Step() // A: locks, yields while holding the mutex

	s.Spawn("B", 0, func() {
		result = m.TimedLock(1)
	})
	s.Step() // B: blocks in the wait queue with a 1-tick deadline

	// One tick expires B's deadline (wake() marks it Ready+timedOut) and,
	// in the very same Step, the round-robin scan still lands on A first
	// (the cursor sits past B's slot, so the scan wraps to A's slot before
	// reaching B's), so A's Unlock runs in the same window.
	s.Tick(nil)

	if m.WaitingCount() != 0 {
		t.Fatalf("WaitingCount() after the race = %d, want 0", m.WaitingCount())
	}

	s.RunUntilIdle(8) // let B resume past TimedLock's stale-timedOut check

	if result != errno.OK {
		t.Fatalf("TimedLock() result = %v, want OK (ownership won the race)", result)
	}
	if m.WaitingCount() != 0 {
		t.Fatalf("final WaitingCount() = %d, want 0", m.WaitingCount())
	}
}

func TestMutexDestroyRefusesWhileBusy(t *testing.T) {
	s := sched.New()
	m := NewMutex()

	s.Spawn("holder", 0, func() {
		m.Lock()
		sched.Yield()
		m.Unlock()
	})
	s.Step() // holder locks and yields

	if e := m.Destroy(); e != errno.TaskBusy {
		t.Fatalf("Destroy() while owned = %v, want TaskBusy", e)
	}

	s.RunUntilIdle(8)
	if e := m.Destroy(); e != errno.OK {
		t.Fatalf("Destroy() after release = %v, want OK", e)
	}
}
