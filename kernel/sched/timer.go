package sched

import "rvkernel/kernel/errno"

// Timer mode, mirroring TIMER_ONESHOT/TIMER_AUTORELOAD/TIMER_DISABLED.
type TimerMode uint8

const (
	TimerDisabled TimerMode = iota
	TimerOneshot
	TimerAutoReload
)

// Timer mirrors timer_t: a tick-deadline callback, independent of any
// task's own sleep/wake state. Supplements Delay/Block for kernel code
// that wants "run this every N ticks" without dedicating a task to it
// (e.g. a watchdog or a periodic flush), matching the reference kernel's
// kernel/timer.c.
type Timer struct {
	id         uint16
	callback   func(arg interface{})
	arg        interface{}
	periodTick uint64
	deadline   uint64
	mode       TimerMode
}

// TimerTable mirrors kcb->timer_list: a flat slice of armed/disarmed
// timers scanned linearly on every tick. A pre-allocated node pool and ID
// cache are a microbenchmark optimization over a fixed small C array;
// a handful of timers scanned with a Go slice needs neither.
type TimerTable struct {
	timers []*Timer
	nextID uint16
}

// NewTimerTable creates an empty timer table, IDs starting at 0x6000 as
// in the reference kernel (kept so the numbering does not collide with
// small integer values used elsewhere, e.g. task or mutex IDs).
func NewTimerTable() *TimerTable {
	return &TimerTable{nextID: 0x6000}
}

// Create registers a new disabled timer, mirroring mo_timer_create.
func (tt *TimerTable) Create(periodTicks uint64, callback func(arg interface{}), arg interface{}) (uint16, errno.Errno) {
	if callback == nil || periodTicks == 0 {
		return 0, errno.Unknown
	}
	t := &Timer{id: tt.nextID, callback: callback, arg: arg, periodTick: periodTicks, mode: TimerDisabled}
	tt.nextID++
	tt.timers = append(tt.timers, t)
	return t.id, errno.OK
}

func (tt *TimerTable) find(id uint16) *Timer {
	for _, t := range tt.timers {
		if t.id == id {
			return t
		}
	}
	return nil
}

// Start arms a timer in the given mode, deadline relative to now.
func (tt *TimerTable) Start(id uint16, mode TimerMode, now uint64) errno.Errno {
	if mode != TimerOneshot && mode != TimerAutoReload {
		return errno.Unknown
	}
	t := tt.find(id)
	if t == nil {
		return errno.Unknown
	}
	t.mode = mode
	t.deadline = now + t.periodTick
	return errno.OK
}

// Cancel disarms a timer without destroying it.
func (tt *TimerTable) Cancel(id uint16) errno.Errno {
	t := tt.find(id)
	if t == nil || t.mode == TimerDisabled {
		return errno.Unknown
	}
	t.mode = TimerDisabled
	return errno.OK
}

// Destroy removes a timer entirely, mirroring mo_timer_destroy.
func (tt *TimerTable) Destroy(id uint16) errno.Errno {
	for i, t := range tt.timers {
		if t.id == id {
			tt.timers = append(tt.timers[:i], tt.timers[i+1:]...)
			return errno.OK
		}
	}
	return errno.Unknown
}

// Tick mirrors _timer_tick_handler: runs every armed timer whose deadline
// has passed, re-arming autoreload timers for their next period.
func (tt *TimerTable) Tick(now uint64) {
	for _, t := range tt.timers {
		if t.mode == TimerDisabled || now < t.deadline {
			continue
		}
		t.callback(t.arg)
		if t.mode == TimerAutoReload {
			t.deadline = now + t.periodTick
		} else {
			t.mode = TimerDisabled
		}
	}
}
