// Package kernel wires together the PMP engine, the scheduler and the
// syscall gate into the boot sequence the reference kernel's KMain
// performs.
package kernel

import (
	"rvkernel/kernel/console"
	"rvkernel/kernel/errno"
	"rvkernel/kernel/mem"
	"rvkernel/kernel/pmp"
	"rvkernel/kernel/sched"
	"rvkernel/kernel/syscall"
)

// Kernel bundles the singletons Boot wires up, returned so cmd/hostsim
// (or a tinygo main) can spawn tasks and drive the scheduler afterward.
type Kernel struct {
	PMP       *pmp.Config
	Scheduler *sched.Scheduler
	Gate      *syscall.Gate
	Kernspace *mem.Memspace
	Timers    *sched.TimerTable
}

// Boot mirrors KMain: initialize PMP with the static kernel pools first
// (so the kernel's own text/data/bss/heap/stack are protected before
// anything else runs), then the scheduler, then the syscall gate. The
// idle task is spawned here, before any application task, at
// PriorityIdle: Step picks it only when no other task is Ready, so it
// never takes a quantum from real work.
func Boot() *Kernel {
	console.Printf("pmp init... ")
	p := &pmp.Config{}
	if e := p.InitKernel(); e != errno.OK {
		console.Printf("FAIL: %s\n", e.Error())
	} else {
		console.Printf("OK\n")
	}

	console.Printf("scheduler init... ")
	s := sched.New()
	timers := sched.NewTimerTable()
	s.AttachTimers(timers)
	console.Printf("OK\n")

	console.Printf("syscall gate init... ")
	g := syscall.NewGate()
	console.Printf("OK\n")

	kspace := mem.NewMemspace(0, false, p)

	console.Printf("idle task... ")
	s.Spawn("idle", sched.PriorityIdle, idleLoop)
	console.Printf("OK\n")

	return &Kernel{
		PMP:       p,
		Scheduler: s,
		Gate:      g,
		Kernspace: kspace,
		Timers:    timers,
	}
}

// idleLoop is the lowest-priority task: it never exits, yielding forever
// so the round-robin scan always has at least one Ready task and Step
// never finds an empty table. Mirrors hal_cpu_idle's wfi loop, expressed
// as a cooperative task instead of a power-saving instruction since that
// instruction is part of the excluded assembly surface.
func idleLoop() {
	for {
		sched.Yield()
	}
}
