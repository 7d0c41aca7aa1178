// Package syscall is the system-call gate: it receives a trapframe already
// routed here by kernel/trap on an ecall, reads the syscall number and
// arguments out of a7/a0-a2, and returns the result in a0. Syscalls are
// dispatched through a fixed-size array of handler functions indexed
// directly by syscall number rather than a runtime switch statement.
package syscall

import (
	"rvkernel/arch/riscv"
	"rvkernel/kernel/errno"
	"rvkernel/kernel/sched"
	"rvkernel/kernel/sync"
)

// Syscall numbers, matching the a7 values user tasks place before ecall.
const (
	SysTid = iota
	SysYield
	SysMutexLock
	SysMutexUnlock
	SysMutexTrylock
	SysCondWait
	SysCondSignal
	SysCondBroadcast
	SysMQSend
	SysMQRecv
	SysExit
	numSyscalls
)

// Gate owns the handle tables user tasks index into: a syscall argument
// never carries a pointer (U-mode cannot be trusted with one), only a
// small integer handle the kernel resolves itself.
type Gate struct {
	mutexes [maxHandles]*sync.Mutex
	conds   [maxHandles]*sync.Cond
	queues  [maxHandles]*sync.MQueue

	handlers [numSyscalls]func(g *Gate, f *riscv.TrapFrame) uint32
}

const maxHandles = 32

// NewGate builds the syscall jump table once; Dispatch then only ever
// indexes into it.
func NewGate() *Gate {
	g := &Gate{}
	g.handlers = [numSyscalls]func(*Gate, *riscv.TrapFrame) uint32{
		SysTid:           sysTid,
		SysYield:         sysYield,
		SysMutexLock:     sysMutexLock,
		SysMutexUnlock:   sysMutexUnlock,
		SysMutexTrylock:  sysMutexTrylock,
		SysCondWait:      sysCondWait,
		SysCondSignal:    sysCondSignal,
		SysCondBroadcast: sysCondBroadcast,
		SysMQSend:        sysMQSend,
		SysMQRecv:        sysMQRecv,
		SysExit:          sysExit,
	}
	return g
}

// BindMutex/BindCond/BindQueue register a kernel-side object under a
// handle a task can pass from user code. Boot code calls these while
// setting up a task's initial resources; there is no sys_mutex_create
// syscall because flexpage/memspace setup (component 4.4) already runs
// in M-mode before a task's first instruction.
func (g *Gate) BindMutex(handle uint32, m *sync.Mutex) { g.mutexes[handle%maxHandles] = m }
func (g *Gate) BindCond(handle uint32, c *sync.Cond)   { g.conds[handle%maxHandles] = c }
func (g *Gate) BindQueue(handle uint32, q *sync.MQueue) { g.queues[handle%maxHandles] = q }

// Dispatch implements trap.SyscallGate.
func (g *Gate) Dispatch(f *riscv.TrapFrame) *riscv.TrapFrame {
	num := f.SyscallNum()
	if num >= numSyscalls || g.handlers[num] == nil {
		f.SetSyscallResult(errno.Unknown.Uint32())
		return f
	}
	result := g.handlers[num](g, f)
	f.SetSyscallResult(result)
	return f
}

func sysTid(g *Gate, f *riscv.TrapFrame) uint32 {
	t := sched.Current()
	if t == nil {
		return errno.TaskNotFound.Uint32()
	}
	return t.ID
}

func sysYield(g *Gate, f *riscv.TrapFrame) uint32 {
	sched.Yield()
	return errno.OK.Uint32()
}

func sysMutexLock(g *Gate, f *riscv.TrapFrame) uint32 {
	m := g.mutexes[f.SyscallArg(0)%maxHandles]
	if m == nil {
		return errno.NotOwner.Uint32()
	}
	return uint32(m.Lock())
}

func sysMutexUnlock(g *Gate, f *riscv.TrapFrame) uint32 {
	m := g.mutexes[f.SyscallArg(0)%maxHandles]
	if m == nil {
		return errno.NotOwner.Uint32()
	}
	return uint32(m.Unlock())
}

func sysMutexTrylock(g *Gate, f *riscv.TrapFrame) uint32 {
	m := g.mutexes[f.SyscallArg(0)%maxHandles]
	if m == nil {
		return errno.NotOwner.Uint32()
	}
	return uint32(m.TryLock())
}

func sysCondWait(g *Gate, f *riscv.TrapFrame) uint32 {
	c := g.conds[f.SyscallArg(0)%maxHandles]
	m := g.mutexes[f.SyscallArg(1)%maxHandles]
	if c == nil || m == nil {
		return errno.NotOwner.Uint32()
	}
	return uint32(c.Wait(m))
}

func sysCondSignal(g *Gate, f *riscv.TrapFrame) uint32 {
	c := g.conds[f.SyscallArg(0)%maxHandles]
	if c == nil {
		return errno.Unknown.Uint32()
	}
	return uint32(c.Signal())
}

func sysCondBroadcast(g *Gate, f *riscv.TrapFrame) uint32 {
	c := g.conds[f.SyscallArg(0)%maxHandles]
	if c == nil {
		return errno.Unknown.Uint32()
	}
	return uint32(c.Broadcast())
}

func sysMQSend(g *Gate, f *riscv.TrapFrame) uint32 {
	q := g.queues[f.SyscallArg(0)%maxHandles]
	if q == nil {
		return errno.Unknown.Uint32()
	}
	msg := sync.Message{Tag: f.SyscallArg(1), Payload: f.SyscallArg(2)}
	return uint32(q.Send(msg))
}

func sysMQRecv(g *Gate, f *riscv.TrapFrame) uint32 {
	q := g.queues[f.SyscallArg(0)%maxHandles]
	if q == nil {
		return errno.Unknown.Uint32()
	}
	msg, e := q.Recv()
	if e != errno.OK {
		return uint32(e)
	}
	return msg.Payload
}

func sysExit(g *Gate, f *riscv.TrapFrame) uint32 {
	t := sched.Current()
	if t != nil {
		t.State = sched.Unused
	}
	return errno.OK.Uint32()
}
