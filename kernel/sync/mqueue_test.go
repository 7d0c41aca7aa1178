//go:build !tinygo

package sync

import (
	"testing"

	"rvkernel/kernel/errno"
	"rvkernel/kernel/sched"
)

func TestMQueueSendRecvOrder(t *testing.T) {
	q := NewMQueue(4)

	for i := uint32(1); i <= 3; i++ {
		if e := q.Send(Message{Tag: i}); e != errno.OK {
			t.Fatalf("Send(%d) = %v", i, e)
		}
	}

	var got []uint32
	for i := 0; i < 3; i++ {
		msg, e := q.Recv()
		if e != errno.OK {
			t.Fatalf("Recv() = %v", e)
		}
		got = append(got, msg.Tag)
	}

	want := []uint32{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got = %v, want %v", got, want)
		}
	}

	if _, e := q.Recv(); e != errno.Fail {
		t.Fatalf("Recv() on an empty queue = %v, want Fail", e)
	}
}

func TestMQueueSendFailsImmediatelyWhenFull(t *testing.T) {
	q := NewMQueue(1)

	if e := q.Send(Message{Tag: 1}); e != errno.OK {
		t.Fatalf("first Send() = %v, want OK", e)
	}
	if e := q.Send(Message{Tag: 2}); e != errno.Fail {
		t.Fatalf("Send() on a full queue = %v, want Fail", e)
	}
	if q.Count() != 1 {
		t.Fatalf("Count() = %d, want 1 (rejected send must not enqueue)", q.Count())
	}

	// Freeing a slot lets a subsequent Send through; it never had to block.
	msg, e := q.Recv()
	if e != errno.OK || msg.Tag != 1 {
		t.Fatalf("Recv() = (%v, %v), want (1, OK)", msg, e)
	}
	if e := q.Send(Message{Tag: 2}); e != errno.OK {
		t.Fatalf("Send() after Recv freed a slot = %v, want OK", e)
	}
}

func TestMQueueDestroyRefusesNonEmpty(t *testing.T) {
	q := NewMQueue(2)
	q.Send(Message{Tag: 1})
	if e := q.Destroy(); e != errno.MQNotEmpty {
		t.Fatalf("Destroy() on non-empty queue = %v, want MQNotEmpty", e)
	}
	q.Recv()
	if e := q.Destroy(); e != errno.OK {
		t.Fatalf("Destroy() on empty queue = %v, want OK", e)
	}
}

func TestMQueueTimedRecvExpires(t *testing.T) {
	s := sched.New()
	q := NewMQueue(2)
	var result errno.Errno

	s.Spawn("receiver", 0, func() {
		_, result = q.TimedRecv(2)
	})

	for i := 0; i < 8; i++ {
		s.Tick(nil)
	}
	s.RunUntilIdle(8)

	if result != errno.Timeout {
		t.Fatalf("TimedRecv() = %v, want Timeout", result)
	}
}

func TestMQueueTimedRecvZeroTicksIsImmediateTimeout(t *testing.T) {
	q := NewMQueue(2)
	_, e := q.TimedRecv(0)
	if e != errno.Timeout {
		t.Fatalf("TimedRecv(0) on empty queue = %v, want Timeout", e)
	}
}

func TestMQueuePeekDoesNotRemove(t *testing.T) {
	q := NewMQueue(2)
	q.Send(Message{Tag: 7, Payload: 42})

	msg, ok := q.Peek()
	if !ok || msg.Tag != 7 {
		t.Fatalf("Peek() = (%v, %v), want (tag 7, true)", msg, ok)
	}
	if q.Count() != 1 {
		t.Fatalf("Count() after Peek = %d, want 1", q.Count())
	}
}
