package client

import (
	"testing"
	"time"
)

func TestTimerHeapRejectsSubMinimumInterval(t *testing.T) {
	h := newTimerHeap()
	if _, err := h.add(time.Now(), time.Millisecond, func(*Client, any) {}, nil); err == nil {
		t.Fatal("expected BadInvalidArgument for an interval below MinTimerInterval")
	}
}

func TestTimerHeapFiresInOrderAndReschedulesDriftFree(t *testing.T) {
	c := New()
	base := time.Unix(0, 0)
	c.clock = func() time.Time { return base }

	var fired []string
	c.timers.add(base, 10*time.Millisecond, func(*Client, any) { fired = append(fired, "a") }, nil)
	c.timers.add(base, 20*time.Millisecond, func(*Client, any) { fired = append(fired, "b") }, nil)

	// Advance well past both first fires, in one jump, with no starvation:
	// each timer should still land on its own schedule multiple.
	now := base.Add(21 * time.Millisecond)
	c.timers.runDue(c, now)

	if len(fired) != 2 || fired[0] != "a" || fired[1] != "b" {
		t.Fatalf("expected [a b] fired in nextFireAt order, got %v", fired)
	}

	// "a" was due at +10ms and should reschedule from its own previous
	// scheduled time (drift-free), landing at +20ms, not now+10ms=+31ms.
	rc := c.timers.byID[1]
	want := base.Add(20 * time.Millisecond)
	if !rc.nextFireAt.Equal(want) {
		t.Fatalf("drift-free reschedule: want next fire at %v, got %v", want, rc.nextFireAt)
	}
}

func TestTimerHeapResyncsAfterStarvation(t *testing.T) {
	c := New()
	base := time.Unix(0, 0)
	c.clock = func() time.Time { return base }

	c.timers.add(base, 10*time.Millisecond, func(*Client, any) {}, nil)
	// Loop starved for a long time: next natural fire (+10ms) is far behind now.
	now := base.Add(time.Second)
	c.timers.runDue(c, now)

	rc := c.timers.byID[1]
	want := now.Add(10 * time.Millisecond)
	if !rc.nextFireAt.Equal(want) {
		t.Fatalf("expected resync to now+interval after starvation, want %v got %v", want, rc.nextFireAt)
	}
}

func TestTimerAddedDuringTickDoesNotFireThatTick(t *testing.T) {
	c := New()
	base := time.Unix(0, 0)
	c.clock = func() time.Time { return base }

	var lateFired bool
	c.timers.add(base, 10*time.Millisecond, func(cc *Client, _ any) {
		// Registered against base, its first fire (base+5ms) is already due at
		// the base+10ms used by runDue, but it must not fire within this same
		// runDue call.
		cc.timers.add(base, 5*time.Millisecond, func(*Client, any) {
			lateFired = true
		}, nil)
	}, nil)

	c.timers.runDue(c, base.Add(10*time.Millisecond))
	if lateFired {
		t.Fatal("callback added mid-tick must not fire within the same runDue invocation")
	}

	// It should fire on the next tick once its own time comes.
	c.timers.runDue(c, base.Add(16*time.Millisecond))
	if !lateFired {
		t.Fatal("expected the mid-tick-added callback to fire on a subsequent tick")
	}
}

func TestTimerRemoveDuringOwnFiringTakesEffectNextCycle(t *testing.T) {
	c := New()
	base := time.Unix(0, 0)
	c.clock = func() time.Time { return base }

	calls := 0
	var id uint64
	id, _ = c.timers.add(base, 10*time.Millisecond, func(cc *Client, _ any) {
		calls++
		cc.timers.remove(id)
	}, nil)

	c.timers.runDue(c, base.Add(10*time.Millisecond))
	if calls != 1 {
		t.Fatalf("expected exactly one fire before removal took effect, got %d", calls)
	}
	c.timers.runDue(c, base.Add(50*time.Millisecond))
	if calls != 1 {
		t.Fatalf("expected removal to prevent further fires, got %d calls", calls)
	}
}

func TestTimerIDsNeverReused(t *testing.T) {
	h := newTimerHeap()
	id1, _ := h.add(time.Now(), 10*time.Millisecond, func(*Client, any) {}, nil)
	h.remove(id1)
	id2, _ := h.add(time.Now(), 10*time.Millisecond, func(*Client, any) {}, nil)
	if id1 == id2 {
		t.Fatalf("expected a fresh id after removal, got %d twice", id1)
	}
}

func TestNextDueReportsEarliestPendingFire(t *testing.T) {
	h := newTimerHeap()
	base := time.Unix(0, 0)
	h.add(base, 50*time.Millisecond, func(*Client, any) {}, nil)
	h.add(base, 10*time.Millisecond, func(*Client, any) {}, nil)

	d, ok := h.nextDue(base)
	if !ok || d != 10*time.Millisecond {
		t.Fatalf("expected earliest due in 10ms, got %v ok=%v", d, ok)
	}
}
