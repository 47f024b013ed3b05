package client

import (
	"container/heap"
	"time"

	"github.com/edgeo-scada/uacore/pkg/ua"
)

// MinTimerInterval is the smallest interval a repeated callback may run
// at; anything shorter is rejected with BadInvalidArgument rather than
// silently coalesced, since a busy-spin timer is almost always a caller
// bug rather than an intentional choice.
const MinTimerInterval = 5 * time.Millisecond

// RepeatedCallback is one entry in the timer heap. fn is invoked with the
// owning client and the userdata supplied at registration.
type RepeatedCallback struct {
	id         uint64
	fn         func(c *Client, userdata any)
	userdata   any
	interval   time.Duration
	nextFireAt time.Time
	seq        uint64 // insertion order, used to break nextFireAt ties
	removed    bool
	firing     bool
}

type timerHeap struct {
	items   []*RepeatedCallback
	byID    map[uint64]*RepeatedCallback
	nextID  uint64
	nextSeq uint64
}

func newTimerHeap() *timerHeap {
	return &timerHeap{byID: make(map[uint64]*RepeatedCallback)}
}

func (h *timerHeap) Len() int { return len(h.items) }

func (h *timerHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.nextFireAt.Equal(b.nextFireAt) {
		return a.seq < b.seq
	}
	return a.nextFireAt.Before(b.nextFireAt)
}

func (h *timerHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *timerHeap) Push(x any) { h.items = append(h.items, x.(*RepeatedCallback)) }

func (h *timerHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	h.items = old[:n-1]
	return item
}

// add registers fn to fire every interval, first no later than now+interval.
func (h *timerHeap) add(now time.Time, interval time.Duration, fn func(c *Client, userdata any), userdata any) (uint64, error) {
	if interval < MinTimerInterval {
		return 0, ua.StatusBadInvalidArgument
	}
	h.nextID++
	id := h.nextID
	h.nextSeq++
	rc := &RepeatedCallback{
		id:         id,
		fn:         fn,
		userdata:   userdata,
		interval:   interval,
		nextFireAt: now.Add(interval),
		seq:        h.nextSeq,
	}
	heap.Push(h, rc)
	h.byID[id] = rc
	return id, nil
}

func (h *timerHeap) changeInterval(id uint64, interval time.Duration) error {
	if interval < MinTimerInterval {
		return ua.StatusBadInvalidArgument
	}
	rc, ok := h.byID[id]
	if !ok || rc.removed {
		return ua.StatusBadInvalidArgument
	}
	rc.interval = interval
	for i, item := range h.items {
		if item == rc {
			heap.Fix(h, i)
			break
		}
	}
	return nil
}

// remove marks a callback removed. If called from within the callback's
// own firing tick, removal takes effect for all future fires; the current
// invocation (already underway) is unaffected.
func (h *timerHeap) remove(id uint64) {
	rc, ok := h.byID[id]
	if !ok {
		return
	}
	rc.removed = true
	delete(h.byID, id)
	if rc.firing {
		return
	}
	for i, item := range h.items {
		if item == rc {
			heap.Remove(h, i)
			break
		}
	}
}

// runDue fires every callback whose nextFireAt is <= now, drift-free
// rescheduling each from its previous scheduled fire time rather than the
// actual fire time. Callbacks registered by fn during this call (including
// self-removal or re-adds) are appended to h.items but never visited by
// this same runDue invocation, because it operates over a fixed snapshot
// of due entries taken up front.
func (h *timerHeap) runDue(c *Client, now time.Time) {
	var due []*RepeatedCallback
	for h.Len() > 0 && !h.items[0].nextFireAt.After(now) {
		rc := heap.Pop(h).(*RepeatedCallback)
		if rc.removed {
			continue
		}
		due = append(due, rc)
	}
	for _, rc := range due {
		if rc.removed {
			continue
		}
		rc.firing = true
		rc.fn(c, rc.userdata)
		rc.firing = false
		c.cfg.Metrics.observeTimerFire()
		if rc.removed {
			continue
		}
		rc.nextFireAt = rc.nextFireAt.Add(rc.interval)
		if now.Sub(rc.nextFireAt) > rc.interval {
			// Fell behind by more than one interval (e.g. the loop was
			// starved); resync to now+interval instead of firing a burst.
			rc.nextFireAt = now.Add(rc.interval)
		}
		heap.Push(h, rc)
	}
}

// nextDue returns the duration until the earliest scheduled fire, or ok=false
// if no timers are registered.
func (h *timerHeap) nextDue(now time.Time) (time.Duration, bool) {
	if h.Len() == 0 {
		return 0, false
	}
	d := h.items[0].nextFireAt.Sub(now)
	if d < 0 {
		d = 0
	}
	return d, true
}
