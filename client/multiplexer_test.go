package client

import (
	"testing"
	"time"

	"github.com/edgeo-scada/uacore/pkg/ua"
)

func TestMultiplexerOutOfOrderCompletion(t *testing.T) {
	c := New()
	reg := ua.NewRegistry()
	_, respDesc := ua.DescriptorFor(reg, ua.ServiceRead)

	p1 := c.mux.registerSync(1, respDesc, time.Time{})
	p2 := c.mux.registerSync(2, respDesc, time.Time{})
	p3 := c.mux.registerSync(3, respDesc, time.Time{})

	// Complete out of dispatch order: 3, then 1, then 2.
	c.mux.complete(c, 3, &ua.ReadResponse{ResponseHeader: ua.ZeroResponseHeader(3, ua.StatusGood)})
	c.mux.complete(c, 1, &ua.ReadResponse{ResponseHeader: ua.ZeroResponseHeader(1, ua.StatusGood)})
	c.mux.complete(c, 2, &ua.ReadResponse{ResponseHeader: ua.ZeroResponseHeader(2, ua.StatusGood)})

	for i, p := range []*pendingRequest{p1, p2, p3} {
		select {
		case <-p.done:
		default:
			t.Fatalf("pending %d never completed", i+1)
		}
	}
	if c.mux.count() != 0 {
		t.Fatalf("expected all entries removed after completion, %d remain", c.mux.count())
	}
}

func TestMultiplexerCompleteIsANoOpForUnknownRequestID(t *testing.T) {
	c := New()
	// Should not panic on an unregistered id (a late or duplicate delivery).
	c.mux.complete(c, 999, &ua.ReadResponse{})
	c.mux.fail(c, 999, ua.StatusBadTimeout)
}

func TestMultiplexerFailSynthesizesResponseWithStatus(t *testing.T) {
	c := New()
	reg := ua.NewRegistry()
	_, respDesc := ua.DescriptorFor(reg, ua.ServiceRead)
	p := c.mux.registerSync(5, respDesc, time.Time{})

	c.mux.fail(c, 5, ua.StatusBadTimeout)

	<-p.done
	resp, ok := p.response.(*ua.ReadResponse)
	if !ok {
		t.Fatalf("expected *ua.ReadResponse, got %T", p.response)
	}
	if resp.ResponseHeader.ServiceResult != ua.StatusBadTimeout {
		t.Fatalf("expected BadTimeout, got %v", resp.ResponseHeader.ServiceResult)
	}
}

func TestMultiplexerFailAllDrainsEveryPendingEntry(t *testing.T) {
	c := New()
	reg := ua.NewRegistry()
	_, respDesc := ua.DescriptorFor(reg, ua.ServiceRead)
	for i := uint32(1); i <= 5; i++ {
		c.mux.registerSync(i, respDesc, time.Time{})
	}
	c.mux.failAll(c, ua.StatusBadShutdown)
	if c.mux.count() != 0 {
		t.Fatalf("expected empty multiplexer after failAll, %d remain", c.mux.count())
	}
}

func TestMultiplexerExpireOverdueFailsOnlyPastDeadline(t *testing.T) {
	c := New()
	now := time.Unix(0, 0)
	c.clock = func() time.Time { return now }
	reg := ua.NewRegistry()
	_, respDesc := ua.DescriptorFor(reg, ua.ServiceRead)

	stillGood := c.mux.registerSync(1, respDesc, now.Add(time.Minute))
	overdue := c.mux.registerSync(2, respDesc, now.Add(-time.Second))

	c.mux.expireOverdue(c, now)

	select {
	case <-overdue.done:
	default:
		t.Fatal("expected overdue request to be failed")
	}
	select {
	case <-stillGood.done:
		t.Fatal("expected request with a future deadline to remain pending")
	default:
	}
	if c.mux.count() != 1 {
		t.Fatalf("expected exactly one entry remaining, got %d", c.mux.count())
	}
}

func TestMultiplexerAsyncCallbackFiresOnce(t *testing.T) {
	c := New()
	reg := ua.NewRegistry()
	_, respDesc := ua.DescriptorFor(reg, ua.ServiceRead)
	calls := 0
	c.mux.registerAsync(7, respDesc, time.Time{}, func(cc *Client, userdata any, requestID uint32, response any, _ ua.TypeDescriptor) {
		calls++
		if requestID != 7 {
			t.Fatalf("expected requestID 7, got %d", requestID)
		}
	}, nil)
	c.mux.complete(c, 7, &ua.ReadResponse{ResponseHeader: ua.ZeroResponseHeader(7, ua.StatusGood)})
	c.mux.complete(c, 7, &ua.ReadResponse{}) // late duplicate delivery, must be ignored
	if calls != 1 {
		t.Fatalf("expected callback invoked exactly once, got %d", calls)
	}
}
