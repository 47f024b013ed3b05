package client

import (
	"time"

	"github.com/edgeo-scada/uacore/pkg/ua"
)

// pendingKind tags whether a pending request is being waited on
// synchronously or will be delivered to an async callback, mirroring the
// spec's `{Sync(waiter), Async(callback, userdata)}` tagged variant.
type pendingKind int

const (
	pendingSync pendingKind = iota
	pendingAsync
)

// AsyncCallback receives a decoded response (or a synthetic failure
// response of the same descriptor) for one asynchronous service call.
type AsyncCallback func(c *Client, userdata any, requestID uint32, response any, respDescriptor ua.TypeDescriptor)

type pendingRequest struct {
	requestID    uint32
	respDesc     ua.TypeDescriptor
	kind         pendingKind
	deadline     time.Time
	dispatchedAt time.Time

	// Sync
	done     chan struct{}
	response any

	// Async
	callback AsyncCallback
	userdata any
}

// multiplexer owns the table of outstanding requests, keyed by request id.
// It never sends bytes itself; callers hand it an already-framed message
// via the secure channel's send path and register a pending entry with it
// in the same call so ordering (register-then-send) is unambiguous.
type multiplexer struct {
	pending map[uint32]*pendingRequest
}

func newMultiplexer() *multiplexer {
	return &multiplexer{pending: make(map[uint32]*pendingRequest)}
}

func (m *multiplexer) count() int { return len(m.pending) }

func (m *multiplexer) registerSync(requestID uint32, respDesc ua.TypeDescriptor, deadline time.Time) *pendingRequest {
	p := &pendingRequest{
		requestID: requestID,
		respDesc:  respDesc,
		kind:      pendingSync,
		deadline:  deadline,
		done:      make(chan struct{}),
	}
	m.pending[requestID] = p
	return p
}

func (m *multiplexer) registerAsync(requestID uint32, respDesc ua.TypeDescriptor, deadline time.Time, cb AsyncCallback, userdata any) *pendingRequest {
	p := &pendingRequest{
		requestID: requestID,
		respDesc:  respDesc,
		kind:      pendingAsync,
		deadline:  deadline,
		callback:  cb,
		userdata:  userdata,
	}
	m.pending[requestID] = p
	return p
}

// complete resolves a pending entry exactly once with a decoded response.
// It is a no-op for an unknown requestID (a late or duplicate delivery).
func (m *multiplexer) complete(c *Client, requestID uint32, response any) {
	p, ok := m.pending[requestID]
	if !ok {
		return
	}
	delete(m.pending, requestID)
	if c.state == StateSessionRenewed {
		if header, ok := responseHeaderOf(response); ok && header.ServiceResult.IsGood() {
			c.setState(StateSession)
		}
	}
	switch p.kind {
	case pendingSync:
		p.response = response
		close(p.done)
	case pendingAsync:
		p.callback(c, p.userdata, requestID, response, p.respDesc)
	}
}

// fail resolves a pending entry with a synthetic empty response of its own
// descriptor whose responseHeader.serviceResult carries status, per the
// error-handling design's rule that the core only ever manufactures an
// empty response body, never a partial one.
func (m *multiplexer) fail(c *Client, requestID uint32, status ua.StatusCode) {
	p, ok := m.pending[requestID]
	if !ok {
		return
	}
	delete(m.pending, requestID)
	c.cfg.Metrics.observeFailure(status.String())
	resp := syntheticResponse(p.respDesc, requestID, status)
	switch p.kind {
	case pendingSync:
		p.response = resp
		close(p.done)
	case pendingAsync:
		p.callback(c, p.userdata, requestID, resp, p.respDesc)
	}
}

// failAll fails every outstanding entry with status, used for shutdown and
// channel loss. Order is unspecified; the spec only requires each entry be
// failed exactly once before the caller (disconnect/close) returns.
func (m *multiplexer) failAll(c *Client, status ua.StatusCode) {
	ids := make([]uint32, 0, len(m.pending))
	for id := range m.pending {
		ids = append(ids, id)
	}
	for _, id := range ids {
		m.fail(c, id, status)
	}
}

// expireOverdue fails every pending entry whose deadline has passed with
// BadTimeout. Called once per event loop tick.
func (m *multiplexer) expireOverdue(c *Client, now time.Time) {
	var overdue []uint32
	for id, p := range m.pending {
		if !p.deadline.IsZero() && now.After(p.deadline) {
			overdue = append(overdue, id)
		}
	}
	for _, id := range overdue {
		m.fail(c, id, ua.StatusBadTimeout)
	}
}

// syntheticResponse builds a zero-valued response of resp's type via its
// descriptor and stamps a ResponseHeader carrying status. Every generated
// response type embeds a ua.ResponseHeader field named ResponseHeader,
// which is the shape every built-in descriptor follows.
func syntheticResponse(resp ua.TypeDescriptor, requestHandle uint32, status ua.StatusCode) any {
	v := resp.New()
	setResponseHeader(v, ua.ZeroResponseHeader(requestHandle, status))
	return v
}
