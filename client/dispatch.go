package client

import (
	"fmt"
	"time"

	"github.com/edgeo-scada/uacore/pkg/transport"
	"github.com/edgeo-scada/uacore/pkg/ua"
)

// defaultMaxOutstandingOperations is the fallback back-pressure limit the
// multiplexer enforces when Configuration.MaxOutstandingOperations is unset.
// Unlike RevisedSessionTimeout or MaxRequestMessageSize, an OperationLimits
// count is not part of CreateSessionResponse; the real server-advertised
// value lives under the Server object's OperationLimits folder and needs
// its own Read after session activation, which this core does not perform
// automatically. WithMaxOutstandingOperations lets a caller that already
// knows its server's limit configure it directly instead.
const defaultMaxOutstandingOperations = 256

// Service issues req synchronously: register, send, pump the event loop
// until the response arrives, the deadline passes (BadTimeout), or the
// channel is lost (BadSecureChannelClosed).
func (c *Client) Service(serviceID ua.ServiceID, req any) (any, error) {
	reqDesc, respDesc, err := c.descriptorsFor(serviceID)
	if err != nil {
		return nil, err
	}
	if c.sc == nil {
		return nil, ua.StatusBadNotConnected
	}
	if c.mux.count() >= c.maxOutstandingOperations() {
		return nil, ua.StatusBadTooManyOperations
	}

	requestID := c.sc.allocRequestID()
	deadline := c.now().Add(c.cfg.SyncTimeout)
	pending := c.mux.registerSync(requestID, respDesc, deadline)

	start := c.now()
	if err := c.sendFramed(requestID, reqDesc, req); err != nil {
		delete(c.mux.pending, requestID)
		return nil, err
	}
	c.cfg.Metrics.observeSend()

	if err := c.pumpUntilDone(pending, deadline); err != nil {
		return nil, err
	}
	c.cfg.Metrics.observeLatency(c.now().Sub(start))
	return pending.response, nil
}

// AsyncService issues req asynchronously: register, send, return
// immediately. cb fires exactly once, from inside a future Run/RunIterate
// call, with either the decoded response or a synthetic failure.
func (c *Client) AsyncService(serviceID ua.ServiceID, req any, cb AsyncCallback, userdata any) (requestID uint32, err error) {
	reqDesc, respDesc, err := c.descriptorsFor(serviceID)
	if err != nil {
		return 0, err
	}
	return c.asyncDispatch(serviceID, req, c.cfg.SyncTimeout, cb, userdata, reqDesc, respDesc)
}

// asyncDispatch is the internal entry point used by the publish pump,
// which already knows its serviceID and wants a specific deadline distinct
// from the configured sync timeout.
func (c *Client) asyncDispatch(serviceID ua.ServiceID, req any, timeout time.Duration, cb AsyncCallback, userdata any, descs ...ua.TypeDescriptor) (uint32, error) {
	var reqDesc, respDesc ua.TypeDescriptor
	var err error
	if len(descs) == 2 {
		reqDesc, respDesc = descs[0], descs[1]
	} else {
		reqDesc, respDesc, err = c.descriptorsFor(serviceID)
		if err != nil {
			return 0, err
		}
	}
	if c.sc == nil {
		return 0, ua.StatusBadNotConnected
	}
	if c.mux.count() >= c.maxOutstandingOperations() {
		return 0, ua.StatusBadTooManyOperations
	}
	requestID := c.sc.allocRequestID()
	deadline := c.now().Add(timeout)
	c.mux.registerAsync(requestID, respDesc, deadline, cb, userdata)
	if err := c.sendFramed(requestID, reqDesc, req); err != nil {
		delete(c.mux.pending, requestID)
		return 0, err
	}
	c.cfg.Metrics.observeSend()
	return requestID, nil
}

func (c *Client) descriptorsFor(serviceID ua.ServiceID) (req, resp ua.TypeDescriptor, err error) {
	reqID := uint32(serviceID)
	respID := uint32(serviceID) + 1
	reqDesc, ok := c.registry.Lookup(reqID)
	if !ok {
		return nil, nil, ua.StatusBadServiceUnsupported
	}
	respDesc, ok := c.registry.Lookup(respID)
	if !ok {
		return nil, nil, ua.StatusBadServiceUnsupported
	}
	return reqDesc, respDesc, nil
}

func (c *Client) maxOutstandingOperations() int {
	if c.cfg.MaxOutstandingOperations > 0 {
		return c.cfg.MaxOutstandingOperations
	}
	return defaultMaxOutstandingOperations
}

func (c *Client) sendFramed(requestID uint32, reqDesc ua.TypeDescriptor, req any) error {
	body, err := encodeBody(c.registry, reqDesc, req)
	if err != nil {
		return err
	}
	maxBody := int(c.cfg.LocalConnectionConfig.SendBufferSize) - 24
	frames := c.sc.frameMSG(requestID, body, maxBody)
	for _, f := range frames {
		if err := c.conn.Send(f); err != nil {
			return fmt.Errorf("client: send request %d: %w", requestID, err)
		}
	}
	return nil
}

// pumpUntilDone re-enters the event loop (bounded by the reentrancy
// guard already enforced by Run) until pending completes or its deadline
// passes. It does not call Run directly to avoid double-counting loop
// depth; it repeats the same receive-dispatch-tick sequence Run performs.
func (c *Client) pumpUntilDone(pending *pendingRequest, deadline time.Time) error {
	if err := c.enterLoop(); err != nil {
		return err
	}
	defer c.exitLoop()

	for {
		select {
		case <-pending.done:
			return nil
		default:
		}
		now := c.now()
		if !now.Before(deadline) {
			c.mux.fail(c, pending.requestID, ua.StatusBadTimeout)
			return nil
		}
		if c.conn == nil {
			return nil
		}
		raw, err := c.conn.Receive(remainingMs(deadline, now))
		switch err {
		case nil:
			c.dispatchInbound(raw)
		case transport.ErrTimeout:
		case transport.ErrClosed:
			c.onConnectionLost()
			return nil
		default:
			c.onConnectionLost()
			return nil
		}
		c.timers.runDue(c, c.now())
	}
}
