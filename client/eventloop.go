package client

import (
	"time"

	"github.com/edgeo-scada/uacore/pkg/transport"
	"github.com/edgeo-scada/uacore/pkg/ua"
)

// DefaultReentrancyLimit bounds how many nested synchronous service calls
// may pump the event loop from inside one another (e.g. a state callback
// that itself issues a synchronous Read). Beyond this, further nesting
// fails fast with BadInternalError rather than growing the call stack
// without bound.
const DefaultReentrancyLimit = 4

// Run waits up to timeoutMs for one message from the socket, dispatches
// it, fires due timers, and reports how long the caller may safely block
// before calling Run again (-1 when no timer is registered). Messages
// beyond the first one stay queued for later Run calls.
func (c *Client) Run(timeoutMs int) (nextTimeoutMs int, err error) {
	if err := c.enterLoop(); err != nil {
		return 0, err
	}
	defer c.exitLoop()

	if c.conn != nil {
		raw, rerr := c.conn.Receive(timeoutMs)
		switch rerr {
		case nil:
			c.dispatchInbound(raw)
		case transport.ErrTimeout:
			// nothing ready; fall through to timers.
		case transport.ErrClosed:
			c.onConnectionLost()
		default:
			c.logger.Warn("receive failed", "error", rerr)
			c.onConnectionLost()
		}
	}

	return c.tick(), nil
}

// RunIterate has the same contract as Run but never touches the socket;
// bytes must be delivered via ProcessBinaryMessage. It exists for embedding
// scenarios that own their own I/O multiplexing (e.g. a single-threaded
// simulator driving several clients).
func (c *Client) RunIterate() (nextTimeoutMs int, err error) {
	if err := c.enterLoop(); err != nil {
		return 0, err
	}
	defer c.exitLoop()
	return c.tick(), nil
}

// ProcessBinaryMessage injects bytes into the client as though they had
// been read off the transport, for use by RunIterate-driven embeddings
// that own the socket themselves.
func (c *Client) ProcessBinaryMessage(data []byte) error {
	if err := c.enterLoop(); err != nil {
		return err
	}
	defer c.exitLoop()
	c.dispatchInbound(data)
	return nil
}

func (c *Client) enterLoop() error {
	if c.loopDepth >= c.reentrancyLimit {
		return ua.StatusBadInternalError
	}
	c.loopDepth++
	return nil
}

func (c *Client) exitLoop() {
	c.loopDepth--
}

func (c *Client) tick() int {
	now := c.now()
	c.mux.expireOverdue(c, now)
	c.timers.runDue(c, now)

	next, ok := c.timers.nextDue(c.now())
	if !ok {
		return -1
	}
	return int(next / time.Millisecond)
}

func (c *Client) dispatchInbound(raw []byte) {
	if c.sc == nil {
		return
	}
	desc, value, requestID, complete, err := c.sc.ingest(c.registry, raw)
	if err != nil {
		c.logger.Warn("chunk decode failed", "request_id", requestID, "error", err)
		if requestID != 0 {
			c.mux.fail(c, requestID, ua.StatusBadCommunicationError)
		}
		return
	}
	if !complete {
		return
	}
	_ = desc
	c.mux.complete(c, requestID, value)
}

// onConnectionLost is the single funnel for every transport-level failure:
// it tears the channel down and fails every pending request with
// BadSecureChannelClosed, then transitions to Disconnected.
func (c *Client) onConnectionLost() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.sc = nil
	c.session = nil
	c.stopPublishPump()
	c.mux.failAll(c, ua.StatusBadSecureChannelClosed)
	c.setState(StateDisconnected)
}

// now is overridable in tests via Client.clock.
func (c *Client) now() time.Time {
	if c.clock != nil {
		return c.clock()
	}
	return time.Now()
}
