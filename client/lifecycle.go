package client

import "github.com/edgeo-scada/uacore/pkg/ua"

// Disconnect performs a graceful teardown: CloseSession, CloseSecureChannel,
// TCP close, in that order. A failed CloseSession or CloseSecureChannel is
// logged and the next step still runs; only the TCP close error is
// returned. Every request
// still pending when Disconnect is called is failed with BadShutdown
// before the teardown calls run, so CloseSession's own request is the
// only thing still outstanding against the multiplexer.
func (c *Client) Disconnect() error {
	c.stopPublishPump()
	c.mux.failAll(c, ua.StatusBadShutdown)

	if err := c.closeSession(true); err != nil {
		c.logger.Warn("CloseSession failed during disconnect", "error", err)
	}
	if err := c.closeChannel(); err != nil {
		c.logger.Warn("CloseSecureChannel failed during disconnect", "error", err)
	}
	var closeErr error
	if c.conn != nil {
		closeErr = c.conn.Close()
	}
	c.conn = nil
	c.sc = nil
	c.session = nil
	c.setState(StateDisconnected)
	return closeErr
}

// Close is Disconnect's best-effort sibling: every teardown step is
// attempted even if an earlier one failed, and only the last error (if
// any) is returned.
func (c *Client) Close() error {
	c.stopPublishPump()
	c.mux.failAll(c, ua.StatusBadShutdown)

	var lastErr error
	if err := c.closeSession(true); err != nil {
		lastErr = err
	}
	if err := c.closeChannel(); err != nil {
		lastErr = err
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			lastErr = err
		}
	}
	c.conn = nil
	c.sc = nil
	c.session = nil
	c.setState(StateDisconnected)
	return lastErr
}
