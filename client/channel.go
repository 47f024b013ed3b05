package client

import (
	"fmt"
	"time"

	"github.com/edgeo-scada/uacore/pkg/ua"
)

// openChannel issues OpenSecureChannel with requestType (Issue or Renew)
// and, on success, installs the returned channel id/token id/lifetime.
// It is a direct request/response exchange rather than going through the
// multiplexer, because it happens before a SecureChannel (and therefore
// before request-id bookkeeping tied to one) exists on Issue, and because
// Renew must not disturb the multiplexer's steady state on the existing
// channel.
func (c *Client) openChannel(requestType ua.SecurityTokenRequestType) error {
	if c.sc == nil {
		c.sc = newSecureChannel(c.conn)
	}
	req := &ua.OpenSecureChannelRequest{
		RequestHeader:         c.newRequestHeader(uint32(c.cfg.SyncTimeout / time.Millisecond)),
		ClientProtocolVersion: 0,
		RequestType:           requestType,
		SecurityMode:          ua.MessageSecurityModeNone,
		RequestedLifetime:     uint32(c.cfg.SecureChannelLifetime / time.Millisecond),
	}
	reqDesc, respDesc, err := c.descriptorsFor(ua.ServiceOpenSecureChannel)
	if err != nil {
		return err
	}
	body, err := encodeBody(c.registry, reqDesc, req)
	if err != nil {
		return err
	}
	requestID := c.sc.allocRequestID()
	frame := c.sc.frameOPN(requestID, body)
	if err := c.conn.Send(frame); err != nil {
		return fmt.Errorf("client: send OpenSecureChannel: %w", err)
	}

	deadline := c.now().Add(c.cfg.SyncTimeout)
	for {
		raw, err := c.conn.Receive(remainingMs(deadline, c.now()))
		if err != nil {
			return fmt.Errorf("client: OpenSecureChannel round trip: %w", err)
		}
		desc, value, gotID, complete, err := c.sc.ingest(c.registry, raw)
		if err != nil {
			return err
		}
		if !complete {
			continue
		}
		if gotID != requestID {
			// A Renew races with whatever the multiplexer already has in
			// flight (e.g. a Publish); route it there instead of dropping it.
			c.mux.complete(c, gotID, value)
			continue
		}
		_ = desc
		resp, ok := value.(*ua.OpenSecureChannelResponse)
		if !ok {
			_ = respDesc
			return fmt.Errorf("%w: unexpected OpenSecureChannel response type", ua.ErrInvalidMessage)
		}
		if resp.ResponseHeader.ServiceResult.IsBad() {
			return resp.ResponseHeader.ServiceResult
		}
		c.sc.channelID = resp.SecurityToken.ChannelID
		c.sc.tokenID = resp.SecurityToken.TokenID
		c.sc.createdAt = c.now()
		c.sc.lifetime = time.Duration(resp.SecurityToken.RevisedLifetime) * time.Millisecond
		if c.sc.lifetime == 0 {
			c.sc.lifetime = c.cfg.SecureChannelLifetime
		}
		return nil
	}
}

func (c *Client) startRenewalTimer() {
	interval := c.sc.lifetime / 4
	if interval > 60*time.Second || interval == 0 {
		interval = 60 * time.Second
	}
	id, err := c.timers.add(c.now(), interval, func(cc *Client, _ any) {
		cc.maybeRenewChannel()
	}, nil)
	if err != nil {
		c.logger.Warn("renewal timer registration failed", "error", err)
		return
	}
	c.sc.renewCallbackID = id
}

func (c *Client) maybeRenewChannel() {
	if c.sc == nil || !c.sc.renewDue(c.now()) {
		return
	}
	if err := c.openChannel(ua.SecurityTokenRequestRenew); err != nil {
		c.logger.Warn("secure channel renewal failed", "error", err)
		c.stopPublishPump()
		c.mux.failAll(c, ua.StatusBadSecureChannelClosed)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.conn = nil
		c.sc = nil
		c.session = nil
		c.setState(StateDisconnected)
		return
	}
	if c.session != nil {
		c.setState(StateSessionRenewed)
	} else {
		c.setState(StateSecureChannel)
	}
}

// ManuallyRenewSecureChannel sends OpenSecureChannel with RequestType=Renew
// outside the automatic schedule. On success the state moves to
// SessionRenewed if a Session is present, else SecureChannel.
func (c *Client) ManuallyRenewSecureChannel() error {
	if c.sc == nil {
		return ua.StatusBadNotConnected
	}
	if err := c.openChannel(ua.SecurityTokenRequestRenew); err != nil {
		return err
	}
	if c.session != nil {
		c.setState(StateSessionRenewed)
	} else {
		c.setState(StateSecureChannel)
	}
	return nil
}

func (c *Client) closeChannel() error {
	if c.sc == nil {
		return nil
	}
	req := &ua.CloseSecureChannelRequest{RequestHeader: c.newRequestHeader(0)}
	reqDesc, _, err := c.descriptorsFor(ua.ServiceCloseSecureChannel)
	if err != nil {
		return err
	}
	body, err := encodeBody(c.registry, reqDesc, req)
	if err != nil {
		return err
	}
	frame := c.sc.frameCLO(c.sc.allocRequestID(), body)
	if c.conn == nil {
		return nil
	}
	return c.conn.Send(frame)
}
