package client

import (
	"github.com/edgeo-scada/uacore/pkg/ua"
)

// NotificationHandler receives one decoded Publish notification. The core
// does not interpret subscription contents beyond routing them here;
// per-MonitoredItem dispatch is an application concern.
type NotificationHandler func(subscriptionID uint32, notification ua.NotificationMessage)

// publishPump keeps `target` Publish requests outstanding once a session
// exists, per §4.5. It is driven as a repeated callback rather than an
// eager loop so it participates in the same single-threaded scheduling
// as everything else.
type publishPump struct {
	target      int
	outstanding int
	acks        []ua.SubscriptionAcknowledgement
	timerID     uint64
	running     bool
	onNotify    NotificationHandler
}

func (c *Client) startPublishPump() {
	if c.cfg.OutstandingPublishRequests <= 0 || c.pump.running {
		return
	}
	c.pump.target = c.cfg.OutstandingPublishRequests
	c.pump.running = true
	id, err := c.timers.add(c.now(), publishPumpInterval, func(cc *Client, _ any) {
		cc.fillPublishPump()
	}, nil)
	if err != nil {
		c.logger.Warn("publish pump timer registration failed", "error", err)
		c.pump.running = false
		return
	}
	c.pump.timerID = id
	c.fillPublishPump()
}

func (c *Client) stopPublishPump() {
	if !c.pump.running {
		return
	}
	c.timers.remove(c.pump.timerID)
	c.pump.running = false
	c.pump.outstanding = 0
	c.pump.acks = nil
	c.cfg.Metrics.setPublishOutstanding(0)
}

// fillPublishPump tops up outstanding Publish requests to target. It is
// called both from the timer and immediately after every Publish
// completion so the outstanding count never lingers below target longer
// than one round trip.
func (c *Client) fillPublishPump() {
	if !c.pump.running || c.session == nil {
		return
	}
	for c.pump.outstanding < c.pump.target {
		req := &ua.PublishRequest{
			RequestHeader:                c.newRequestHeader(0),
			SubscriptionAcknowledgements: c.pump.acks,
		}
		c.pump.acks = nil
		_, err := c.asyncDispatch(ua.ServicePublish, req, c.publishTimeout(), func(cl *Client, _ any, _ uint32, response any, _ ua.TypeDescriptor) {
			cl.pump.outstanding--
			cl.cfg.Metrics.setPublishOutstanding(cl.pump.outstanding)
			cl.onPublishResponse(response)
		}, nil)
		if err != nil {
			break
		}
		c.pump.outstanding++
		c.cfg.Metrics.setPublishOutstanding(c.pump.outstanding)
	}
}

func (c *Client) onPublishResponse(response any) {
	resp, ok := response.(*ua.PublishResponse)
	if !ok {
		return
	}
	header, _ := responseHeaderOf(response)
	switch header.ServiceResult {
	case ua.StatusBadTooManyPublishRequests:
		if c.pump.target > 1 {
			c.pump.target--
		}
	case ua.StatusBadNoSubscription:
		c.stopPublishPump()
		return
	case ua.StatusGood:
		c.pump.acks = append(c.pump.acks, ua.SubscriptionAcknowledgement{
			SubscriptionID: resp.SubscriptionID,
			SequenceNumber: resp.NotificationMessage.SequenceNumber,
		})
		if c.pump.onNotify != nil {
			c.pump.onNotify(resp.SubscriptionID, resp.NotificationMessage)
		}
	}
	c.fillPublishPump()
}

// SetNotificationHandler registers the single hook the pump calls with
// every incoming NotificationMessage.
func (c *Client) SetNotificationHandler(fn NotificationHandler) {
	c.pump.onNotify = fn
}
