package client

import "time"

// AddRepeatedCallback registers fn to run every interval starting no later
// than now+interval. Returns BadInvalidArgument for interval < 5ms.
func (c *Client) AddRepeatedCallback(interval time.Duration, fn func(c *Client, userdata any), userdata any) (uint64, error) {
	id, err := c.timers.add(c.now(), interval, fn, userdata)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ChangeRepeatedCallbackInterval changes id's interval, effective at its
// next scheduled fire.
func (c *Client) ChangeRepeatedCallbackInterval(id uint64, interval time.Duration) error {
	return c.timers.changeInterval(id, interval)
}

// RemoveRepeatedCallback cancels id. Calling it from within the callback's
// own firing tick is safe and takes effect for all future fires.
func (c *Client) RemoveRepeatedCallback(id uint64) {
	c.timers.remove(id)
}
