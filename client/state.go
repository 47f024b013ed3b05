package client

// State is the client's single lifecycle variable. Transitions are always
// driven from inside the event loop and always notify stateCallback
// synchronously, in order, before control returns to the caller.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateSecureChannel
	StateSession
	StateSessionRenewed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnected:
		return "Connected"
	case StateSecureChannel:
		return "SecureChannel"
	case StateSession:
		return "Session"
	case StateSessionRenewed:
		return "SessionRenewed"
	default:
		return "Unknown"
	}
}

// setState installs newState and fires the state callback exactly once,
// synchronously, if it actually changed. Every internal transition must
// go through this so the "delivered in transition order" guarantee holds
// even when a transition itself triggers another synchronously (e.g. a
// failed renew inside a Publish completion collapsing straight to
// Disconnected).
func (c *Client) setState(newState State) {
	if c.state == newState {
		return
	}
	c.state = newState
	c.logger.Debug("state transition", "state", newState.String())
	c.cfg.Metrics.observeState(newState.String())
	if c.cfg.StateCallback != nil {
		c.cfg.StateCallback(newState)
	}
}
