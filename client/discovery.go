package client

import (
	"fmt"

	"github.com/edgeo-scada/uacore/pkg/ua"
)

// discoveryChannel opens, for GetEndpoints/FindServers/FindServersOnNetwork, a
// transient SecureChannel that never gets a Session, entirely independent
// of the receiver's own connection state. It reuses the receiver's
// registry, connection factory and timeouts, but never touches c.state,
// c.conn or c.sc, since discovery is explicitly not part of the four-layer
// lifecycle the state machine tracks.
func (c *Client) discoveryChannel(endpointURL string) (*Client, error) {
	scratchCfg := *c.cfg
	scratchCfg.StateCallback = nil
	scratch := &Client{
		cfg:             &scratchCfg,
		logger:          c.logger,
		registry:        c.registry,
		state:           StateDisconnected,
		mux:             newMultiplexer(),
		timers:          newTimerHeap(),
		reentrancyLimit: c.cfg.ReentrancyLimit,
		endpointURL:     endpointURL,
		clock:           c.clock,
	}
	conn, err := c.cfg.ConnectionFactory(endpointURL, c.cfg.LocalConnectionConfig)
	if err != nil {
		return nil, fmt.Errorf("client: discovery transport: %w", err)
	}
	scratch.conn = conn
	scratch.setState(StateConnected)
	if err := scratch.helloAcknowledge(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := scratch.openChannel(ua.SecurityTokenRequestIssue); err != nil {
		_ = conn.Close()
		return nil, err
	}
	scratch.setState(StateSecureChannel)
	return scratch, nil
}

func (c *Client) closeDiscoveryChannel(scratch *Client) {
	_ = scratch.closeChannel()
	if scratch.conn != nil {
		_ = scratch.conn.Close()
	}
}

// GetEndpoints returns the endpoints a server advertises for endpointURL,
// over a transient channel that is torn down before this call returns.
func (c *Client) GetEndpoints(endpointURL string) ([]ua.EndpointDescription, error) {
	scratch, err := c.discoveryChannel(endpointURL)
	if err != nil {
		return nil, err
	}
	defer c.closeDiscoveryChannel(scratch)

	req := &ua.GetEndpointsRequest{RequestHeader: scratch.newRequestHeader(0), EndpointURL: endpointURL}
	respAny, err := scratch.Service(ua.ServiceGetEndpoints, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.GetEndpointsResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected GetEndpoints response type", ua.ErrInvalidMessage)
	}
	if resp.ResponseHeader.ServiceResult.IsBad() {
		return nil, resp.ResponseHeader.ServiceResult
	}
	return resp.Endpoints, nil
}

// FindServers returns the ApplicationDescriptions a discovery endpoint
// knows about, over a transient channel.
func (c *Client) FindServers(endpointURL string, serverURIs []string) ([]ua.ApplicationDescription, error) {
	scratch, err := c.discoveryChannel(endpointURL)
	if err != nil {
		return nil, err
	}
	defer c.closeDiscoveryChannel(scratch)

	req := &ua.FindServersRequest{
		RequestHeader: scratch.newRequestHeader(0),
		EndpointURL:   endpointURL,
		ServerURIs:    serverURIs,
	}
	respAny, err := scratch.Service(ua.ServiceFindServers, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.FindServersResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected FindServers response type", ua.ErrInvalidMessage)
	}
	if resp.ResponseHeader.ServiceResult.IsBad() {
		return nil, resp.ResponseHeader.ServiceResult
	}
	return resp.Servers, nil
}

// FindServersOnNetwork queries an LDS-ME endpoint for servers registered
// on the local network, over a transient channel.
func (c *Client) FindServersOnNetwork(endpointURL string, startingRecordID, maxRecords uint32, capabilityFilter []string) ([]ua.ServerOnNetwork, error) {
	scratch, err := c.discoveryChannel(endpointURL)
	if err != nil {
		return nil, err
	}
	defer c.closeDiscoveryChannel(scratch)

	req := &ua.FindServersOnNetworkRequest{
		RequestHeader:          scratch.newRequestHeader(0),
		StartingRecordID:       startingRecordID,
		MaxRecordsToReturn:     maxRecords,
		ServerCapabilityFilter: capabilityFilter,
	}
	respAny, err := scratch.Service(ua.ServiceFindServersOnNetwork, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.FindServersOnNetworkResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected FindServersOnNetwork response type", ua.ErrInvalidMessage)
	}
	if resp.ResponseHeader.ServiceResult.IsBad() {
		return nil, resp.ResponseHeader.ServiceResult
	}
	return resp.Servers, nil
}
