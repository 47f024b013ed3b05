package client

import (
	"fmt"
	"time"

	"github.com/edgeo-scada/uacore/pkg/ua"
)

// selectEndpoint calls GetEndpoints over the just-opened channel and returns
// the first endpoint that passes requireNoneSecurity; its user token
// policies supply the policy id the session is activated with. If no
// endpoint passes, the first advertised endpoint is returned with a
// warning, and if the server advertises none, a synthetic None endpoint
// for endpointURL is returned.
func (c *Client) selectEndpoint(endpointURL string, identity *usernameIdentity) (ua.EndpointDescription, error) {
	req := &ua.GetEndpointsRequest{
		RequestHeader: c.newRequestHeader(0),
		EndpointURL:   endpointURL,
	}
	respAny, err := c.Service(ua.ServiceGetEndpoints, req)
	if err != nil {
		return ua.EndpointDescription{}, err
	}
	resp, ok := respAny.(*ua.GetEndpointsResponse)
	if !ok {
		return ua.EndpointDescription{}, fmt.Errorf("%w: unexpected GetEndpoints response type", ua.ErrInvalidMessage)
	}
	if resp.ResponseHeader.ServiceResult.IsBad() {
		return ua.EndpointDescription{}, resp.ResponseHeader.ServiceResult
	}
	for _, ep := range resp.Endpoints {
		if requireNoneSecurity(ep) == nil {
			return ep, nil
		}
	}
	if len(resp.Endpoints) > 0 {
		c.logger.Warn("no endpoint advertises SecurityPolicy#None, falling back to the first endpoint",
			"endpointURL", endpointURL, "policy", resp.Endpoints[0].SecurityPolicyURI)
		return resp.Endpoints[0], nil
	}
	return ua.EndpointDescription{EndpointURL: endpointURL, SecurityMode: ua.MessageSecurityModeNone}, nil
}

func (c *Client) createAndActivateSession(endpoint ua.EndpointDescription, identity *usernameIdentity) error {
	createReq := &ua.CreateSessionRequest{
		RequestHeader:           c.newRequestHeader(0),
		ClientDescription:       c.applicationDescription(),
		EndpointURL:             c.endpointURL,
		SessionName:             c.cfg.ApplicationName,
		RequestedSessionTimeout: float64(60000),
		MaxResponseMessageSize:  uint32(c.cfg.LocalConnectionConfig.MaxMessageSize),
	}
	createAny, err := c.Service(ua.ServiceCreateSession, createReq)
	if err != nil {
		return err
	}
	createResp, ok := createAny.(*ua.CreateSessionResponse)
	if !ok {
		return fmt.Errorf("%w: unexpected CreateSession response type", ua.ErrInvalidMessage)
	}
	if createResp.ResponseHeader.ServiceResult.IsBad() {
		return createResp.ResponseHeader.ServiceResult
	}

	c.session = &session{
		authToken: createResp.AuthenticationToken,
		sessionID: createResp.SessionID,
		timeout:   time.Duration(createResp.RevisedSessionTimeout) * time.Millisecond,
	}

	policyID := anonymousPolicyID(endpoint)
	var token any = &ua.AnonymousIdentityToken{PolicyID: policyID}
	if identity != nil {
		policyID = userNamePolicyID(endpoint)
		token = &ua.UserNameIdentityToken{
			PolicyID: policyID,
			UserName: identity.username,
			Password: []byte(identity.password),
		}
	}

	activateReq := &ua.ActivateSessionRequest{
		RequestHeader:     c.newRequestHeader(0),
		LocaleIDs:         []string{"en"},
		UserIdentityToken: token,
	}
	activateAny, err := c.Service(ua.ServiceActivateSession, activateReq)
	if err != nil {
		c.session = nil
		return err
	}
	activateResp, ok := activateAny.(*ua.ActivateSessionResponse)
	if !ok {
		c.session = nil
		return fmt.Errorf("%w: unexpected ActivateSession response type", ua.ErrInvalidMessage)
	}
	if activateResp.ResponseHeader.ServiceResult.IsBad() {
		c.session = nil
		return activateResp.ResponseHeader.ServiceResult
	}
	return nil
}

func (c *Client) closeSession(deleteSubscriptions bool) error {
	if c.session == nil {
		return nil
	}
	req := &ua.CloseSessionRequest{
		RequestHeader:       c.newRequestHeader(0),
		DeleteSubscriptions: deleteSubscriptions,
	}
	_, err := c.Service(ua.ServiceCloseSession, req)
	c.session = nil
	return err
}
