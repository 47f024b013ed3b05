package client

import (
	"fmt"

	"github.com/edgeo-scada/uacore/pkg/ua"
)

// Every typed shim below is a thin cast over the single generic Service/
// AsyncService dispatcher; none of them owns any framing or multiplexing
// logic of its own. This is the "typed surface from a generic core" split
// called for in the design notes, replacing what would otherwise be a
// hand-written encode/send/decode per service.

// Read issues a ReadRequest synchronously.
func (c *Client) Read(req *ua.ReadRequest) (*ua.ReadResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceRead, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.ReadResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected Read response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// AsyncRead issues a ReadRequest asynchronously.
func (c *Client) AsyncRead(req *ua.ReadRequest, cb AsyncCallback, userdata any) (uint32, error) {
	req.RequestHeader = c.newRequestHeader(0)
	return c.AsyncService(ua.ServiceRead, req, cb, userdata)
}

// Write issues a WriteRequest synchronously.
func (c *Client) Write(req *ua.WriteRequest) (*ua.WriteResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceWrite, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.WriteResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected Write response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// AsyncWrite issues a WriteRequest asynchronously.
func (c *Client) AsyncWrite(req *ua.WriteRequest, cb AsyncCallback, userdata any) (uint32, error) {
	req.RequestHeader = c.newRequestHeader(0)
	return c.AsyncService(ua.ServiceWrite, req, cb, userdata)
}

// Browse issues a BrowseRequest synchronously.
func (c *Client) Browse(req *ua.BrowseRequest) (*ua.BrowseResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceBrowse, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.BrowseResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected Browse response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// AsyncBrowse issues a BrowseRequest asynchronously.
func (c *Client) AsyncBrowse(req *ua.BrowseRequest, cb AsyncCallback, userdata any) (uint32, error) {
	req.RequestHeader = c.newRequestHeader(0)
	return c.AsyncService(ua.ServiceBrowse, req, cb, userdata)
}

// BrowseNext continues a Browse call past a continuation point.
func (c *Client) BrowseNext(req *ua.BrowseNextRequest) (*ua.BrowseNextResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceBrowseNext, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.BrowseNextResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected BrowseNext response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// TranslateBrowsePathsToNodeIds resolves each BrowsePath's relative path of
// BrowseName hops against its starting node, synchronously.
func (c *Client) TranslateBrowsePathsToNodeIds(req *ua.TranslateBrowsePathsToNodeIdsRequest) (*ua.TranslateBrowsePathsToNodeIdsResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceTranslateBrowsePathsToNodeIds, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.TranslateBrowsePathsToNodeIdsResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected TranslateBrowsePathsToNodeIds response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// Call issues a CallRequest (Method service set) synchronously.
func (c *Client) Call(req *ua.CallRequest) (*ua.CallResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceCall, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.CallResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected Call response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// AsyncCall issues a CallRequest asynchronously.
func (c *Client) AsyncCall(req *ua.CallRequest, cb AsyncCallback, userdata any) (uint32, error) {
	req.RequestHeader = c.newRequestHeader(0)
	return c.AsyncService(ua.ServiceCall, req, cb, userdata)
}

// AddNodes issues an AddNodesRequest (NodeManagement service set) synchronously.
func (c *Client) AddNodes(req *ua.AddNodesRequest) (*ua.AddNodesResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceAddNodes, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.AddNodesResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected AddNodes response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// AddReferences issues an AddReferencesRequest synchronously, linking nodes
// that already exist rather than creating new ones.
func (c *Client) AddReferences(req *ua.AddReferencesRequest) (*ua.AddReferencesResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceAddReferences, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.AddReferencesResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected AddReferences response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// DeleteNodes issues a DeleteNodesRequest synchronously.
func (c *Client) DeleteNodes(req *ua.DeleteNodesRequest) (*ua.DeleteNodesResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceDeleteNodes, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.DeleteNodesResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected DeleteNodes response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// DeleteReferences issues a DeleteReferencesRequest synchronously.
func (c *Client) DeleteReferences(req *ua.DeleteReferencesRequest) (*ua.DeleteReferencesResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceDeleteReferences, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.DeleteReferencesResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected DeleteReferences response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// RegisterNodes issues a RegisterNodesRequest synchronously. The returned
// NodeIDs are only valid for the lifetime of the session and are meant to
// be substituted into subsequent Read/Write calls in place of the originals.
func (c *Client) RegisterNodes(req *ua.RegisterNodesRequest) (*ua.RegisterNodesResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceRegisterNodes, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.RegisterNodesResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected RegisterNodes response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// UnregisterNodes releases NodeIDs previously obtained from RegisterNodes.
func (c *Client) UnregisterNodes(req *ua.UnregisterNodesRequest) (*ua.UnregisterNodesResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceUnregisterNodes, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.UnregisterNodesResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected UnregisterNodes response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// CreateSubscription issues a CreateSubscriptionRequest synchronously. The
// publish pump is not told about the new subscription: it is driven by
// outstandingPublishRequests, not by which subscriptions exist, so a client
// with subscriptions but outstandingPublishRequests=0 must drive Publish
// itself via AsyncService.
func (c *Client) CreateSubscription(req *ua.CreateSubscriptionRequest) (*ua.CreateSubscriptionResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceCreateSubscription, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.CreateSubscriptionResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected CreateSubscription response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// ModifySubscription revises the publishing interval, lifetime and
// keep-alive count of an existing subscription.
func (c *Client) ModifySubscription(req *ua.ModifySubscriptionRequest) (*ua.ModifySubscriptionResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceModifySubscription, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.ModifySubscriptionResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected ModifySubscription response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// DeleteSubscriptions issues a DeleteSubscriptionsRequest synchronously.
func (c *Client) DeleteSubscriptions(req *ua.DeleteSubscriptionsRequest) (*ua.DeleteSubscriptionsResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceDeleteSubscriptions, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.DeleteSubscriptionsResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected DeleteSubscriptions response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// CreateMonitoredItems issues a CreateMonitoredItemsRequest synchronously.
func (c *Client) CreateMonitoredItems(req *ua.CreateMonitoredItemsRequest) (*ua.CreateMonitoredItemsResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceCreateMonitoredItems, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.CreateMonitoredItemsResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected CreateMonitoredItems response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// DeleteMonitoredItems issues a DeleteMonitoredItemsRequest synchronously.
func (c *Client) DeleteMonitoredItems(req *ua.DeleteMonitoredItemsRequest) (*ua.DeleteMonitoredItemsResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceDeleteMonitoredItems, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.DeleteMonitoredItemsResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected DeleteMonitoredItems response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// QueryFirst issues a QueryFirstRequest synchronously, through the
// QUERYFIRSTREQUEST/RESPONSE descriptors.
func (c *Client) QueryFirst(req *ua.QueryFirstRequest) (*ua.QueryFirstResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceQueryFirst, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.QueryFirstResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected QueryFirst response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}

// QueryNext issues a QueryNextRequest synchronously, through the
// QUERYNEXTREQUEST/RESPONSE descriptors — kept distinct from QueryFirst's,
// see the ServiceQueryNext comment in pkg/ua/types.go.
func (c *Client) QueryNext(req *ua.QueryNextRequest) (*ua.QueryNextResponse, error) {
	req.RequestHeader = c.newRequestHeader(0)
	respAny, err := c.Service(ua.ServiceQueryNext, req)
	if err != nil {
		return nil, err
	}
	resp, ok := respAny.(*ua.QueryNextResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected QueryNext response type", ua.ErrInvalidMessage)
	}
	return resp, nil
}
