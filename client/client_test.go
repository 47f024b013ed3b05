package client

import (
	"testing"
	"time"

	"github.com/edgeo-scada/uacore/pkg/transport"
	"github.com/edgeo-scada/uacore/pkg/ua"
)

func newTestClient(server *fakeServer, opts ...Option) *Client {
	factory := func(endpointURL string, cfg transport.Config) (transport.Connection, error) {
		return newScriptedConn(server), nil
	}
	base := []Option{WithConnectionFactory(factory), WithSyncTimeout(time.Second)}
	return New(append(base, opts...)...)
}

func TestConnectDrivesFullStateSequence(t *testing.T) {
	c := newTestClient(newFakeServer())
	var seen []State
	c.cfg.StateCallback = func(s State) { seen = append(seen, s) }

	if err := c.Connect("opc.tcp://fake:4840"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	want := []State{StateConnected, StateSecureChannel, StateSession}
	if len(seen) != len(want) {
		t.Fatalf("state sequence = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("state sequence = %v, want %v", seen, want)
		}
	}
	if c.GetState() != StateSession {
		t.Fatalf("expected StateSession, got %v", c.GetState())
	}
}

func TestConnectFailsClosedOnRejectedHello(t *testing.T) {
	// A factory whose connection immediately reports closed simulates a
	// server that never completes the handshake.
	c := New(WithConnectionFactory(func(string, transport.Config) (transport.Connection, error) {
		return &alwaysClosedConn{}, nil
	}), WithSyncTimeout(50*time.Millisecond))

	if err := c.Connect("opc.tcp://fake:4840"); err == nil {
		t.Fatal("expected Connect to fail")
	}
	if c.GetState() != StateDisconnected {
		t.Fatalf("expected Disconnected after a failed Connect, got %v", c.GetState())
	}
}

type alwaysClosedConn struct{}

func (alwaysClosedConn) Send([]byte) error                 { return nil }
func (alwaysClosedConn) Receive(int) ([]byte, error)        { return nil, transport.ErrClosed }
func (alwaysClosedConn) RemoteDescription() string          { return "closed" }
func (alwaysClosedConn) Close() error                       { return nil }

func TestSynchronousReadRoundTrip(t *testing.T) {
	c := newTestClient(newFakeServer())
	if err := c.Connect("opc.tcp://fake:4840"); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	req := &ua.ReadRequest{
		RequestHeader: c.newRequestHeader(0),
		NodesToRead: []ua.ReadValueID{
			{NodeID: ua.NewNumericNodeID(1, 200), AttributeID: ua.AttributeValue},
		},
	}
	respAny, err := c.Service(ua.ServiceRead, req)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	resp, ok := respAny.(*ua.ReadResponse)
	if !ok {
		t.Fatalf("expected *ua.ReadResponse, got %T", respAny)
	}
	if len(resp.Results) != 1 || !resp.Results[0].HasValue {
		t.Fatalf("expected one valued result, got %+v", resp.Results)
	}
	if resp.Results[0].Value.Int64 != 42 {
		t.Fatalf("expected value 42, got %d", resp.Results[0].Value.Int64)
	}
	if resp.Results[0].StatusCode != ua.StatusGood {
		t.Fatalf("expected Good, got %v", resp.Results[0].StatusCode)
	}
}

func TestResetReturnsToDisconnectedAndAllowsReconnect(t *testing.T) {
	c := newTestClient(newFakeServer())
	if err := c.Connect("opc.tcp://fake:4840"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	c.Reset()
	if c.GetState() != StateDisconnected {
		t.Fatalf("expected Disconnected after Reset, got %v", c.GetState())
	}
	if c.GetConnection() != nil {
		t.Fatal("expected connection to be released after Reset")
	}
	// A second Connect must work from a Reset client.
	if err := c.Connect("opc.tcp://fake:4840"); err != nil {
		t.Fatalf("reconnect after Reset: %v", err)
	}
}

func TestDisconnectStopsPumpBeforeFailingPendingToAvoidLeak(t *testing.T) {
	server := newFakeServer()
	c := newTestClient(server, WithOutstandingPublishRequests(2))
	if err := c.Connect("opc.tcp://fake:4840"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if c.mux.count() == 0 {
		t.Fatal("expected the publish pump to have outstanding requests before Disconnect")
	}

	if err := c.Disconnect(); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	// If the pump were still running when failAll ran, failing the
	// outstanding Publish entries would have triggered fillPublishPump to
	// queue fresh ones behind failAll's back, leaking them here.
	if c.mux.count() != 0 {
		t.Fatalf("expected no leaked pending requests after Disconnect, got %d", c.mux.count())
	}
}

func TestPublishPumpReducesTargetOnTooManyPublishRequests(t *testing.T) {
	server := newFakeServer()
	c := newTestClient(server, WithOutstandingPublishRequests(3))
	if err := c.Connect("opc.tcp://fake:4840"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if c.pump.target != 3 {
		t.Fatalf("expected initial target 3, got %d", c.pump.target)
	}

	server.publishStatus = ua.StatusBadTooManyPublishRequests
	if _, err := c.Run(0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Drain whatever the pump queued in response to the bad status.
	for i := 0; i < 5; i++ {
		if _, err := c.Run(0); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}
	if c.pump.target >= 3 {
		t.Fatalf("expected pump target to shrink below 3 after BadTooManyPublishRequests, got %d", c.pump.target)
	}
}

func TestPublishPumpStopsOnBadNoSubscription(t *testing.T) {
	server := newFakeServer()
	c := newTestClient(server, WithOutstandingPublishRequests(2))
	if err := c.Connect("opc.tcp://fake:4840"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	server.publishStatus = ua.StatusBadNoSubscription
	for i := 0; i < 5; i++ {
		if _, err := c.Run(0); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}
	if c.pump.running {
		t.Fatal("expected the publish pump to stop after BadNoSubscription")
	}
}

func TestCreateSubscriptionOverEstablishedSession(t *testing.T) {
	c := newTestClient(newFakeServer())
	if err := c.Connect("opc.tcp://fake:4840"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	req := &ua.CreateSubscriptionRequest{RequestHeader: c.newRequestHeader(0), RequestedPublishingInterval: 500}
	respAny, err := c.Service(ua.ServiceCreateSubscription, req)
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	resp, ok := respAny.(*ua.CreateSubscriptionResponse)
	if !ok {
		t.Fatalf("expected *ua.CreateSubscriptionResponse, got %T", respAny)
	}
	if resp.SubscriptionID == 0 {
		t.Fatal("expected a non-zero subscription id")
	}
}

func TestManualSecureChannelRenewalKeepsSession(t *testing.T) {
	c := newTestClient(newFakeServer())
	if err := c.Connect("opc.tcp://fake:4840"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := c.ManuallyRenewSecureChannel(); err != nil {
		t.Fatalf("ManuallyRenewSecureChannel: %v", err)
	}
	if c.GetState() != StateSessionRenewed {
		t.Fatalf("expected StateSessionRenewed, got %v", c.GetState())
	}
}

func TestSessionRenewedFallsBackToSessionOnNextServiceSuccess(t *testing.T) {
	c := newTestClient(newFakeServer())
	if err := c.Connect("opc.tcp://fake:4840"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := c.ManuallyRenewSecureChannel(); err != nil {
		t.Fatalf("ManuallyRenewSecureChannel: %v", err)
	}
	if c.GetState() != StateSessionRenewed {
		t.Fatalf("expected StateSessionRenewed, got %v", c.GetState())
	}

	req := &ua.ReadRequest{NodesToRead: []ua.ReadValueID{{NodeID: ua.NewNumericNodeID(0, 1), AttributeID: ua.AttributeValue}}}
	if _, err := c.Read(req); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if c.GetState() != StateSession {
		t.Fatalf("expected the next successful service call to fall back to StateSession, got %v", c.GetState())
	}
}
