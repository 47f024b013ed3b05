// Package client implements the OPC UA client core: a single-threaded,
// cooperative state machine that layers a SecureChannel and a Session
// over a Connection, multiplexes synchronous and asynchronous service
// calls over that channel, and drives a repeated-callback timer heap and
// a subscription Publish pump from one event loop.
package client

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/edgeo-scada/uacore/pkg/transport"
	"github.com/edgeo-scada/uacore/pkg/ua"
	"github.com/google/uuid"
)

const publishPumpInterval = 100 * time.Millisecond

// session holds what a Session needs to survive channel renewal: it is
// dropped only on channel close, never on renewal alone.
type session struct {
	authToken NodeID
	sessionID NodeID
	timeout   time.Duration
}

// NodeID is re-exported for callers that build request bodies without
// importing pkg/ua directly for this one type; every other wire type is
// used via ua.T.
type NodeID = ua.NodeID

// Client is the top-level object: one Configuration, one Connection,
// zero-or-one SecureChannel, zero-or-one Session, one multiplexer, one
// timer heap, one publish pump.
type Client struct {
	cfg    *Configuration
	logger *slog.Logger

	registry *ua.Registry

	state State
	conn  transport.Connection
	sc    *secureChannel

	session *session
	pump    publishPump

	mux    *multiplexer
	timers *timerHeap

	loopDepth       int
	reentrancyLimit int

	requestHandleSeq uint32

	endpointURL string
	clock       func() time.Time
}

// New constructs a Client from options, applying defaults for anything
// unset. The client owns no resources until Connect succeeds.
func New(opts ...Option) *Client {
	cfg := defaultConfiguration()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.ReentrancyLimit <= 0 {
		cfg.ReentrancyLimit = DefaultReentrancyLimit
	}
	return &Client{
		cfg:             cfg,
		logger:          cfg.Logger,
		registry:        ua.NewRegistry(cfg.CustomTypeDescriptors...),
		state:           StateDisconnected,
		mux:             newMultiplexer(),
		timers:          newTimerHeap(),
		reentrancyLimit: cfg.ReentrancyLimit,
	}
}

// GetState reports the client's single lifecycle variable.
func (c *Client) GetState() State { return c.state }

// GetConnection exposes the raw transport handle for manual transport
// scenarios; it is nil outside Connected..SessionRenewed.
func (c *Client) GetConnection() transport.Connection { return c.conn }

// Reset fails every pending request with BadShutdown, tears down any
// channel/session/connection and returns the client to Disconnected
// without releasing configuration, so it can Connect again.
func (c *Client) Reset() {
	c.stopPublishPump()
	c.mux.failAll(c, ua.StatusBadShutdown)
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = nil
	c.sc = nil
	c.session = nil
	c.setState(StateDisconnected)
}

// Delete is Reset followed by discarding the timer heap; the
// Client must not be used afterward. It exists as a distinct operation
// from Reset because an application may Reset-and-reconnect but Delete is
// always terminal.
func (c *Client) Delete() {
	c.Reset()
	c.timers = newTimerHeap()
}

// Connect drives Disconnected all the way to Session with an anonymous
// identity: TCP up, HEL/ACK, OpenSecureChannel#None, CreateSession,
// ActivateSession. Any failure before SecureChannel leaves the client
// Disconnected by the time Connect returns.
func (c *Client) Connect(endpointURL string) error {
	return c.connect(endpointURL, nil)
}

// ConnectUsername is Connect using a UserNameIdentityToken with the policy
// ID advertised by the endpoint, instead of an anonymous identity.
func (c *Client) ConnectUsername(endpointURL, username, password string) error {
	return c.connect(endpointURL, &usernameIdentity{username: username, password: password})
}

type usernameIdentity struct {
	username string
	password string
}

func (c *Client) connect(endpointURL string, identity *usernameIdentity) error {
	if c.state != StateDisconnected {
		return fmt.Errorf("client: connect called from state %s", c.state)
	}
	c.endpointURL = endpointURL

	conn, err := c.cfg.ConnectionFactory(endpointURL, c.cfg.LocalConnectionConfig)
	if err != nil {
		c.setState(StateDisconnected)
		return fmt.Errorf("client: open transport: %w", err)
	}
	c.conn = conn
	c.setState(StateConnected)

	if err := c.helloAcknowledge(); err != nil {
		c.teardownAfterFailure()
		return err
	}

	if err := c.openChannel(ua.SecurityTokenRequestIssue); err != nil {
		c.teardownAfterFailure()
		return err
	}
	c.setState(StateSecureChannel)
	c.startRenewalTimer()

	endpoint, err := c.selectEndpoint(endpointURL, identity)
	if err != nil {
		c.teardownAfterFailure()
		return err
	}

	if err := c.createAndActivateSession(endpoint, identity); err != nil {
		c.teardownAfterFailure()
		return err
	}
	c.setState(StateSession)
	c.startPublishPump()
	return nil
}

func (c *Client) teardownAfterFailure() {
	c.stopPublishPump()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = nil
	c.sc = nil
	c.session = nil
	c.setState(StateDisconnected)
}

func (c *Client) helloAcknowledge() error {
	hello := &ua.HelloMessage{
		ProtocolVersion:   0,
		ReceiveBufferSize: c.cfg.LocalConnectionConfig.RecvBufferSize,
		SendBufferSize:    c.cfg.LocalConnectionConfig.SendBufferSize,
		MaxMessageSize:    c.cfg.LocalConnectionConfig.MaxMessageSize,
		MaxChunkCount:     c.cfg.LocalConnectionConfig.MaxChunkCount,
		EndpointURL:       c.endpointURL,
	}
	body := hello.Encode()
	header := ua.MessageHeader{ChunkType: ua.ChunkTypeFinal, MessageSize: uint32(8 + len(body))}
	copy(header.MessageType[:], ua.MessageTypeHello)
	if err := c.conn.Send(append(header.Encode(), body...)); err != nil {
		return fmt.Errorf("client: send HEL: %w", err)
	}

	deadline := c.now().Add(c.cfg.SyncTimeout)
	for {
		raw, err := c.conn.Receive(remainingMs(deadline, c.now()))
		if err != nil {
			return fmt.Errorf("client: HEL/ACK handshake: %w", err)
		}
		var h ua.MessageHeader
		if err := h.Decode(raw); err != nil {
			return err
		}
		switch string(h.MessageType[:]) {
		case ua.MessageTypeAcknowledge:
			var ack ua.AcknowledgeMessage
			if err := ack.Decode(raw[8:h.MessageSize]); err != nil {
				return err
			}
			return nil
		case ua.MessageTypeError:
			var errMsg ua.ErrorMessage
			_ = errMsg.Decode(raw[8:h.MessageSize])
			return fmt.Errorf("client: server rejected HEL: %s", errMsg.Reason)
		default:
			return fmt.Errorf("%w: expected ACK, got %q", ua.ErrInvalidMessage, h.MessageType)
		}
	}
}

func remainingMs(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d / time.Millisecond)
}

func (c *Client) newRequestHeader(timeoutHint uint32) ua.RequestHeader {
	h := ua.RequestHeader{
		Timestamp:     c.now().UnixNano()/100 + windowsEpochOffsetHint,
		RequestHandle: c.nextRequestHandle(),
		TimeoutHint:   timeoutHint,
	}
	if c.session != nil {
		h.AuthenticationToken = c.session.authToken
	}
	return h
}

// windowsEpochOffsetHint keeps RequestHeader.Timestamp in the same
// FILETIME-like unit as the wire DateTime encoding, without pulling every
// caller of newRequestHeader through the encoding package.
const windowsEpochOffsetHint = 116444736000000000

func (c *Client) nextRequestHandle() uint32 {
	c.requestHandleSeq++
	return c.requestHandleSeq
}

func (c *Client) publishTimeout() time.Duration {
	return c.cfg.SyncTimeout
}

// applicationDescription builds the ApplicationDescription sent with
// every CreateSession, tagging the client with a fresh UUID-derived
// application instance identity if none was configured explicitly.
func (c *Client) applicationDescription() ua.ApplicationDescription {
	uri := c.cfg.ApplicationURI
	if uri == "" {
		uri = "urn:uacore:client:" + uuid.NewString()
	}
	return ua.ApplicationDescription{
		ApplicationURI:  uri,
		ProductURI:      "urn:edgeo-scada:uacore",
		ApplicationName: ua.LocalizedText{Locale: "en", Text: c.cfg.ApplicationName},
		ApplicationType: ua.ApplicationTypeClient,
	}
}
