package client

import (
	"sync"

	"github.com/edgeo-scada/uacore/pkg/transport"
	"github.com/edgeo-scada/uacore/pkg/ua"
)

// scriptedConn is a synchronous, in-memory transport.Connection: Send hands
// the frame straight to a fakeServer and appends whatever it replies with to
// an outbox; Receive pops the outbox or reports ErrTimeout. There is no
// goroutine on either side, matching the single-threaded cooperative loop
// under test.
type scriptedConn struct {
	mu     sync.Mutex
	server *fakeServer
	outbox [][]byte
	closed bool
}

func newScriptedConn(server *fakeServer) *scriptedConn {
	return &scriptedConn{server: server}
}

func (s *scriptedConn) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return transport.ErrClosed
	}
	replies := s.server.handle(data)
	s.outbox = append(s.outbox, replies...)
	return nil
}

func (s *scriptedConn) Receive(timeoutMs int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, transport.ErrClosed
	}
	if len(s.outbox) == 0 {
		return nil, transport.ErrTimeout
	}
	next := s.outbox[0]
	s.outbox = s.outbox[1:]
	return next, nil
}

func (s *scriptedConn) RemoteDescription() string { return "scripted://fake-server" }

func (s *scriptedConn) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// fakeServer answers HEL/OPN/MSG frames with canned responses, hand-encoded
// rather than routed through the production descriptors: every built-in
// descriptor's response-encode side is deliberately unimplemented (this core
// never needs to build a response), so the only way to play server here is
// to write the wire bytes directly, mirroring the field order the real
// decode functions expect.
type fakeServer struct {
	mu sync.Mutex

	channelID uint32
	tokenID   uint32
	seqNum    uint32

	subscriptionID uint32

	// publishStatus, when non-zero, is returned as the ServiceResult of the
	// next Publish response instead of Good; it is consumed once.
	publishStatus ua.StatusCode
	publishCount  int
}

func newFakeServer() *fakeServer {
	return &fakeServer{channelID: 7, tokenID: 3, subscriptionID: 55}
}

func (f *fakeServer) handle(raw []byte) [][]byte {
	var h ua.MessageHeader
	if err := h.Decode(raw); err != nil {
		return nil
	}
	body := raw[8:h.MessageSize]

	switch string(h.MessageType[:]) {
	case ua.MessageTypeHello:
		return [][]byte{f.buildAck()}
	case ua.MessageTypeOpenChannel:
		return [][]byte{f.buildOpenChannelReply(body)}
	case ua.MessageTypeMessage:
		return f.buildMessageReply(body)
	default:
		return nil
	}
}

func (f *fakeServer) buildAck() []byte {
	e := ua.NewEncoder()
	e.WriteUInt32(0)
	e.WriteUInt32(65535)
	e.WriteUInt32(65535)
	e.WriteUInt32(0)
	e.WriteUInt32(0)
	return wrapChunk(ua.MessageTypeAcknowledge, ua.ChunkTypeFinal, e.Bytes())
}

// buildOpenChannelReply parses just enough of the OPN body to recover the
// request's SequenceHeader.RequestID for correlation; it never needs the
// OpenSecureChannelRequest fields themselves.
func (f *fakeServer) buildOpenChannelReply(body []byte) []byte {
	d := ua.NewDecoder(body)
	_, _ = d.ReadUInt32()  // channel id
	_, _ = d.ReadString()  // security policy uri
	_, _ = d.ReadByteString()
	_, _ = d.ReadByteString()
	var seq ua.SequenceHeader
	_ = seq.Decode(d)

	e := ua.NewEncoder()
	e.WriteUInt32(uint32(ua.ServiceOpenSecureChannel) + 1)
	writeResponseHeader(e, ua.ZeroResponseHeader(0, ua.StatusGood))
	e.WriteUInt32(0) // ServerProtocolVersion
	e.WriteUInt32(f.channelID)
	e.WriteUInt32(f.tokenID)
	e.WriteInt64(0) // SecurityToken.CreatedAt
	e.WriteUInt32(600000)
	e.WriteByteString(nil) // ServerNonce

	respSeq := ua.SequenceHeader{SequenceNumber: f.allocSeqNum(), RequestID: seq.RequestID}
	inner := ua.NewEncoder()
	inner.WriteUInt32(f.channelID)
	inner.WriteString(securityPolicyNoneURI)
	inner.WriteByteString(nil)
	inner.WriteByteString(nil)
	respSeq.Encode(inner)
	inner.WriteRaw(e.Bytes())
	return wrapChunk(ua.MessageTypeOpenChannel, ua.ChunkTypeFinal, inner.Bytes())
}

// buildMessageReply parses the MSG envelope to recover the RequestID and the
// request's binary type id (the same 4-byte prefix encodeBody writes), then
// dispatches on ServiceID to a hand-encoded response body.
func (f *fakeServer) buildMessageReply(body []byte) [][]byte {
	d := ua.NewDecoder(body)
	_, _ = d.ReadUInt32() // channel id
	_, _ = d.ReadUInt32() // token id
	var seq ua.SequenceHeader
	if err := seq.Decode(d); err != nil {
		return nil
	}
	rest := body[len(body)-d.Remaining():]
	rd := ua.NewDecoder(rest)
	reqTypeID, err := rd.ReadUInt32()
	if err != nil {
		return nil
	}
	serviceID := ua.ServiceID(reqTypeID)

	var respBody []byte
	switch serviceID {
	case ua.ServiceGetEndpoints:
		respBody = f.getEndpointsResponse()
	case ua.ServiceCreateSession:
		respBody = f.createSessionResponse()
	case ua.ServiceActivateSession:
		respBody = f.activateSessionResponse()
	case ua.ServiceCloseSession:
		respBody = f.closeSessionResponse()
	case ua.ServiceRead:
		respBody = f.readResponse()
	case ua.ServiceCreateSubscription:
		respBody = f.createSubscriptionResponse()
	case ua.ServicePublish:
		respBody = f.publishResponse()
	default:
		return nil
	}

	respSeq := ua.SequenceHeader{SequenceNumber: f.allocSeqNum(), RequestID: seq.RequestID}
	e := ua.NewEncoder()
	e.WriteUInt32(f.channelID)
	e.WriteUInt32(f.tokenID)
	respSeq.Encode(e)
	e.WriteRaw(respBody)
	return [][]byte{wrapChunk(ua.MessageTypeMessage, ua.ChunkTypeFinal, e.Bytes())}
}

func (f *fakeServer) allocSeqNum() uint32 {
	f.seqNum++
	if f.seqNum == 0 {
		f.seqNum = 1
	}
	return f.seqNum
}

// writeResponseHeader hand-encodes a ResponseHeader in the field order the
// production decodeResponseHeader expects: production never needs to write
// one (this is a client-only core), so there is no exported counterpart.
func writeResponseHeader(e *ua.Encoder, h ua.ResponseHeader) {
	e.WriteInt64(h.Timestamp)
	e.WriteUInt32(h.RequestHandle)
	e.WriteStatusCode(h.ServiceResult)
	e.WriteByte(0x00)          // DiagnosticInfo encoding mask, null
	e.WriteInt32(-1)           // StringTable, null array
	e.WriteNodeID(ua.NodeID{}) // AdditionalHeader type id, null
	e.WriteByte(0x00)          // AdditionalHeader body marker
}

func (f *fakeServer) getEndpointsResponse() []byte {
	e := ua.NewEncoder()
	e.WriteUInt32(uint32(ua.ServiceGetEndpoints) + 1)
	writeResponseHeader(e, ua.ZeroResponseHeader(0, ua.StatusGood))
	e.WriteInt32(1) // one endpoint
	writeEndpointDescription(e, ua.EndpointDescription{
		EndpointURL: "opc.tcp://fake:4840",
		Server: ua.ApplicationDescription{
			ApplicationURI:  "urn:fake:server",
			ApplicationName: ua.LocalizedText{Locale: "en", Text: "fake server"},
			ApplicationType: ua.ApplicationTypeServer,
		},
		SecurityMode:      ua.MessageSecurityModeNone,
		SecurityPolicyURI: securityPolicyNoneURI,
		UserIdentityTokens: []ua.UserTokenPolicy{
			{PolicyID: "anonymous", TokenType: ua.UserTokenTypeAnonymous},
			{PolicyID: "username", TokenType: ua.UserTokenTypeUserName},
		},
	})
	return e.Bytes()
}

func writeEndpointDescription(e *ua.Encoder, ep ua.EndpointDescription) {
	e.WriteString(ep.EndpointURL)
	writeApplicationDescription(e, ep.Server)
	e.WriteByteString(ep.ServerCertificate)
	e.WriteUInt32(uint32(ep.SecurityMode))
	e.WriteString(ep.SecurityPolicyURI)
	e.WriteInt32(int32(len(ep.UserIdentityTokens)))
	for _, t := range ep.UserIdentityTokens {
		e.WriteString(t.PolicyID)
		e.WriteUInt32(uint32(t.TokenType))
		e.WriteString(t.IssuedTokenType)
		e.WriteString(t.IssuerEndpointURL)
		e.WriteString(t.SecurityPolicyURI)
	}
	e.WriteString(ep.TransportProfileURI)
	e.WriteByte(ep.SecurityLevel)
}

func writeApplicationDescription(e *ua.Encoder, a ua.ApplicationDescription) {
	e.WriteString(a.ApplicationURI)
	e.WriteString(a.ProductURI)
	e.WriteString(a.ApplicationName.Locale)
	e.WriteString(a.ApplicationName.Text)
	e.WriteUInt32(uint32(a.ApplicationType))
	e.WriteString(a.GatewayServerURI)
	e.WriteString(a.DiscoveryProfileURI)
	e.WriteInt32(int32(len(a.DiscoveryURLs)))
	for _, u := range a.DiscoveryURLs {
		e.WriteString(u)
	}
}

func (f *fakeServer) createSessionResponse() []byte {
	e := ua.NewEncoder()
	e.WriteUInt32(uint32(ua.ServiceCreateSession) + 1)
	writeResponseHeader(e, ua.ZeroResponseHeader(0, ua.StatusGood))
	e.WriteNodeID(ua.NewNumericNodeID(1, 100)) // SessionID
	e.WriteNodeID(ua.NewNumericNodeID(1, 101)) // AuthenticationToken
	e.WriteFloat64(60000)
	e.WriteByteString(nil) // ServerNonce
	e.WriteByteString(nil) // ServerCertificate
	e.WriteInt32(0)        // ServerEndpoints, empty
	e.WriteUInt32(0)       // MaxRequestMessageSize
	return e.Bytes()
}

func (f *fakeServer) activateSessionResponse() []byte {
	e := ua.NewEncoder()
	e.WriteUInt32(uint32(ua.ServiceActivateSession) + 1)
	writeResponseHeader(e, ua.ZeroResponseHeader(0, ua.StatusGood))
	e.WriteByteString(nil) // ServerNonce
	e.WriteInt32(0)        // Results, empty
	return e.Bytes()
}

func (f *fakeServer) closeSessionResponse() []byte {
	e := ua.NewEncoder()
	e.WriteUInt32(uint32(ua.ServiceCloseSession) + 1)
	writeResponseHeader(e, ua.ZeroResponseHeader(0, ua.StatusGood))
	return e.Bytes()
}

// readResponse answers with a single Good Int32(42) DataValue.
func (f *fakeServer) readResponse() []byte {
	e := ua.NewEncoder()
	e.WriteUInt32(uint32(ua.ServiceRead) + 1)
	writeResponseHeader(e, ua.ZeroResponseHeader(0, ua.StatusGood))
	e.WriteInt32(1)
	e.WriteByte(0x03) // HasValue | HasStatusCode
	v := ua.NewInt32Variant(42)
	e.WriteByte(byte(v.TypeID))
	e.WriteInt32(int32(v.Int64))
	e.WriteStatusCode(ua.StatusGood)
	return e.Bytes()
}

func (f *fakeServer) createSubscriptionResponse() []byte {
	e := ua.NewEncoder()
	e.WriteUInt32(uint32(ua.ServiceCreateSubscription) + 1)
	writeResponseHeader(e, ua.ZeroResponseHeader(0, ua.StatusGood))
	e.WriteUInt32(f.subscriptionID)
	e.WriteFloat64(1000)
	e.WriteUInt32(600)
	e.WriteUInt32(20)
	return e.Bytes()
}

// publishResponse returns publishStatus (consumed once) or Good with an
// empty notification, enough to drive the pump's bookkeeping without
// needing a full NotificationData wire encoding.
func (f *fakeServer) publishResponse() []byte {
	f.mu.Lock()
	status := f.publishStatus
	f.publishStatus = ua.StatusGood
	f.publishCount++
	seq := uint32(f.publishCount)
	f.mu.Unlock()

	e := ua.NewEncoder()
	e.WriteUInt32(uint32(ua.ServicePublish) + 1)
	writeResponseHeader(e, ua.ZeroResponseHeader(0, status))
	e.WriteUInt32(f.subscriptionID)
	e.WriteInt32(0) // AvailableSequenceNumbers, empty
	e.WriteBool(false)
	e.WriteUInt32(seq) // NotificationMessage.SequenceNumber
	e.WriteInt64(0)    // NotificationMessage.PublishTime
	e.WriteInt32(0)    // NotificationData, empty
	e.WriteInt32(0)    // Results, empty
	return e.Bytes()
}
