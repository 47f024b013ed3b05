// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ua

import "fmt"

// Every service pair here follows the same convention: the request's
// binary type id is its ServiceID, the matching response uses ServiceID+1.
// A real OPC UA stack reserves distinct, non-adjacent ids per Part 6 for
// this; this core is not wire-compatible with a Part 6 stack and does not
// need to be, since the point under test is the state machine and
// multiplexer above the descriptor boundary, not interop.

func reqID(s ServiceID) uint32  { return uint32(s) }
func respID(s ServiceID) uint32 { return uint32(s) + 1 }

// -- shared field codecs -----------------------------------------------

func encodeVariant(e *Encoder, v *Variant) {
	if v == nil {
		e.WriteByte(0x00)
		return
	}
	mask := byte(v.TypeID)
	if v.IsArray {
		mask |= 0x80
	}
	e.WriteByte(mask)
	if v.IsArray {
		e.WriteInt32(int32(len(v.Array)))
		for i := range v.Array {
			encodeVariantBody(e, v.TypeID, &v.Array[i])
		}
		return
	}
	encodeVariantBody(e, v.TypeID, v)
}

func encodeVariantBody(e *Encoder, t TypeID, v *Variant) {
	switch t {
	case TypeBoolean:
		e.WriteBool(v.Bool)
	case TypeSByte, TypeByte:
		e.WriteByte(byte(v.Int64))
	case TypeInt16:
		e.WriteInt16(int16(v.Int64))
	case TypeUInt16:
		e.WriteUInt16(uint16(v.Uint64))
	case TypeInt32:
		e.WriteInt32(int32(v.Int64))
	case TypeUInt32:
		e.WriteUInt32(uint32(v.Uint64))
	case TypeInt64:
		e.WriteInt64(v.Int64)
	case TypeUInt64:
		e.WriteUInt64(v.Uint64)
	case TypeFloat:
		e.WriteFloat32(float32(v.Float64))
	case TypeDouble:
		e.WriteFloat64(v.Float64)
	case TypeString:
		e.WriteString(v.String)
	case TypeDateTime:
		e.WriteDateTime(v.Int64)
	case TypeByteString:
		e.WriteByteString(v.Bytes)
	case TypeNodeID:
		e.WriteNodeID(v.NodeID)
	case TypeStatusCode:
		e.WriteStatusCode(StatusCode(v.Uint64))
	default:
		e.WriteByteString(v.Raw)
	}
}

func decodeVariant(d *Decoder) (*Variant, error) {
	mask, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if mask == 0x00 {
		return nil, nil
	}
	isArray := mask&0x80 != 0
	t := TypeID(mask &^ 0x80)
	v := &Variant{TypeID: t, IsArray: isArray}
	if isArray {
		n, err := d.ReadInt32()
		if err != nil {
			return nil, err
		}
		v.Array = make([]Variant, 0, max0(n))
		for i := int32(0); i < n; i++ {
			elem, err := decodeVariantBody(d, t)
			if err != nil {
				return nil, err
			}
			v.Array = append(v.Array, *elem)
		}
		return v, nil
	}
	body, err := decodeVariantBody(d, t)
	if err != nil {
		return nil, err
	}
	body.IsArray = false
	return body, nil
}

func max0(n int32) int32 {
	if n < 0 {
		return 0
	}
	return n
}

func decodeVariantBody(d *Decoder, t TypeID) (*Variant, error) {
	v := &Variant{TypeID: t}
	var err error
	switch t {
	case TypeBoolean:
		v.Bool, err = d.ReadBool()
	case TypeSByte, TypeByte:
		var b byte
		b, err = d.ReadByte()
		v.Int64 = int64(b)
	case TypeInt16:
		var x int16
		x, err = d.ReadInt16()
		v.Int64 = int64(x)
	case TypeUInt16:
		var x uint16
		x, err = d.ReadUInt16()
		v.Uint64 = uint64(x)
	case TypeInt32:
		var x int32
		x, err = d.ReadInt32()
		v.Int64 = int64(x)
	case TypeUInt32:
		var x uint32
		x, err = d.ReadUInt32()
		v.Uint64 = uint64(x)
	case TypeInt64:
		v.Int64, err = d.ReadInt64()
	case TypeUInt64:
		v.Uint64, err = d.ReadUInt64()
	case TypeFloat:
		var f float32
		f, err = d.ReadFloat32()
		v.Float64 = float64(f)
	case TypeDouble:
		v.Float64, err = d.ReadFloat64()
	case TypeString:
		v.String, err = d.ReadString()
	case TypeDateTime:
		v.Int64, err = d.ReadDateTime()
	case TypeByteString:
		v.Bytes, err = d.ReadByteString()
	case TypeNodeID:
		v.NodeID, err = d.ReadNodeID()
	case TypeStatusCode:
		var sc StatusCode
		sc, err = d.ReadStatusCode()
		v.Uint64 = uint64(sc)
	default:
		v.Raw, err = d.ReadByteString()
	}
	return v, err
}

func encodeDataValue(e *Encoder, dv *DataValue) {
	var mask byte
	if dv.HasValue {
		mask |= 0x01
	}
	if dv.HasStatusCode {
		mask |= 0x02
	}
	if dv.HasSourceTS {
		mask |= 0x04
	}
	if dv.HasServerTS {
		mask |= 0x08
	}
	e.WriteByte(mask)
	if dv.HasValue {
		encodeVariant(e, dv.Value)
	}
	if dv.HasStatusCode {
		e.WriteStatusCode(dv.StatusCode)
	}
	if dv.HasSourceTS {
		e.WriteDateTime(dv.SourceTimestamp)
	}
	if dv.HasServerTS {
		e.WriteDateTime(dv.ServerTimestamp)
	}
}

func decodeDataValue(d *Decoder) (DataValue, error) {
	var dv DataValue
	mask, err := d.ReadByte()
	if err != nil {
		return dv, err
	}
	dv.HasValue = mask&0x01 != 0
	dv.HasStatusCode = mask&0x02 != 0
	dv.HasSourceTS = mask&0x04 != 0
	dv.HasServerTS = mask&0x08 != 0
	if dv.HasValue {
		dv.Value, err = decodeVariant(d)
		if err != nil {
			return dv, err
		}
	}
	if dv.HasStatusCode {
		if dv.StatusCode, err = d.ReadStatusCode(); err != nil {
			return dv, err
		}
	}
	if dv.HasSourceTS {
		if dv.SourceTimestamp, err = d.ReadDateTime(); err != nil {
			return dv, err
		}
	}
	if dv.HasServerTS {
		if dv.ServerTimestamp, err = d.ReadDateTime(); err != nil {
			return dv, err
		}
	}
	return dv, nil
}

func encodeReadValueID(e *Encoder, r *ReadValueID) {
	e.WriteNodeID(r.NodeID)
	e.WriteUInt32(uint32(r.AttributeID))
	e.WriteString(r.IndexRange)
	e.WriteUInt16(r.DataEncoding.NamespaceIndex)
	e.WriteString(r.DataEncoding.Name)
}

func decodeReadValueID(d *Decoder) (ReadValueID, error) {
	var r ReadValueID
	var err error
	if r.NodeID, err = d.ReadNodeID(); err != nil {
		return r, err
	}
	var attr uint32
	if attr, err = d.ReadUInt32(); err != nil {
		return r, err
	}
	r.AttributeID = AttributeID(attr)
	if r.IndexRange, err = d.ReadString(); err != nil {
		return r, err
	}
	if r.DataEncoding.NamespaceIndex, err = d.ReadUInt16(); err != nil {
		return r, err
	}
	if r.DataEncoding.Name, err = d.ReadString(); err != nil {
		return r, err
	}
	return r, nil
}

func encodeWriteValue(e *Encoder, w *WriteValue) {
	e.WriteNodeID(w.NodeID)
	e.WriteUInt32(uint32(w.AttributeID))
	e.WriteString(w.IndexRange)
	encodeDataValue(e, &w.Value)
}

func encodeApplicationDescription(e *Encoder, a *ApplicationDescription) {
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

func decodeApplicationDescription(d *Decoder) (ApplicationDescription, error) {
	var a ApplicationDescription
	var err error
	if a.ApplicationURI, err = d.ReadString(); err != nil {
		return a, err
	}
	if a.ProductURI, err = d.ReadString(); err != nil {
		return a, err
	}
	if a.ApplicationName.Locale, err = d.ReadString(); err != nil {
		return a, err
	}
	if a.ApplicationName.Text, err = d.ReadString(); err != nil {
		return a, err
	}
	var t uint32
	if t, err = d.ReadUInt32(); err != nil {
		return a, err
	}
	a.ApplicationType = ApplicationType(t)
	if a.GatewayServerURI, err = d.ReadString(); err != nil {
		return a, err
	}
	if a.DiscoveryProfileURI, err = d.ReadString(); err != nil {
		return a, err
	}
	n, err := d.ReadInt32()
	if err != nil {
		return a, err
	}
	for i := int32(0); i < n; i++ {
		u, err := d.ReadString()
		if err != nil {
			return a, err
		}
		a.DiscoveryURLs = append(a.DiscoveryURLs, u)
	}
	return a, nil
}

func decodeUserTokenPolicy(d *Decoder) (UserTokenPolicy, error) {
	var p UserTokenPolicy
	var err error
	if p.PolicyID, err = d.ReadString(); err != nil {
		return p, err
	}
	var t uint32
	if t, err = d.ReadUInt32(); err != nil {
		return p, err
	}
	p.TokenType = UserTokenType(t)
	if p.IssuedTokenType, err = d.ReadString(); err != nil {
		return p, err
	}
	if p.IssuerEndpointURL, err = d.ReadString(); err != nil {
		return p, err
	}
	if p.SecurityPolicyURI, err = d.ReadString(); err != nil {
		return p, err
	}
	return p, nil
}

func decodeEndpointDescription(d *Decoder) (EndpointDescription, error) {
	var ep EndpointDescription
	var err error
	if ep.EndpointURL, err = d.ReadString(); err != nil {
		return ep, err
	}
	if ep.Server, err = decodeApplicationDescription(d); err != nil {
		return ep, err
	}
	if ep.ServerCertificate, err = d.ReadByteString(); err != nil {
		return ep, err
	}
	var mode uint32
	if mode, err = d.ReadUInt32(); err != nil {
		return ep, err
	}
	ep.SecurityMode = MessageSecurityMode(mode)
	if ep.SecurityPolicyURI, err = d.ReadString(); err != nil {
		return ep, err
	}
	n, err := d.ReadInt32()
	if err != nil {
		return ep, err
	}
	for i := int32(0); i < n; i++ {
		tok, err := decodeUserTokenPolicy(d)
		if err != nil {
			return ep, err
		}
		ep.UserIdentityTokens = append(ep.UserIdentityTokens, tok)
	}
	if ep.TransportProfileURI, err = d.ReadString(); err != nil {
		return ep, err
	}
	if ep.SecurityLevel, err = d.ReadByte(); err != nil {
		return ep, err
	}
	return ep, nil
}

func encodeUserIdentityToken(e *Encoder, token any) {
	switch t := token.(type) {
	case *AnonymousIdentityToken:
		e.WriteByte(0)
		e.WriteString(t.PolicyID)
	case *UserNameIdentityToken:
		e.WriteByte(1)
		e.WriteString(t.PolicyID)
		e.WriteString(t.UserName)
		e.WriteByteString(t.Password)
		e.WriteString(t.EncryptionAlgorithm)
	case *X509IdentityToken:
		e.WriteByte(2)
		e.WriteString(t.PolicyID)
		e.WriteByteString(t.CertificateData)
	default:
		e.WriteByte(0)
		e.WriteString("")
	}
}

func encodeCallMethodRequest(e *Encoder, c *CallMethodRequest) {
	e.WriteNodeID(c.ObjectID)
	e.WriteNodeID(c.MethodID)
	e.WriteInt32(int32(len(c.InputArguments)))
	for i := range c.InputArguments {
		encodeVariant(e, &c.InputArguments[i])
	}
}

func decodeCallMethodResult(d *Decoder) (CallMethodResult, error) {
	var r CallMethodResult
	var err error
	if r.StatusCode, err = d.ReadStatusCode(); err != nil {
		return r, err
	}
	n, err := d.ReadInt32()
	if err != nil {
		return r, err
	}
	for i := int32(0); i < n; i++ {
		sc, err := d.ReadStatusCode()
		if err != nil {
			return r, err
		}
		r.InputArgumentResults = append(r.InputArgumentResults, sc)
	}
	m, err := d.ReadInt32()
	if err != nil {
		return r, err
	}
	for i := int32(0); i < m; i++ {
		v, err := decodeVariant(d)
		if err != nil {
			return r, err
		}
		if v != nil {
			r.OutputArguments = append(r.OutputArguments, *v)
		}
	}
	return r, nil
}

func decodeReferenceDescription(d *Decoder) (ReferenceDescription, error) {
	var r ReferenceDescription
	var err error
	if r.ReferenceTypeID, err = d.ReadNodeID(); err != nil {
		return r, err
	}
	if r.IsForward, err = d.ReadBool(); err != nil {
		return r, err
	}
	if r.NodeID, err = d.ReadNodeID(); err != nil {
		return r, err
	}
	if r.BrowseName.NamespaceIndex, err = d.ReadUInt16(); err != nil {
		return r, err
	}
	if r.BrowseName.Name, err = d.ReadString(); err != nil {
		return r, err
	}
	if r.DisplayName.Locale, err = d.ReadString(); err != nil {
		return r, err
	}
	if r.DisplayName.Text, err = d.ReadString(); err != nil {
		return r, err
	}
	if r.NodeClass, err = d.ReadUInt32(); err != nil {
		return r, err
	}
	if r.TypeDefinition, err = d.ReadNodeID(); err != nil {
		return r, err
	}
	return r, nil
}

func decodeBrowseResult(d *Decoder) (BrowseResult, error) {
	var r BrowseResult
	var err error
	if r.StatusCode, err = d.ReadStatusCode(); err != nil {
		return r, err
	}
	if r.ContinuationPoint, err = d.ReadByteString(); err != nil {
		return r, err
	}
	n, err := d.ReadInt32()
	if err != nil {
		return r, err
	}
	for i := int32(0); i < n; i++ {
		ref, err := decodeReferenceDescription(d)
		if err != nil {
			return r, err
		}
		r.References = append(r.References, ref)
	}
	return r, nil
}

func decodeMonitoredItemCreateResult(d *Decoder) (MonitoredItemCreateResult, error) {
	var r MonitoredItemCreateResult
	var err error
	if r.StatusCode, err = d.ReadStatusCode(); err != nil {
		return r, err
	}
	if r.MonitoredItemID, err = d.ReadUInt32(); err != nil {
		return r, err
	}
	if r.RevisedSamplingInterval, err = d.ReadFloat64(); err != nil {
		return r, err
	}
	if r.RevisedQueueSize, err = d.ReadUInt32(); err != nil {
		return r, err
	}
	return r, nil
}

func decodeDataChangeNotificationData(d *Decoder) (*DataChangeNotificationData, error) {
	var dc DataChangeNotificationData
	n, err := d.ReadInt32()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < n; i++ {
		handle, err := d.ReadUInt32()
		if err != nil {
			return nil, err
		}
		v, err := decodeDataValue(d)
		if err != nil {
			return nil, err
		}
		dc.MonitoredItems = append(dc.MonitoredItems, MonitoredItemNotification{ClientHandle: handle, Value: v})
	}
	return &dc, nil
}

// -- request/response value types ---------------------------------------

type GetEndpointsRequest struct {
	RequestHeader RequestHeader
	EndpointURL   string
}

type GetEndpointsResponse struct {
	ResponseHeader ResponseHeader
	Endpoints      []EndpointDescription
}

type FindServersRequest struct {
	RequestHeader RequestHeader
	EndpointURL   string
	ServerURIs    []string
}

type FindServersResponse struct {
	ResponseHeader ResponseHeader
	Servers        []ApplicationDescription
}

type FindServersOnNetworkRequest struct {
	RequestHeader          RequestHeader
	StartingRecordID       uint32
	MaxRecordsToReturn     uint32
	ServerCapabilityFilter []string
}

type ServerOnNetwork struct {
	RecordID           uint32
	ServerName         string
	DiscoveryURL       string
	ServerCapabilities []string
}

type FindServersOnNetworkResponse struct {
	ResponseHeader       ResponseHeader
	LastCounterResetTime int64
	Servers              []ServerOnNetwork
}

type CreateSessionRequest struct {
	RequestHeader           RequestHeader
	ClientDescription       ApplicationDescription
	ServerURI               string
	EndpointURL             string
	SessionName             string
	ClientNonce             []byte
	ClientCertificate       []byte
	RequestedSessionTimeout float64
	MaxResponseMessageSize  uint32
}

type CreateSessionResponse struct {
	ResponseHeader        ResponseHeader
	SessionID             NodeID
	AuthenticationToken   NodeID
	RevisedSessionTimeout float64
	ServerNonce           []byte
	ServerCertificate     []byte
	ServerEndpoints       []EndpointDescription
	MaxRequestMessageSize uint32
}

type ActivateSessionRequest struct {
	RequestHeader      RequestHeader
	ClientSignature    SignatureData
	LocaleIDs          []string
	UserIdentityToken  any
	UserTokenSignature SignatureData
}

type ActivateSessionResponse struct {
	ResponseHeader ResponseHeader
	ServerNonce    []byte
}

type CloseSessionRequest struct {
	RequestHeader       RequestHeader
	DeleteSubscriptions bool
}

type CloseSessionResponse struct {
	ResponseHeader ResponseHeader
}

type ReadRequest struct {
	RequestHeader      RequestHeader
	MaxAge             float64
	TimestampsToReturn TimestampsToReturn
	NodesToRead        []ReadValueID
}

type ReadResponse struct {
	ResponseHeader ResponseHeader
	Results        []DataValue
}

type WriteRequest struct {
	RequestHeader RequestHeader
	NodesToWrite  []WriteValue
}

type WriteResponse struct {
	ResponseHeader ResponseHeader
	Results        []StatusCode
}

type BrowseRequest struct {
	RequestHeader                 RequestHeader
	RequestedMaxReferencesPerNode uint32
	NodesToBrowse                 []BrowseDescription
}

type BrowseResponse struct {
	ResponseHeader ResponseHeader
	Results        []BrowseResult
}

type BrowseNextRequest struct {
	RequestHeader             RequestHeader
	ReleaseContinuationPoints bool
	ContinuationPoints        [][]byte
}

type BrowseNextResponse struct {
	ResponseHeader ResponseHeader
	Results        []BrowseResult
}

// RelativePathElement is one hop of a BrowsePath, matched by reference type
// and target BrowseName rather than by NodeID.
type RelativePathElement struct {
	ReferenceTypeID NodeID
	IsInverse       bool
	IncludeSubtypes bool
	TargetName      QualifiedName
}

type BrowsePath struct {
	StartingNode NodeID
	RelativePath []RelativePathElement
}

type BrowsePathTarget struct {
	TargetID           NodeID
	RemainingPathIndex uint32
}

type BrowsePathResult struct {
	StatusCode StatusCode
	Targets    []BrowsePathTarget
}

type TranslateBrowsePathsToNodeIdsRequest struct {
	RequestHeader RequestHeader
	BrowsePaths   []BrowsePath
}

type TranslateBrowsePathsToNodeIdsResponse struct {
	ResponseHeader ResponseHeader
	Results        []BrowsePathResult
}

type CallRequest struct {
	RequestHeader RequestHeader
	MethodsToCall []CallMethodRequest
}

type CallResponse struct {
	ResponseHeader ResponseHeader
	Results        []CallMethodResult
}

type AddNodesItem struct {
	ParentNodeID       NodeID
	ReferenceTypeID    NodeID
	RequestedNewNodeID NodeID
	BrowseName         QualifiedName
	NodeClass          uint32
}

type AddNodesRequest struct {
	RequestHeader RequestHeader
	NodesToAdd    []AddNodesItem
}

type AddNodesResult struct {
	StatusCode  StatusCode
	AddedNodeID NodeID
}

type AddNodesResponse struct {
	ResponseHeader ResponseHeader
	Results        []AddNodesResult
}

// AddReferencesItem describes one reference to add between two nodes that
// already exist; unlike AddNodesItem it never creates a node itself.
type AddReferencesItem struct {
	SourceNodeID    NodeID
	ReferenceTypeID NodeID
	IsForward       bool
	TargetServerURI string
	TargetNodeID    NodeID
	TargetNodeClass uint32
}

type AddReferencesRequest struct {
	RequestHeader   RequestHeader
	ReferencesToAdd []AddReferencesItem
}

type AddReferencesResponse struct {
	ResponseHeader ResponseHeader
	Results        []StatusCode
}

type DeleteNodesItem struct {
	NodeID                 NodeID
	DeleteTargetReferences bool
}

type DeleteNodesRequest struct {
	RequestHeader RequestHeader
	NodesToDelete []DeleteNodesItem
}

type DeleteNodesResponse struct {
	ResponseHeader ResponseHeader
	Results        []StatusCode
}

type DeleteReferencesItem struct {
	SourceNodeID        NodeID
	ReferenceTypeID     NodeID
	IsForward           bool
	TargetNodeID        NodeID
	DeleteBidirectional bool
}

type DeleteReferencesRequest struct {
	RequestHeader      RequestHeader
	ReferencesToDelete []DeleteReferencesItem
}

type DeleteReferencesResponse struct {
	ResponseHeader ResponseHeader
	Results        []StatusCode
}

// RegisterNodesRequest lets a server return handles it can resolve faster
// than a full NodeID lookup for the lifetime of the session; this core
// treats the registered id as opaque and passes it back on UnregisterNodes.
type RegisterNodesRequest struct {
	RequestHeader   RequestHeader
	NodesToRegister []NodeID
}

type RegisterNodesResponse struct {
	ResponseHeader    ResponseHeader
	RegisteredNodeIDs []NodeID
}

type UnregisterNodesRequest struct {
	RequestHeader     RequestHeader
	NodesToUnregister []NodeID
}

type UnregisterNodesResponse struct {
	ResponseHeader ResponseHeader
}

type CreateSubscriptionRequest struct {
	RequestHeader               RequestHeader
	RequestedPublishingInterval float64
	RequestedLifetimeCount      uint32
	RequestedMaxKeepAliveCount  uint32
	MaxNotificationsPerPublish  uint32
	PublishingEnabled           bool
	Priority                    byte
}

type CreateSubscriptionResponse struct {
	ResponseHeader            ResponseHeader
	SubscriptionID            uint32
	RevisedPublishingInterval float64
	RevisedLifetimeCount      uint32
	RevisedMaxKeepAliveCount  uint32
}

type ModifySubscriptionRequest struct {
	RequestHeader               RequestHeader
	SubscriptionID              uint32
	RequestedPublishingInterval float64
	RequestedLifetimeCount      uint32
	RequestedMaxKeepAliveCount  uint32
	MaxNotificationsPerPublish  uint32
	Priority                    byte
}

type ModifySubscriptionResponse struct {
	ResponseHeader            ResponseHeader
	RevisedPublishingInterval float64
	RevisedLifetimeCount      uint32
	RevisedMaxKeepAliveCount  uint32
}

type DeleteSubscriptionsRequest struct {
	RequestHeader   RequestHeader
	SubscriptionIDs []uint32
}

type DeleteSubscriptionsResponse struct {
	ResponseHeader ResponseHeader
	Results        []StatusCode
}

type CreateMonitoredItemsRequest struct {
	RequestHeader      RequestHeader
	SubscriptionID     uint32
	TimestampsToReturn TimestampsToReturn
	ItemsToCreate      []MonitoredItemCreateRequest
}

type CreateMonitoredItemsResponse struct {
	ResponseHeader ResponseHeader
	Results        []MonitoredItemCreateResult
}

type DeleteMonitoredItemsRequest struct {
	RequestHeader    RequestHeader
	SubscriptionID   uint32
	MonitoredItemIDs []uint32
}

type DeleteMonitoredItemsResponse struct {
	ResponseHeader ResponseHeader
	Results        []StatusCode
}

type PublishRequest struct {
	RequestHeader                RequestHeader
	SubscriptionAcknowledgements []SubscriptionAcknowledgement
}

type PublishResponse struct {
	ResponseHeader           ResponseHeader
	SubscriptionID           uint32
	AvailableSequenceNumbers []uint32
	MoreNotifications        bool
	NotificationMessage      NotificationMessage
	Results                  []StatusCode
}

// SecurityTokenRequestType and secure channel request/response bodies.
// These travel inside OPN/CLO chunks rather than MSG chunks, but they are
// still ordinary service bodies from the descriptor's point of view; the
// secure channel layer picks the message type, the descriptor only
// encodes/decodes the body.
type SecurityTokenRequestType uint32

const (
	SecurityTokenRequestIssue SecurityTokenRequestType = iota
	SecurityTokenRequestRenew
)

type ChannelSecurityToken struct {
	ChannelID       uint32
	TokenID         uint32
	CreatedAt       int64
	RevisedLifetime uint32
}

type OpenSecureChannelRequest struct {
	RequestHeader         RequestHeader
	ClientProtocolVersion uint32
	RequestType           SecurityTokenRequestType
	SecurityMode          MessageSecurityMode
	ClientNonce           []byte
	RequestedLifetime     uint32
}

type OpenSecureChannelResponse struct {
	ResponseHeader        ResponseHeader
	ServerProtocolVersion uint32
	SecurityToken         ChannelSecurityToken
	ServerNonce           []byte
}

type CloseSecureChannelRequest struct {
	RequestHeader RequestHeader
}

type CloseSecureChannelResponse struct {
	ResponseHeader ResponseHeader
}

// QueryFirstRequest/QueryFirstResponse and QueryNextRequest/QueryNextResponse
// are kept distinct (see the ServiceQueryFirst/ServiceQueryNext comment in
// types.go): QueryNext must not be routed through the QueryFirst descriptors.

type QueryFirstRequest struct {
	RequestHeader RequestHeader
	// NodeTypes and the filter tree are represented opaquely; the core does
	// not interpret Query service semantics beyond dispatching the call.
	MaxDataSetsToReturn   uint32
	MaxReferencesToReturn uint32
}

type QueryFirstResponse struct {
	ResponseHeader    ResponseHeader
	ContinuationPoint []byte
}

type QueryNextRequest struct {
	RequestHeader            RequestHeader
	ReleaseContinuationPoint bool
	ContinuationPoint        []byte
}

type QueryNextResponse struct {
	ResponseHeader    ResponseHeader
	ContinuationPoint []byte
}

// -- descriptors ----------------------------------------------------------

func encodeRequestHeader(e *Encoder, h RequestHeader) { h.Encode(e) }

func decodeRequestHeader(d *Decoder) (RequestHeader, error) {
	var h RequestHeader
	var err error
	if h.AuthenticationToken, err = d.ReadNodeID(); err != nil {
		return h, err
	}
	if h.Timestamp, err = d.ReadInt64(); err != nil {
		return h, err
	}
	if h.RequestHandle, err = d.ReadUInt32(); err != nil {
		return h, err
	}
	if h.ReturnDiagnostics, err = d.ReadUInt32(); err != nil {
		return h, err
	}
	if h.AuditEntryID, err = d.ReadString(); err != nil {
		return h, err
	}
	if h.TimeoutHint, err = d.ReadUInt32(); err != nil {
		return h, err
	}
	if _, err = d.ReadNodeID(); err != nil {
		return h, err
	}
	if _, err = d.ReadByte(); err != nil {
		return h, err
	}
	return h, nil
}

func encodeResponseHeader(e *Encoder, h ResponseHeader) {
	e.WriteInt64(h.Timestamp)
	e.WriteUInt32(h.RequestHandle)
	e.WriteStatusCode(h.ServiceResult)
	e.WriteByte(0x00)
	e.WriteInt32(-1)
	e.WriteNodeID(NodeID{})
	e.WriteByte(0x00)
}

var builtinDescriptors = buildBuiltinDescriptors()

func buildBuiltinDescriptors() []TypeDescriptor {
	return []TypeDescriptor{
		NewDescriptor(reqID(ServiceOpenSecureChannel), func() any { return &OpenSecureChannelRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*OpenSecureChannelRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteUInt32(r.ClientProtocolVersion)
				e.WriteUInt32(uint32(r.RequestType))
				e.WriteUInt32(uint32(r.SecurityMode))
				e.WriteByteString(r.ClientNonce)
				e.WriteUInt32(r.RequestedLifetime)
				return nil
			},
			func(d *Decoder) (any, error) {
				return &OpenSecureChannelRequest{}, fmt.Errorf("ua: server-side OpenSecureChannel decode not implemented")
			}),
		NewDescriptor(respID(ServiceOpenSecureChannel), func() any { return &OpenSecureChannelResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: OpenSecureChannel response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &OpenSecureChannelResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				if r.ServerProtocolVersion, err = d.ReadUInt32(); err != nil {
					return nil, err
				}
				if r.SecurityToken.ChannelID, err = d.ReadUInt32(); err != nil {
					return nil, err
				}
				if r.SecurityToken.TokenID, err = d.ReadUInt32(); err != nil {
					return nil, err
				}
				if r.SecurityToken.CreatedAt, err = d.ReadDateTime(); err != nil {
					return nil, err
				}
				if r.SecurityToken.RevisedLifetime, err = d.ReadUInt32(); err != nil {
					return nil, err
				}
				if r.ServerNonce, err = d.ReadByteString(); err != nil {
					return nil, err
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceCloseSecureChannel), func() any { return &CloseSecureChannelRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*CloseSecureChannelRequest)
				encodeRequestHeader(e, r.RequestHeader)
				return nil
			},
			func(d *Decoder) (any, error) {
				return &CloseSecureChannelRequest{}, fmt.Errorf("ua: server-side CloseSecureChannel decode not implemented")
			}),
		NewDescriptor(respID(ServiceCloseSecureChannel), func() any { return &CloseSecureChannelResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: CloseSecureChannel response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &CloseSecureChannelResponse{}
				var err error
				r.ResponseHeader, err = decodeResponseHeader(d)
				return r, err
			}),

		NewDescriptor(reqID(ServiceGetEndpoints), func() any { return &GetEndpointsRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*GetEndpointsRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteString(r.EndpointURL)
				e.WriteInt32(0)
				e.WriteInt32(0)
				return nil
			},
			func(d *Decoder) (any, error) {
				r := &GetEndpointsRequest{}
				var err error
				if r.RequestHeader, err = decodeRequestHeader(d); err != nil {
					return nil, err
				}
				if r.EndpointURL, err = d.ReadString(); err != nil {
					return nil, err
				}
				return r, nil
			}),
		NewDescriptor(respID(ServiceGetEndpoints), func() any { return &GetEndpointsResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: GetEndpoints response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &GetEndpointsResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					ep, err := decodeEndpointDescription(d)
					if err != nil {
						return nil, err
					}
					r.Endpoints = append(r.Endpoints, ep)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceFindServers), func() any { return &FindServersRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*FindServersRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteString(r.EndpointURL)
				e.WriteInt32(0)
				e.WriteInt32(int32(len(r.ServerURIs)))
				for _, u := range r.ServerURIs {
					e.WriteString(u)
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &FindServersRequest{}, fmt.Errorf("ua: server-side FindServers decode not implemented")
			}),
		NewDescriptor(respID(ServiceFindServers), func() any { return &FindServersResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: FindServers response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &FindServersResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					a, err := decodeApplicationDescription(d)
					if err != nil {
						return nil, err
					}
					r.Servers = append(r.Servers, a)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceFindServersOnNetwork), func() any { return &FindServersOnNetworkRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*FindServersOnNetworkRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteUInt32(r.StartingRecordID)
				e.WriteUInt32(r.MaxRecordsToReturn)
				e.WriteInt32(int32(len(r.ServerCapabilityFilter)))
				for _, c := range r.ServerCapabilityFilter {
					e.WriteString(c)
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &FindServersOnNetworkRequest{}, fmt.Errorf("ua: server-side FindServersOnNetwork decode not implemented")
			}),
		NewDescriptor(respID(ServiceFindServersOnNetwork), func() any { return &FindServersOnNetworkResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: FindServersOnNetwork response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &FindServersOnNetworkResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				if r.LastCounterResetTime, err = d.ReadDateTime(); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					var s ServerOnNetwork
					if s.RecordID, err = d.ReadUInt32(); err != nil {
						return nil, err
					}
					if s.ServerName, err = d.ReadString(); err != nil {
						return nil, err
					}
					if s.DiscoveryURL, err = d.ReadString(); err != nil {
						return nil, err
					}
					m, err := d.ReadInt32()
					if err != nil {
						return nil, err
					}
					for j := int32(0); j < m; j++ {
						c, err := d.ReadString()
						if err != nil {
							return nil, err
						}
						s.ServerCapabilities = append(s.ServerCapabilities, c)
					}
					r.Servers = append(r.Servers, s)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceCreateSession), func() any { return &CreateSessionRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*CreateSessionRequest)
				encodeRequestHeader(e, r.RequestHeader)
				encodeApplicationDescription(e, &r.ClientDescription)
				e.WriteString(r.ServerURI)
				e.WriteString(r.EndpointURL)
				e.WriteString(r.SessionName)
				e.WriteByteString(r.ClientNonce)
				e.WriteByteString(r.ClientCertificate)
				e.WriteFloat64(r.RequestedSessionTimeout)
				e.WriteUInt32(r.MaxResponseMessageSize)
				return nil
			},
			func(d *Decoder) (any, error) {
				return &CreateSessionRequest{}, fmt.Errorf("ua: server-side CreateSession decode not implemented")
			}),
		NewDescriptor(respID(ServiceCreateSession), func() any { return &CreateSessionResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: CreateSession response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &CreateSessionResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				if r.SessionID, err = d.ReadNodeID(); err != nil {
					return nil, err
				}
				if r.AuthenticationToken, err = d.ReadNodeID(); err != nil {
					return nil, err
				}
				if r.RevisedSessionTimeout, err = d.ReadFloat64(); err != nil {
					return nil, err
				}
				if r.ServerNonce, err = d.ReadByteString(); err != nil {
					return nil, err
				}
				if r.ServerCertificate, err = d.ReadByteString(); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					ep, err := decodeEndpointDescription(d)
					if err != nil {
						return nil, err
					}
					r.ServerEndpoints = append(r.ServerEndpoints, ep)
				}
				if r.MaxRequestMessageSize, err = d.ReadUInt32(); err != nil {
					return nil, err
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceActivateSession), func() any { return &ActivateSessionRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*ActivateSessionRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteString(r.ClientSignature.Algorithm)
				e.WriteByteString(r.ClientSignature.Signature)
				e.WriteInt32(0)
				e.WriteInt32(int32(len(r.LocaleIDs)))
				for _, l := range r.LocaleIDs {
					e.WriteString(l)
				}
				encodeUserIdentityToken(e, r.UserIdentityToken)
				e.WriteString(r.UserTokenSignature.Algorithm)
				e.WriteByteString(r.UserTokenSignature.Signature)
				return nil
			},
			func(d *Decoder) (any, error) {
				return &ActivateSessionRequest{}, fmt.Errorf("ua: server-side ActivateSession decode not implemented")
			}),
		NewDescriptor(respID(ServiceActivateSession), func() any { return &ActivateSessionResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: ActivateSession response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &ActivateSessionResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				if r.ServerNonce, err = d.ReadByteString(); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					if _, err = d.ReadStatusCode(); err != nil {
						return nil, err
					}
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceCloseSession), func() any { return &CloseSessionRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*CloseSessionRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteBool(r.DeleteSubscriptions)
				return nil
			},
			func(d *Decoder) (any, error) {
				return &CloseSessionRequest{}, fmt.Errorf("ua: server-side CloseSession decode not implemented")
			}),
		NewDescriptor(respID(ServiceCloseSession), func() any { return &CloseSessionResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: CloseSession response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &CloseSessionResponse{}
				var err error
				r.ResponseHeader, err = decodeResponseHeader(d)
				return r, err
			}),

		NewDescriptor(reqID(ServiceRead), func() any { return &ReadRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*ReadRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteFloat64(r.MaxAge)
				e.WriteUInt32(uint32(r.TimestampsToReturn))
				e.WriteInt32(int32(len(r.NodesToRead)))
				for i := range r.NodesToRead {
					encodeReadValueID(e, &r.NodesToRead[i])
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				r := &ReadRequest{}
				var err error
				if r.RequestHeader, err = decodeRequestHeader(d); err != nil {
					return nil, err
				}
				if r.MaxAge, err = d.ReadFloat64(); err != nil {
					return nil, err
				}
				var t uint32
				if t, err = d.ReadUInt32(); err != nil {
					return nil, err
				}
				r.TimestampsToReturn = TimestampsToReturn(t)
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					rv, err := decodeReadValueID(d)
					if err != nil {
						return nil, err
					}
					r.NodesToRead = append(r.NodesToRead, rv)
				}
				return r, nil
			}),
		NewDescriptor(respID(ServiceRead), func() any { return &ReadResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: Read response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &ReadResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					dv, err := decodeDataValue(d)
					if err != nil {
						return nil, err
					}
					r.Results = append(r.Results, dv)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceWrite), func() any { return &WriteRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*WriteRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteInt32(int32(len(r.NodesToWrite)))
				for i := range r.NodesToWrite {
					encodeWriteValue(e, &r.NodesToWrite[i])
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &WriteRequest{}, fmt.Errorf("ua: server-side Write decode not implemented")
			}),
		NewDescriptor(respID(ServiceWrite), func() any { return &WriteResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: Write response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &WriteResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					sc, err := d.ReadStatusCode()
					if err != nil {
						return nil, err
					}
					r.Results = append(r.Results, sc)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceBrowse), func() any { return &BrowseRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*BrowseRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteUInt32(r.RequestedMaxReferencesPerNode)
				e.WriteInt32(int32(len(r.NodesToBrowse)))
				for _, b := range r.NodesToBrowse {
					e.WriteNodeID(b.NodeID)
					e.WriteUInt32(uint32(b.BrowseDirection))
					e.WriteNodeID(b.ReferenceTypeID)
					e.WriteBool(b.IncludeSubtypes)
					e.WriteUInt32(b.NodeClassMask)
					e.WriteUInt32(b.ResultMask)
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &BrowseRequest{}, fmt.Errorf("ua: server-side Browse decode not implemented")
			}),
		NewDescriptor(respID(ServiceBrowse), func() any { return &BrowseResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: Browse response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &BrowseResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					br, err := decodeBrowseResult(d)
					if err != nil {
						return nil, err
					}
					r.Results = append(r.Results, br)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceBrowseNext), func() any { return &BrowseNextRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*BrowseNextRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteBool(r.ReleaseContinuationPoints)
				e.WriteInt32(int32(len(r.ContinuationPoints)))
				for _, cp := range r.ContinuationPoints {
					e.WriteByteString(cp)
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &BrowseNextRequest{}, fmt.Errorf("ua: server-side BrowseNext decode not implemented")
			}),
		NewDescriptor(respID(ServiceBrowseNext), func() any { return &BrowseNextResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: BrowseNext response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &BrowseNextResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					br, err := decodeBrowseResult(d)
					if err != nil {
						return nil, err
					}
					r.Results = append(r.Results, br)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceTranslateBrowsePathsToNodeIds), func() any { return &TranslateBrowsePathsToNodeIdsRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*TranslateBrowsePathsToNodeIdsRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteInt32(int32(len(r.BrowsePaths)))
				for _, bp := range r.BrowsePaths {
					e.WriteNodeID(bp.StartingNode)
					e.WriteInt32(int32(len(bp.RelativePath)))
					for _, el := range bp.RelativePath {
						e.WriteNodeID(el.ReferenceTypeID)
						e.WriteBool(el.IsInverse)
						e.WriteBool(el.IncludeSubtypes)
						e.WriteUInt16(el.TargetName.NamespaceIndex)
						e.WriteString(el.TargetName.Name)
					}
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &TranslateBrowsePathsToNodeIdsRequest{}, fmt.Errorf("ua: server-side TranslateBrowsePathsToNodeIds decode not implemented")
			}),
		NewDescriptor(respID(ServiceTranslateBrowsePathsToNodeIds), func() any { return &TranslateBrowsePathsToNodeIdsResponse{} },
			func(v any, e *Encoder) error {
				return fmt.Errorf("ua: TranslateBrowsePathsToNodeIds response encode not implemented")
			},
			func(d *Decoder) (any, error) {
				r := &TranslateBrowsePathsToNodeIdsResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					var res BrowsePathResult
					if res.StatusCode, err = d.ReadStatusCode(); err != nil {
						return nil, err
					}
					tn, err := d.ReadInt32()
					if err != nil {
						return nil, err
					}
					for j := int32(0); j < tn; j++ {
						var t BrowsePathTarget
						if t.TargetID, err = d.ReadNodeID(); err != nil {
							return nil, err
						}
						if t.RemainingPathIndex, err = d.ReadUInt32(); err != nil {
							return nil, err
						}
						res.Targets = append(res.Targets, t)
					}
					r.Results = append(r.Results, res)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceCall), func() any { return &CallRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*CallRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteInt32(int32(len(r.MethodsToCall)))
				for i := range r.MethodsToCall {
					encodeCallMethodRequest(e, &r.MethodsToCall[i])
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &CallRequest{}, fmt.Errorf("ua: server-side Call decode not implemented")
			}),
		NewDescriptor(respID(ServiceCall), func() any { return &CallResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: Call response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &CallResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					cr, err := decodeCallMethodResult(d)
					if err != nil {
						return nil, err
					}
					r.Results = append(r.Results, cr)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceAddNodes), func() any { return &AddNodesRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*AddNodesRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteInt32(int32(len(r.NodesToAdd)))
				for _, n := range r.NodesToAdd {
					e.WriteNodeID(n.ParentNodeID)
					e.WriteNodeID(n.ReferenceTypeID)
					e.WriteNodeID(n.RequestedNewNodeID)
					e.WriteUInt16(n.BrowseName.NamespaceIndex)
					e.WriteString(n.BrowseName.Name)
					e.WriteUInt32(n.NodeClass)
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &AddNodesRequest{}, fmt.Errorf("ua: server-side AddNodes decode not implemented")
			}),
		NewDescriptor(respID(ServiceAddNodes), func() any { return &AddNodesResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: AddNodes response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &AddNodesResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					var res AddNodesResult
					if res.StatusCode, err = d.ReadStatusCode(); err != nil {
						return nil, err
					}
					if res.AddedNodeID, err = d.ReadNodeID(); err != nil {
						return nil, err
					}
					r.Results = append(r.Results, res)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceAddReferences), func() any { return &AddReferencesRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*AddReferencesRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteInt32(int32(len(r.ReferencesToAdd)))
				for _, ref := range r.ReferencesToAdd {
					e.WriteNodeID(ref.SourceNodeID)
					e.WriteNodeID(ref.ReferenceTypeID)
					e.WriteBool(ref.IsForward)
					e.WriteString(ref.TargetServerURI)
					e.WriteNodeID(ref.TargetNodeID)
					e.WriteUInt32(ref.TargetNodeClass)
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &AddReferencesRequest{}, fmt.Errorf("ua: server-side AddReferences decode not implemented")
			}),
		NewDescriptor(respID(ServiceAddReferences), func() any { return &AddReferencesResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: AddReferences response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &AddReferencesResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					sc, err := d.ReadStatusCode()
					if err != nil {
						return nil, err
					}
					r.Results = append(r.Results, sc)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceDeleteNodes), func() any { return &DeleteNodesRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*DeleteNodesRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteInt32(int32(len(r.NodesToDelete)))
				for _, n := range r.NodesToDelete {
					e.WriteNodeID(n.NodeID)
					e.WriteBool(n.DeleteTargetReferences)
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &DeleteNodesRequest{}, fmt.Errorf("ua: server-side DeleteNodes decode not implemented")
			}),
		NewDescriptor(respID(ServiceDeleteNodes), func() any { return &DeleteNodesResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: DeleteNodes response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &DeleteNodesResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					sc, err := d.ReadStatusCode()
					if err != nil {
						return nil, err
					}
					r.Results = append(r.Results, sc)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceDeleteReferences), func() any { return &DeleteReferencesRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*DeleteReferencesRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteInt32(int32(len(r.ReferencesToDelete)))
				for _, ref := range r.ReferencesToDelete {
					e.WriteNodeID(ref.SourceNodeID)
					e.WriteNodeID(ref.ReferenceTypeID)
					e.WriteBool(ref.IsForward)
					e.WriteNodeID(ref.TargetNodeID)
					e.WriteBool(ref.DeleteBidirectional)
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &DeleteReferencesRequest{}, fmt.Errorf("ua: server-side DeleteReferences decode not implemented")
			}),
		NewDescriptor(respID(ServiceDeleteReferences), func() any { return &DeleteReferencesResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: DeleteReferences response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &DeleteReferencesResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					sc, err := d.ReadStatusCode()
					if err != nil {
						return nil, err
					}
					r.Results = append(r.Results, sc)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceRegisterNodes), func() any { return &RegisterNodesRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*RegisterNodesRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteInt32(int32(len(r.NodesToRegister)))
				for _, id := range r.NodesToRegister {
					e.WriteNodeID(id)
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &RegisterNodesRequest{}, fmt.Errorf("ua: server-side RegisterNodes decode not implemented")
			}),
		NewDescriptor(respID(ServiceRegisterNodes), func() any { return &RegisterNodesResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: RegisterNodes response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &RegisterNodesResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					id, err := d.ReadNodeID()
					if err != nil {
						return nil, err
					}
					r.RegisteredNodeIDs = append(r.RegisteredNodeIDs, id)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceUnregisterNodes), func() any { return &UnregisterNodesRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*UnregisterNodesRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteInt32(int32(len(r.NodesToUnregister)))
				for _, id := range r.NodesToUnregister {
					e.WriteNodeID(id)
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &UnregisterNodesRequest{}, fmt.Errorf("ua: server-side UnregisterNodes decode not implemented")
			}),
		NewDescriptor(respID(ServiceUnregisterNodes), func() any { return &UnregisterNodesResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: UnregisterNodes response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &UnregisterNodesResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceCreateSubscription), func() any { return &CreateSubscriptionRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*CreateSubscriptionRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteFloat64(r.RequestedPublishingInterval)
				e.WriteUInt32(r.RequestedLifetimeCount)
				e.WriteUInt32(r.RequestedMaxKeepAliveCount)
				e.WriteUInt32(r.MaxNotificationsPerPublish)
				e.WriteBool(r.PublishingEnabled)
				e.WriteByte(r.Priority)
				return nil
			},
			func(d *Decoder) (any, error) {
				return &CreateSubscriptionRequest{}, fmt.Errorf("ua: server-side CreateSubscription decode not implemented")
			}),
		NewDescriptor(respID(ServiceCreateSubscription), func() any { return &CreateSubscriptionResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: CreateSubscription response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &CreateSubscriptionResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				if r.SubscriptionID, err = d.ReadUInt32(); err != nil {
					return nil, err
				}
				if r.RevisedPublishingInterval, err = d.ReadFloat64(); err != nil {
					return nil, err
				}
				if r.RevisedLifetimeCount, err = d.ReadUInt32(); err != nil {
					return nil, err
				}
				if r.RevisedMaxKeepAliveCount, err = d.ReadUInt32(); err != nil {
					return nil, err
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceModifySubscription), func() any { return &ModifySubscriptionRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*ModifySubscriptionRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteUInt32(r.SubscriptionID)
				e.WriteFloat64(r.RequestedPublishingInterval)
				e.WriteUInt32(r.RequestedLifetimeCount)
				e.WriteUInt32(r.RequestedMaxKeepAliveCount)
				e.WriteUInt32(r.MaxNotificationsPerPublish)
				e.WriteByte(r.Priority)
				return nil
			},
			func(d *Decoder) (any, error) {
				return &ModifySubscriptionRequest{}, fmt.Errorf("ua: server-side ModifySubscription decode not implemented")
			}),
		NewDescriptor(respID(ServiceModifySubscription), func() any { return &ModifySubscriptionResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: ModifySubscription response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &ModifySubscriptionResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				if r.RevisedPublishingInterval, err = d.ReadFloat64(); err != nil {
					return nil, err
				}
				if r.RevisedLifetimeCount, err = d.ReadUInt32(); err != nil {
					return nil, err
				}
				if r.RevisedMaxKeepAliveCount, err = d.ReadUInt32(); err != nil {
					return nil, err
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceDeleteSubscriptions), func() any { return &DeleteSubscriptionsRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*DeleteSubscriptionsRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteInt32(int32(len(r.SubscriptionIDs)))
				for _, id := range r.SubscriptionIDs {
					e.WriteUInt32(id)
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &DeleteSubscriptionsRequest{}, fmt.Errorf("ua: server-side DeleteSubscriptions decode not implemented")
			}),
		NewDescriptor(respID(ServiceDeleteSubscriptions), func() any { return &DeleteSubscriptionsResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: DeleteSubscriptions response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &DeleteSubscriptionsResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					sc, err := d.ReadStatusCode()
					if err != nil {
						return nil, err
					}
					r.Results = append(r.Results, sc)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceCreateMonitoredItems), func() any { return &CreateMonitoredItemsRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*CreateMonitoredItemsRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteUInt32(r.SubscriptionID)
				e.WriteUInt32(uint32(r.TimestampsToReturn))
				e.WriteInt32(int32(len(r.ItemsToCreate)))
				for _, item := range r.ItemsToCreate {
					encodeReadValueID(e, &item.ItemToMonitor)
					e.WriteUInt32(uint32(item.MonitoringMode))
					e.WriteUInt32(item.RequestedParameters.ClientHandle)
					e.WriteFloat64(item.RequestedParameters.SamplingInterval)
					e.WriteUInt32(item.RequestedParameters.QueueSize)
					e.WriteBool(item.RequestedParameters.DiscardOldest)
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &CreateMonitoredItemsRequest{}, fmt.Errorf("ua: server-side CreateMonitoredItems decode not implemented")
			}),
		NewDescriptor(respID(ServiceCreateMonitoredItems), func() any { return &CreateMonitoredItemsResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: CreateMonitoredItems response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &CreateMonitoredItemsResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					mr, err := decodeMonitoredItemCreateResult(d)
					if err != nil {
						return nil, err
					}
					r.Results = append(r.Results, mr)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceDeleteMonitoredItems), func() any { return &DeleteMonitoredItemsRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*DeleteMonitoredItemsRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteUInt32(r.SubscriptionID)
				e.WriteInt32(int32(len(r.MonitoredItemIDs)))
				for _, id := range r.MonitoredItemIDs {
					e.WriteUInt32(id)
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &DeleteMonitoredItemsRequest{}, fmt.Errorf("ua: server-side DeleteMonitoredItems decode not implemented")
			}),
		NewDescriptor(respID(ServiceDeleteMonitoredItems), func() any { return &DeleteMonitoredItemsResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: DeleteMonitoredItems response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &DeleteMonitoredItemsResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					sc, err := d.ReadStatusCode()
					if err != nil {
						return nil, err
					}
					r.Results = append(r.Results, sc)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServicePublish), func() any { return &PublishRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*PublishRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteInt32(int32(len(r.SubscriptionAcknowledgements)))
				for _, ack := range r.SubscriptionAcknowledgements {
					e.WriteUInt32(ack.SubscriptionID)
					e.WriteUInt32(ack.SequenceNumber)
				}
				return nil
			},
			func(d *Decoder) (any, error) {
				return &PublishRequest{}, fmt.Errorf("ua: server-side Publish decode not implemented")
			}),
		NewDescriptor(respID(ServicePublish), func() any { return &PublishResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: Publish response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &PublishResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				if r.SubscriptionID, err = d.ReadUInt32(); err != nil {
					return nil, err
				}
				n, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < n; i++ {
					sn, err := d.ReadUInt32()
					if err != nil {
						return nil, err
					}
					r.AvailableSequenceNumbers = append(r.AvailableSequenceNumbers, sn)
				}
				if r.MoreNotifications, err = d.ReadBool(); err != nil {
					return nil, err
				}
				if r.NotificationMessage.SequenceNumber, err = d.ReadUInt32(); err != nil {
					return nil, err
				}
				if r.NotificationMessage.PublishTime, err = d.ReadDateTime(); err != nil {
					return nil, err
				}
				m, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < m; i++ {
					dc, err := decodeDataChangeNotificationData(d)
					if err != nil {
						return nil, err
					}
					r.NotificationMessage.NotificationData = append(r.NotificationMessage.NotificationData, dc)
				}
				k, err := d.ReadInt32()
				if err != nil {
					return nil, err
				}
				for i := int32(0); i < k; i++ {
					sc, err := d.ReadStatusCode()
					if err != nil {
						return nil, err
					}
					r.Results = append(r.Results, sc)
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceQueryFirst), func() any { return &QueryFirstRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*QueryFirstRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteUInt32(r.MaxDataSetsToReturn)
				e.WriteUInt32(r.MaxReferencesToReturn)
				return nil
			},
			func(d *Decoder) (any, error) {
				return &QueryFirstRequest{}, fmt.Errorf("ua: server-side QueryFirst decode not implemented")
			}),
		NewDescriptor(respID(ServiceQueryFirst), func() any { return &QueryFirstResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: QueryFirst response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &QueryFirstResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				if r.ContinuationPoint, err = d.ReadByteString(); err != nil {
					return nil, err
				}
				return r, nil
			}),

		NewDescriptor(reqID(ServiceQueryNext), func() any { return &QueryNextRequest{} },
			func(v any, e *Encoder) error {
				r := v.(*QueryNextRequest)
				encodeRequestHeader(e, r.RequestHeader)
				e.WriteBool(r.ReleaseContinuationPoint)
				e.WriteByteString(r.ContinuationPoint)
				return nil
			},
			func(d *Decoder) (any, error) {
				return &QueryNextRequest{}, fmt.Errorf("ua: server-side QueryNext decode not implemented")
			}),
		NewDescriptor(respID(ServiceQueryNext), func() any { return &QueryNextResponse{} },
			func(v any, e *Encoder) error { return fmt.Errorf("ua: QueryNext response encode not implemented") },
			func(d *Decoder) (any, error) {
				r := &QueryNextResponse{}
				var err error
				if r.ResponseHeader, err = decodeResponseHeader(d); err != nil {
					return nil, err
				}
				if r.ContinuationPoint, err = d.ReadByteString(); err != nil {
					return nil, err
				}
				return r, nil
			}),
	}
}

// DescriptorFor returns the built-in request and response descriptors for
// a service, panicking if s names a service with no built-in pair. Typed
// client shims use this to avoid repeating the id arithmetic.
func DescriptorFor(reg *Registry, s ServiceID) (req, resp TypeDescriptor) {
	return reg.MustLookup(reqID(s)), reg.MustLookup(respID(s))
}
