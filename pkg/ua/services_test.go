package ua

import "testing"

func TestDescriptorForReturnsMatchedPair(t *testing.T) {
	reg := NewRegistry()
	req, resp := DescriptorFor(reg, ServiceRead)
	if req.BinaryTypeID() != uint32(ServiceRead) {
		t.Fatalf("request descriptor id = %d, want %d", req.BinaryTypeID(), ServiceRead)
	}
	if resp.BinaryTypeID() != uint32(ServiceRead)+1 {
		t.Fatalf("response descriptor id = %d, want %d", resp.BinaryTypeID(), uint32(ServiceRead)+1)
	}
}

func TestReadRequestEncodeDecodeRoundTrip(t *testing.T) {
	reg := NewRegistry()
	reqDesc, _ := DescriptorFor(reg, ServiceRead)

	want := &ReadRequest{
		RequestHeader:      RequestHeader{RequestHandle: 7, TimeoutHint: 5000},
		MaxAge:             100,
		TimestampsToReturn: TimestampsToReturnBoth,
		NodesToRead: []ReadValueID{
			{NodeID: NewNumericNodeID(2, 1001), AttributeID: AttributeValue},
			{NodeID: NewStringNodeID(2, "Temperature"), AttributeID: AttributeDisplayName},
		},
	}

	e := NewEncoder()
	if err := reqDesc.Encode(want, e); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := reqDesc.Decode(NewDecoder(e.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	gotReq := got.(*ReadRequest)

	if gotReq.RequestHeader.RequestHandle != want.RequestHeader.RequestHandle {
		t.Fatalf("RequestHandle = %d, want %d", gotReq.RequestHeader.RequestHandle, want.RequestHeader.RequestHandle)
	}
	if gotReq.MaxAge != want.MaxAge || gotReq.TimestampsToReturn != want.TimestampsToReturn {
		t.Fatalf("MaxAge/TimestampsToReturn mismatch: got %+v", gotReq)
	}
	if len(gotReq.NodesToRead) != len(want.NodesToRead) {
		t.Fatalf("NodesToRead length = %d, want %d", len(gotReq.NodesToRead), len(want.NodesToRead))
	}
	if gotReq.NodesToRead[0].NodeID.Numeric != 1001 || gotReq.NodesToRead[0].AttributeID != AttributeValue {
		t.Fatalf("NodesToRead[0] mismatch: %+v", gotReq.NodesToRead[0])
	}
	if gotReq.NodesToRead[1].NodeID.String != "Temperature" || gotReq.NodesToRead[1].AttributeID != AttributeDisplayName {
		t.Fatalf("NodesToRead[1] mismatch: %+v", gotReq.NodesToRead[1])
	}
}

func TestGetEndpointsRequestEncodeDecodeRoundTrip(t *testing.T) {
	reg := NewRegistry()
	reqDesc, _ := DescriptorFor(reg, ServiceGetEndpoints)

	want := &GetEndpointsRequest{
		RequestHeader: RequestHeader{RequestHandle: 3},
		EndpointURL:   "opc.tcp://plant:4840",
	}

	e := NewEncoder()
	if err := reqDesc.Encode(want, e); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := reqDesc.Decode(NewDecoder(e.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	gotReq := got.(*GetEndpointsRequest)
	if gotReq.EndpointURL != want.EndpointURL {
		t.Fatalf("EndpointURL = %q, want %q", gotReq.EndpointURL, want.EndpointURL)
	}
}

// TestReadResponseDecodesServerEncodedBody hand-builds a response body the
// way a server on the wire would, since response encode is a server-side
// concern this client-only core does not implement.
func TestReadResponseDecodesServerEncodedBody(t *testing.T) {
	reg := NewRegistry()
	_, respDesc := DescriptorFor(reg, ServiceRead)

	value := NewInt32Variant(42)
	e := NewEncoder()
	encodeResponseHeader(e, ResponseHeader{RequestHandle: 7, ServiceResult: StatusGood})
	e.WriteInt32(2)
	encodeDataValue(e, &DataValue{HasValue: true, HasStatusCode: true, Value: &value, StatusCode: StatusGood})
	encodeDataValue(e, &DataValue{HasStatusCode: true, StatusCode: StatusBadInvalidArgument})

	got, err := respDesc.Decode(NewDecoder(e.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	resp := got.(*ReadResponse)
	if len(resp.Results) != 2 {
		t.Fatalf("Results length = %d, want 2", len(resp.Results))
	}
	if !resp.Results[0].HasValue || resp.Results[0].Value.Int64 != 42 {
		t.Fatalf("Results[0] mismatch: %+v", resp.Results[0])
	}
	if resp.Results[1].StatusCode != StatusBadInvalidArgument {
		t.Fatalf("Results[1].StatusCode = %v, want StatusBadInvalidArgument", resp.Results[1].StatusCode)
	}
}

func TestGetEndpointsResponseDecodesServerEncodedBody(t *testing.T) {
	reg := NewRegistry()
	_, respDesc := DescriptorFor(reg, ServiceGetEndpoints)

	e := NewEncoder()
	encodeResponseHeader(e, ResponseHeader{ServiceResult: StatusGood})
	e.WriteInt32(1)
	ep := EndpointDescription{
		EndpointURL:         "opc.tcp://plant:4840",
		SecurityMode:        MessageSecurityModeNone,
		SecurityPolicyURI:   "http://opcfoundation.org/UA/SecurityPolicy#None",
		TransportProfileURI: "http://opcfoundation.org/UA-Profile/Transport/uatcp-uasc-uabinary",
	}
	writeEndpointDescriptionForTest(e, ep)

	got, err := respDesc.Decode(NewDecoder(e.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	resp := got.(*GetEndpointsResponse)
	if len(resp.Endpoints) != 1 {
		t.Fatalf("Endpoints length = %d, want 1", len(resp.Endpoints))
	}
	if resp.Endpoints[0].EndpointURL != ep.EndpointURL || resp.Endpoints[0].SecurityPolicyURI != ep.SecurityPolicyURI {
		t.Fatalf("Endpoints[0] mismatch: %+v", resp.Endpoints[0])
	}
}

func TestTranslateBrowsePathsToNodeIdsRequestEncodeDecodeRoundTrip(t *testing.T) {
	reg := NewRegistry()
	reqDesc, _ := DescriptorFor(reg, ServiceTranslateBrowsePathsToNodeIds)

	want := &TranslateBrowsePathsToNodeIdsRequest{
		RequestHeader: RequestHeader{RequestHandle: 9},
		BrowsePaths: []BrowsePath{
			{
				StartingNode: NewNumericNodeID(0, 85),
				RelativePath: []RelativePathElement{
					{ReferenceTypeID: NewNumericNodeID(0, 47), TargetName: QualifiedName{NamespaceIndex: 2, Name: "Boiler"}},
					{ReferenceTypeID: NewNumericNodeID(0, 47), TargetName: QualifiedName{NamespaceIndex: 2, Name: "Temperature"}},
				},
			},
		},
	}

	e := NewEncoder()
	if err := reqDesc.Encode(want, e); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := reqDesc.Decode(NewDecoder(e.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	gotReq := got.(*TranslateBrowsePathsToNodeIdsRequest)
	if len(gotReq.BrowsePaths) != 1 || len(gotReq.BrowsePaths[0].RelativePath) != 2 {
		t.Fatalf("BrowsePaths mismatch: %+v", gotReq.BrowsePaths)
	}
	if gotReq.BrowsePaths[0].RelativePath[1].TargetName.Name != "Temperature" {
		t.Fatalf("RelativePath[1].TargetName = %+v", gotReq.BrowsePaths[0].RelativePath[1].TargetName)
	}
}

func TestTranslateBrowsePathsToNodeIdsResponseDecodesServerEncodedBody(t *testing.T) {
	reg := NewRegistry()
	_, respDesc := DescriptorFor(reg, ServiceTranslateBrowsePathsToNodeIds)

	e := NewEncoder()
	encodeResponseHeader(e, ResponseHeader{ServiceResult: StatusGood})
	e.WriteInt32(1)
	e.WriteStatusCode(StatusGood)
	e.WriteInt32(1)
	e.WriteNodeID(NewNumericNodeID(2, 5001))
	e.WriteUInt32(0)

	got, err := respDesc.Decode(NewDecoder(e.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	resp := got.(*TranslateBrowsePathsToNodeIdsResponse)
	if len(resp.Results) != 1 || len(resp.Results[0].Targets) != 1 {
		t.Fatalf("Results mismatch: %+v", resp.Results)
	}
	if resp.Results[0].Targets[0].TargetID.Numeric != 5001 {
		t.Fatalf("TargetID = %+v, want numeric 5001", resp.Results[0].Targets[0].TargetID)
	}
}

func TestRegisterNodesRequestEncodeDecodeRoundTrip(t *testing.T) {
	reg := NewRegistry()
	reqDesc, _ := DescriptorFor(reg, ServiceRegisterNodes)

	want := &RegisterNodesRequest{
		RequestHeader:   RequestHeader{RequestHandle: 4},
		NodesToRegister: []NodeID{NewNumericNodeID(2, 1001), NewNumericNodeID(2, 1002)},
	}
	e := NewEncoder()
	if err := reqDesc.Encode(want, e); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := reqDesc.Decode(NewDecoder(e.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	gotReq := got.(*RegisterNodesRequest)
	if len(gotReq.NodesToRegister) != 2 || gotReq.NodesToRegister[1].Numeric != 1002 {
		t.Fatalf("NodesToRegister mismatch: %+v", gotReq.NodesToRegister)
	}
}

func TestRegisterNodesResponseDecodesServerEncodedBody(t *testing.T) {
	reg := NewRegistry()
	_, respDesc := DescriptorFor(reg, ServiceRegisterNodes)

	e := NewEncoder()
	encodeResponseHeader(e, ResponseHeader{ServiceResult: StatusGood})
	e.WriteInt32(1)
	e.WriteNodeID(NewNumericNodeID(3, 42))

	got, err := respDesc.Decode(NewDecoder(e.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	resp := got.(*RegisterNodesResponse)
	if len(resp.RegisteredNodeIDs) != 1 || resp.RegisteredNodeIDs[0].Numeric != 42 {
		t.Fatalf("RegisteredNodeIDs mismatch: %+v", resp.RegisteredNodeIDs)
	}
}

// writeEndpointDescriptionForTest mirrors the field order decodeEndpointDescription expects.
func writeEndpointDescriptionForTest(e *Encoder, ep EndpointDescription) {
	e.WriteString(ep.EndpointURL)
	encodeApplicationDescription(e, &ep.Server)
	e.WriteByteString(ep.ServerCertificate)
	e.WriteUInt32(uint32(ep.SecurityMode))
	e.WriteString(ep.SecurityPolicyURI)
	e.WriteInt32(int32(len(ep.UserIdentityTokens)))
	for _, tok := range ep.UserIdentityTokens {
		e.WriteString(tok.PolicyID)
		e.WriteUInt32(uint32(tok.TokenType))
		e.WriteString(tok.IssuedTokenType)
		e.WriteString(tok.IssuerEndpointURL)
		e.WriteString(tok.SecurityPolicyURI)
	}
	e.WriteString(ep.TransportProfileURI)
	e.WriteByte(ep.SecurityLevel)
}
