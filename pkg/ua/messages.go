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

import (
	"encoding/binary"
	"fmt"
)

// Message type tags carried in bytes 0-2 of every chunk header.
const (
	MessageTypeHello        = "HEL"
	MessageTypeAcknowledge  = "ACK"
	MessageTypeError        = "ERR"
	MessageTypeOpenChannel  = "OPN"
	MessageTypeCloseChannel = "CLO"
	MessageTypeMessage      = "MSG"
)

// Chunk type tags carried in byte 3 of every chunk header.
const (
	ChunkTypeFinal        byte = 'F'
	ChunkTypeIntermediate byte = 'C'
	ChunkTypeAbort        byte = 'A'
)

// MessageHeader is the fixed 8-byte prefix of every TCP chunk.
type MessageHeader struct {
	MessageType [3]byte
	ChunkType   byte
	MessageSize uint32
}

func (h *MessageHeader) Encode() []byte {
	buf := make([]byte, 8)
	copy(buf[0:3], h.MessageType[:])
	buf[3] = h.ChunkType
	binary.LittleEndian.PutUint32(buf[4:8], h.MessageSize)
	return buf
}

func (h *MessageHeader) Decode(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("%w: header too short", ErrInvalidMessage)
	}
	copy(h.MessageType[:], data[0:3])
	h.ChunkType = data[3]
	h.MessageSize = binary.LittleEndian.Uint32(data[4:8])
	return nil
}

// HelloMessage is the client's opening handshake frame.
type HelloMessage struct {
	ProtocolVersion   uint32
	ReceiveBufferSize uint32
	SendBufferSize    uint32
	MaxMessageSize    uint32
	MaxChunkCount     uint32
	EndpointURL       string
}

func (m *HelloMessage) Encode() []byte {
	e := NewEncoder()
	e.WriteUInt32(m.ProtocolVersion)
	e.WriteUInt32(m.ReceiveBufferSize)
	e.WriteUInt32(m.SendBufferSize)
	e.WriteUInt32(m.MaxMessageSize)
	e.WriteUInt32(m.MaxChunkCount)
	e.WriteString(m.EndpointURL)
	return e.Bytes()
}

func (m *HelloMessage) Decode(data []byte) error {
	d := NewDecoder(data)
	var err error
	if m.ProtocolVersion, err = d.ReadUInt32(); err != nil {
		return err
	}
	if m.ReceiveBufferSize, err = d.ReadUInt32(); err != nil {
		return err
	}
	if m.SendBufferSize, err = d.ReadUInt32(); err != nil {
		return err
	}
	if m.MaxMessageSize, err = d.ReadUInt32(); err != nil {
		return err
	}
	if m.MaxChunkCount, err = d.ReadUInt32(); err != nil {
		return err
	}
	if m.EndpointURL, err = d.ReadString(); err != nil {
		return err
	}
	return nil
}

// AcknowledgeMessage is the server's reply to Hello.
type AcknowledgeMessage struct {
	ProtocolVersion   uint32
	ReceiveBufferSize uint32
	SendBufferSize    uint32
	MaxMessageSize    uint32
	MaxChunkCount     uint32
}

func (m *AcknowledgeMessage) Decode(data []byte) error {
	d := NewDecoder(data)
	var err error
	if m.ProtocolVersion, err = d.ReadUInt32(); err != nil {
		return err
	}
	if m.ReceiveBufferSize, err = d.ReadUInt32(); err != nil {
		return err
	}
	if m.SendBufferSize, err = d.ReadUInt32(); err != nil {
		return err
	}
	if m.MaxMessageSize, err = d.ReadUInt32(); err != nil {
		return err
	}
	if m.MaxChunkCount, err = d.ReadUInt32(); err != nil {
		return err
	}
	return nil
}

// ErrorMessage is sent by either side to abort the TCP connection with a reason.
type ErrorMessage struct {
	Error  uint32
	Reason string
}

func (m *ErrorMessage) Decode(data []byte) error {
	d := NewDecoder(data)
	var err error
	if m.Error, err = d.ReadUInt32(); err != nil {
		return err
	}
	if m.Reason, err = d.ReadString(); err != nil {
		return err
	}
	return nil
}

// SequenceHeader precedes every OPN/MSG/CLO body and is used to detect gaps
// and to correlate chunks of the same request via RequestID.
type SequenceHeader struct {
	SequenceNumber uint32
	RequestID      uint32
}

func (h *SequenceHeader) Encode(e *Encoder) {
	e.WriteUInt32(h.SequenceNumber)
	e.WriteUInt32(h.RequestID)
}

func (h *SequenceHeader) Decode(d *Decoder) error {
	var err error
	if h.SequenceNumber, err = d.ReadUInt32(); err != nil {
		return err
	}
	if h.RequestID, err = d.ReadUInt32(); err != nil {
		return err
	}
	return nil
}

// RequestHeader precedes every service request body.
type RequestHeader struct {
	AuthenticationToken NodeID
	Timestamp           int64
	RequestHandle       uint32
	ReturnDiagnostics   uint32
	AuditEntryID        string
	TimeoutHint         uint32
}

func (h *RequestHeader) Encode(e *Encoder) {
	e.WriteNodeID(h.AuthenticationToken)
	e.WriteInt64(h.Timestamp)
	e.WriteUInt32(h.RequestHandle)
	e.WriteUInt32(h.ReturnDiagnostics)
	e.WriteString(h.AuditEntryID)
	e.WriteUInt32(h.TimeoutHint)
	// AdditionalHeader: null ExtensionObject (TypeId + no-body encoding byte).
	e.WriteNodeID(NodeID{})
	e.WriteByte(0x00)
}

// ResponseHeader precedes every service response body and is where the
// core reads back the service-level status.
type ResponseHeader struct {
	Timestamp     int64
	RequestHandle uint32
	ServiceResult StatusCode
}

func decodeResponseHeader(d *Decoder) (ResponseHeader, error) {
	var h ResponseHeader
	var err error
	if h.Timestamp, err = d.ReadInt64(); err != nil {
		return h, err
	}
	if h.RequestHandle, err = d.ReadUInt32(); err != nil {
		return h, err
	}
	if h.ServiceResult, err = d.ReadStatusCode(); err != nil {
		return h, err
	}
	// ServiceDiagnostics (DiagnosticInfo encoding byte), StringTable (array
	// of String, length-prefixed), AdditionalHeader (ExtensionObject).
	if _, err = d.ReadByte(); err != nil {
		return h, err
	}
	n, err := d.ReadInt32()
	if err != nil {
		return h, err
	}
	for i := int32(0); i < n; i++ {
		if _, err = d.ReadString(); err != nil {
			return h, err
		}
	}
	if _, err = d.ReadNodeID(); err != nil {
		return h, err
	}
	if _, err = d.ReadByte(); err != nil {
		return h, err
	}
	return h, nil
}

// ZeroResponseHeader manufactures a response header carrying a status the
// core determined internally (timeout, shutdown, channel loss) rather than
// one that arrived from the wire.
func ZeroResponseHeader(handle uint32, result StatusCode) ResponseHeader {
	return ResponseHeader{RequestHandle: handle, ServiceResult: result}
}
