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

// Package ua implements the OPC UA Binary encoding primitives and the
// built-in type descriptors that the client core dispatches requests and
// responses through. None of this package knows about sockets, sessions
// or secure channels: it is the "external collaborator" described by the
// core as a type-descriptor abstraction, provided here as a concrete,
// usable default rather than left as an interface with no implementation.
package ua

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMessage indicates a malformed wire message or truncated buffer.
var ErrInvalidMessage = errors.New("ua: invalid message")

// windowsEpochOffset100ns is the number of 100ns intervals between the
// Windows FILETIME epoch (1601-01-01) and the Unix epoch (1970-01-01).
const windowsEpochOffset100ns = 116444736000000000

// Encoder accumulates an OPC UA Binary encoded byte stream.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder returns a fresh Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the accumulated encoded bytes.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len reports how many bytes have been written so far.
func (e *Encoder) Len() int {
	return e.buf.Len()
}

// WriteRaw appends already-encoded bytes verbatim.
func (e *Encoder) WriteRaw(b []byte) {
	e.buf.Write(b)
}

func (e *Encoder) WriteByte(b byte) {
	e.buf.WriteByte(b)
}

func (e *Encoder) WriteBool(v bool) {
	if v {
		e.buf.WriteByte(1)
	} else {
		e.buf.WriteByte(0)
	}
}

func (e *Encoder) WriteUInt16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
}

func (e *Encoder) WriteInt16(v int16) { e.WriteUInt16(uint16(v)) }

func (e *Encoder) WriteUInt32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *Encoder) WriteInt32(v int32) { e.WriteUInt32(uint32(v)) }

func (e *Encoder) WriteUInt64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

func (e *Encoder) WriteInt64(v int64) { e.WriteUInt64(uint64(v)) }

func (e *Encoder) WriteFloat32(v float32) { e.WriteUInt32(math.Float32bits(v)) }

func (e *Encoder) WriteFloat64(v float64) { e.WriteUInt64(math.Float64bits(v)) }

// WriteString writes a length-prefixed UTF-8 string. Every string,
// including the empty string, is encoded with its length (0 for ""); the
// null string (length -1) cannot be written through WriteString.
func (e *Encoder) WriteString(s string) {
	e.WriteByteString([]byte(s))
}

// WriteByteString writes a length-prefixed opaque byte string. A nil slice
// is encoded with length -1 (the OPC UA "null" convention); a non-nil,
// zero-length slice is encoded with length 0.
func (e *Encoder) WriteByteString(b []byte) {
	if b == nil {
		e.WriteInt32(-1)
		return
	}
	e.WriteInt32(int32(len(b)))
	e.buf.Write(b)
}

// WriteDateTime writes a time value expressed as 100ns ticks since the
// Windows epoch, matching how the wire format encodes UA_DateTime.
func (e *Encoder) WriteDateTime(ticks int64) {
	e.WriteInt64(ticks)
}

func (e *Encoder) WriteStatusCode(sc StatusCode) {
	e.WriteUInt32(uint32(sc))
}

func (e *Encoder) WriteNodeID(id NodeID) {
	switch id.Type {
	case NodeIDTypeNumeric:
		switch {
		case id.Namespace == 0 && id.Numeric <= 0xFF:
			e.WriteByte(0x00)
			e.WriteByte(byte(id.Numeric))
		case id.Namespace <= 0xFF && id.Numeric <= 0xFFFF:
			e.WriteByte(0x01)
			e.WriteByte(byte(id.Namespace))
			e.WriteUInt16(uint16(id.Numeric))
		default:
			e.WriteByte(0x02)
			e.WriteUInt16(id.Namespace)
			e.WriteUInt32(id.Numeric)
		}
	case NodeIDTypeString:
		e.WriteByte(0x03)
		e.WriteUInt16(id.Namespace)
		e.WriteString(id.String)
	case NodeIDTypeGUID:
		e.WriteByte(0x04)
		e.WriteUInt16(id.Namespace)
		e.buf.Write(id.GUID[:])
	case NodeIDTypeOpaque:
		e.WriteByte(0x05)
		e.WriteUInt16(id.Namespace)
		e.WriteByteString(id.Opaque)
	default:
		e.WriteByte(0x00)
		e.WriteByte(0x00)
	}
}

// Decoder consumes an OPC UA Binary encoded byte stream.
type Decoder struct {
	data []byte
	pos  int
}

// NewDecoder wraps data for sequential decoding.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

func (d *Decoder) need(n int) error {
	if d.Remaining() < n {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrInvalidMessage, n, d.Remaining())
	}
	return nil
}

func (d *Decoder) ReadByte() (byte, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	return b != 0, err
}

func (d *Decoder) ReadUInt16() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(d.data[d.pos:])
	d.pos += 2
	return v, nil
}

func (d *Decoder) ReadInt16() (int16, error) {
	v, err := d.ReadUInt16()
	return int16(v), err
}

func (d *Decoder) ReadUInt32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *Decoder) ReadInt32() (int32, error) {
	v, err := d.ReadUInt32()
	return int32(v), err
}

func (d *Decoder) ReadUInt64() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(d.data[d.pos:])
	d.pos += 8
	return v, nil
}

func (d *Decoder) ReadInt64() (int64, error) {
	v, err := d.ReadUInt64()
	return int64(v), err
}

func (d *Decoder) ReadFloat32() (float32, error) {
	v, err := d.ReadUInt32()
	return math.Float32frombits(v), err
}

func (d *Decoder) ReadFloat64() (float64, error) {
	v, err := d.ReadUInt64()
	return math.Float64frombits(v), err
}

// ReadByteString reads a length-prefixed opaque byte string. A length of
// -1 decodes to a nil slice.
func (d *Decoder) ReadByteString() ([]byte, error) {
	n, err := d.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, nil
	}
	if err := d.need(int(n)); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, d.data[d.pos:d.pos+int(n)])
	d.pos += int(n)
	return b, nil
}

func (d *Decoder) ReadString() (string, error) {
	b, err := d.ReadByteString()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *Decoder) ReadDateTime() (int64, error) {
	return d.ReadInt64()
}

func (d *Decoder) ReadStatusCode() (StatusCode, error) {
	v, err := d.ReadUInt32()
	return StatusCode(v), err
}

func (d *Decoder) ReadNodeID() (NodeID, error) {
	enc, err := d.ReadByte()
	if err != nil {
		return NodeID{}, err
	}
	switch enc {
	case 0x00:
		id, err := d.ReadByte()
		return NewNumericNodeID(0, uint32(id)), err
	case 0x01:
		ns, err := d.ReadByte()
		if err != nil {
			return NodeID{}, err
		}
		id, err := d.ReadUInt16()
		return NewNumericNodeID(uint16(ns), uint32(id)), err
	case 0x02:
		ns, err := d.ReadUInt16()
		if err != nil {
			return NodeID{}, err
		}
		id, err := d.ReadUInt32()
		return NewNumericNodeID(ns, id), err
	case 0x03:
		ns, err := d.ReadUInt16()
		if err != nil {
			return NodeID{}, err
		}
		s, err := d.ReadString()
		return NewStringNodeID(ns, s), err
	case 0x04:
		ns, err := d.ReadUInt16()
		if err != nil {
			return NodeID{}, err
		}
		if err := d.need(16); err != nil {
			return NodeID{}, err
		}
		var guid [16]byte
		copy(guid[:], d.data[d.pos:d.pos+16])
		d.pos += 16
		return NodeID{Type: NodeIDTypeGUID, Namespace: ns, GUID: guid}, nil
	case 0x05:
		ns, err := d.ReadUInt16()
		if err != nil {
			return NodeID{}, err
		}
		b, err := d.ReadByteString()
		return NodeID{Type: NodeIDTypeOpaque, Namespace: ns, Opaque: b}, err
	default:
		return NodeID{}, fmt.Errorf("%w: unknown NodeID encoding 0x%02X", ErrInvalidMessage, enc)
	}
}
