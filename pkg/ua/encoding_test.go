package ua

import "testing"

func TestEncodeDecodeScalarRoundTrip(t *testing.T) {
	e := NewEncoder()
	e.WriteBool(true)
	e.WriteUInt16(0xBEEF)
	e.WriteInt32(-42)
	e.WriteUInt64(1 << 40)
	e.WriteFloat64(3.5)
	e.WriteString("hello")
	e.WriteByteString(nil)
	e.WriteByteString([]byte{})
	e.WriteByteString([]byte{1, 2, 3})

	d := NewDecoder(e.Bytes())
	if b, err := d.ReadBool(); err != nil || !b {
		t.Fatalf("ReadBool: %v %v", b, err)
	}
	if v, err := d.ReadUInt16(); err != nil || v != 0xBEEF {
		t.Fatalf("ReadUInt16: %v %v", v, err)
	}
	if v, err := d.ReadInt32(); err != nil || v != -42 {
		t.Fatalf("ReadInt32: %v %v", v, err)
	}
	if v, err := d.ReadUInt64(); err != nil || v != 1<<40 {
		t.Fatalf("ReadUInt64: %v %v", v, err)
	}
	if v, err := d.ReadFloat64(); err != nil || v != 3.5 {
		t.Fatalf("ReadFloat64: %v %v", v, err)
	}
	if s, err := d.ReadString(); err != nil || s != "hello" {
		t.Fatalf("ReadString: %q %v", s, err)
	}
	if b, err := d.ReadByteString(); err != nil || b != nil {
		t.Fatalf("ReadByteString(nil): %v %v", b, err)
	}
	if b, err := d.ReadByteString(); err != nil || len(b) != 0 {
		t.Fatalf("ReadByteString(empty): %v %v", b, err)
	}
	if b, err := d.ReadByteString(); err != nil || string(b) != "\x01\x02\x03" {
		t.Fatalf("ReadByteString: %v %v", b, err)
	}
	if d.Remaining() != 0 {
		t.Fatalf("expected exact consumption, %d bytes left", d.Remaining())
	}
}

func TestDecoderTruncatedBuffer(t *testing.T) {
	d := NewDecoder([]byte{0x01, 0x02})
	if _, err := d.ReadUInt32(); err == nil {
		t.Fatal("expected error reading uint32 from a 2-byte buffer")
	}
}

func TestNodeIDEncodingVariants(t *testing.T) {
	cases := []NodeID{
		NewNumericNodeID(0, 42),
		NewNumericNodeID(3, 5000),
		NewNumericNodeID(12000, 90000),
		NewStringNodeID(2, "some.node"),
		{Type: NodeIDTypeGUID, Namespace: 1, GUID: [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}},
		{Type: NodeIDTypeOpaque, Namespace: 4, Opaque: []byte{0xAA, 0xBB}},
	}
	for _, id := range cases {
		e := NewEncoder()
		e.WriteNodeID(id)
		d := NewDecoder(e.Bytes())
		got, err := d.ReadNodeID()
		if err != nil {
			t.Fatalf("ReadNodeID(%+v): %v", id, err)
		}
		if got.Type != id.Type || got.Namespace != id.Namespace {
			t.Fatalf("round trip mismatch: want %+v got %+v", id, got)
		}
		switch id.Type {
		case NodeIDTypeNumeric:
			if got.Numeric != id.Numeric {
				t.Fatalf("numeric mismatch: want %d got %d", id.Numeric, got.Numeric)
			}
		case NodeIDTypeString:
			if got.String != id.String {
				t.Fatalf("string mismatch: want %q got %q", id.String, got.String)
			}
		case NodeIDTypeGUID:
			if got.GUID != id.GUID {
				t.Fatalf("guid mismatch")
			}
		case NodeIDTypeOpaque:
			if string(got.Opaque) != string(id.Opaque) {
				t.Fatalf("opaque mismatch")
			}
		}
	}
}

func TestNumericNodeIDPicksCompactEncoding(t *testing.T) {
	// namespace 0, id <= 0xFF encodes as the 2-byte form (encoding byte 0x00).
	e := NewEncoder()
	e.WriteNodeID(NewNumericNodeID(0, 5))
	if got := len(e.Bytes()); got != 2 {
		t.Fatalf("expected 2-byte compact numeric encoding, got %d bytes", got)
	}
}

func TestMessageHeaderRoundTrip(t *testing.T) {
	h := MessageHeader{ChunkType: ChunkTypeFinal, MessageSize: 123}
	copy(h.MessageType[:], MessageTypeMessage)
	buf := h.Encode()

	var got MessageHeader
	if err := got.Decode(buf); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(got.MessageType[:]) != MessageTypeMessage || got.ChunkType != ChunkTypeFinal || got.MessageSize != 123 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
