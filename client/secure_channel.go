package client

import (
	"fmt"
	"time"

	"github.com/edgeo-scada/uacore/pkg/transport"
	"github.com/edgeo-scada/uacore/pkg/ua"
)

const securityPolicyNoneURI = "http://opcfoundation.org/UA/SecurityPolicy#None"

// secureChannel owns request-id allocation, chunk framing/reassembly and
// renewal scheduling for one channel. It never itself decides when to
// send a message; the multiplexer and the connect/disconnect sequencing
// call into it to frame and hand bytes to the transport.
type secureChannel struct {
	conn transport.Connection

	channelID uint32
	tokenID   uint32
	createdAt time.Time
	lifetime  time.Duration

	nextRequestID uint32
	nextSeqNum    uint32

	renewCallbackID uint64

	reassembly map[uint32]*chunkSet
}

type chunkSet struct {
	body     []byte
	respDesc ua.TypeDescriptor
}

func newSecureChannel(conn transport.Connection) *secureChannel {
	return &secureChannel{conn: conn, reassembly: make(map[uint32]*chunkSet)}
}

// allocRequestID returns the next request id for this channel: monotonic,
// wraps to 1 (never 0) on overflow.
func (sc *secureChannel) allocRequestID() uint32 {
	sc.nextRequestID++
	if sc.nextRequestID == 0 {
		sc.nextRequestID = 1
	}
	return sc.nextRequestID
}

func (sc *secureChannel) allocSeqNum() uint32 {
	sc.nextSeqNum++
	if sc.nextSeqNum == 0 {
		sc.nextSeqNum = 1
	}
	return sc.nextSeqNum
}

// renewDue reports whether now has reached 75% of the channel's lifetime.
func (sc *secureChannel) renewDue(now time.Time) bool {
	if sc.lifetime == 0 {
		return false
	}
	threshold := sc.createdAt.Add(time.Duration(0.75 * float64(sc.lifetime)))
	return !now.Before(threshold)
}

// encodeBody prefixes the descriptor's binary type id so the peer's decode
// side (in this exercise, only ever this same package acting as a fake
// server in tests) knows which descriptor to hand the remaining bytes to.
func encodeBody(reg *ua.Registry, desc ua.TypeDescriptor, value any) ([]byte, error) {
	e := ua.NewEncoder()
	e.WriteUInt32(desc.BinaryTypeID())
	if err := desc.Encode(value, e); err != nil {
		return nil, fmt.Errorf("client: encode %T: %w", value, err)
	}
	return e.Bytes(), nil
}

func decodeBody(reg *ua.Registry, data []byte) (ua.TypeDescriptor, any, error) {
	d := ua.NewDecoder(data)
	typeID, err := d.ReadUInt32()
	if err != nil {
		return nil, nil, err
	}
	desc, ok := reg.Lookup(typeID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: no descriptor for type id %d", ua.ErrInvalidMessage, typeID)
	}
	v, err := desc.Decode(d)
	return desc, v, err
}

// frameOPN builds an OPN chunk carrying an OpenSecureChannelRequest body.
func (sc *secureChannel) frameOPN(requestID uint32, body []byte) []byte {
	e := ua.NewEncoder()
	e.WriteUInt32(sc.channelID)
	e.WriteString(securityPolicyNoneURI)
	e.WriteByteString(nil) // sender certificate
	e.WriteByteString(nil) // receiver certificate thumbprint
	seq := ua.SequenceHeader{SequenceNumber: sc.allocSeqNum(), RequestID: requestID}
	seq.Encode(e)
	e.WriteRaw(body)
	return wrapChunk(ua.MessageTypeOpenChannel, ua.ChunkTypeFinal, e.Bytes())
}

// frameMSG builds a single-chunk MSG frame. If body exceeds maxBodySize it
// is split into 'C' (continuation) chunks followed by a final 'F' chunk,
// each carrying its own SequenceHeader with an incrementing sequence
// number but the same RequestID, matching the spec's "chunks accumulated
// by requestId" reassembly contract.
func (sc *secureChannel) frameMSG(requestID uint32, body []byte, maxBodySize int) [][]byte {
	return sc.frame(ua.MessageTypeMessage, requestID, body, maxBodySize)
}

func (sc *secureChannel) frameCLO(requestID uint32, body []byte) []byte {
	frames := sc.frame(ua.MessageTypeCloseChannel, requestID, body, 0)
	return frames[0]
}

func (sc *secureChannel) frame(msgType string, requestID uint32, body []byte, maxBodySize int) [][]byte {
	if maxBodySize <= 0 {
		maxBodySize = len(body)
		if maxBodySize == 0 {
			maxBodySize = 1
		}
	}
	var chunks [][]byte
	for offset := 0; offset < len(body) || len(chunks) == 0; {
		end := offset + maxBodySize
		final := end >= len(body)
		if final {
			end = len(body)
		}
		e := ua.NewEncoder()
		e.WriteUInt32(sc.channelID)
		e.WriteUInt32(sc.tokenID)
		seq := ua.SequenceHeader{SequenceNumber: sc.allocSeqNum(), RequestID: requestID}
		seq.Encode(e)
		e.WriteRaw(body[offset:end])
		chunkType := ua.ChunkTypeIntermediate
		if final {
			chunkType = ua.ChunkTypeFinal
		}
		chunks = append(chunks, wrapChunk(msgType, chunkType, e.Bytes()))
		offset = end
		if final {
			break
		}
	}
	return chunks
}

func wrapChunk(msgType string, chunkType byte, body []byte) []byte {
	h := ua.MessageHeader{ChunkType: chunkType, MessageSize: uint32(8 + len(body))}
	copy(h.MessageType[:], msgType)
	return append(h.Encode(), body...)
}

// ingest feeds one received chunk into reassembly. It returns the decoded
// response descriptor/value once the final chunk of a request completes,
// or (nil, nil, requestID, false, nil) if more chunks are still expected. An abort
// chunk clears the set and returns an error the caller should map to
// BadCommunicationError.
func (sc *secureChannel) ingest(reg *ua.Registry, raw []byte) (ua.TypeDescriptor, any, uint32, bool, error) {
	var h ua.MessageHeader
	if err := h.Decode(raw); err != nil {
		return nil, nil, 0, false, err
	}
	body := raw[8:h.MessageSize]

	switch string(h.MessageType[:]) {
	case ua.MessageTypeOpenChannel, ua.MessageTypeMessage, ua.MessageTypeCloseChannel:
	default:
		return nil, nil, 0, false, fmt.Errorf("%w: unexpected message type %q", ua.ErrInvalidMessage, h.MessageType)
	}

	d := ua.NewDecoder(body)
	if _, err := d.ReadUInt32(); err != nil { // channel id
		return nil, nil, 0, false, err
	}
	if string(h.MessageType[:]) == ua.MessageTypeOpenChannel {
		if _, err := d.ReadString(); err != nil { // security policy uri
			return nil, nil, 0, false, err
		}
		if _, err := d.ReadByteString(); err != nil { // sender cert
			return nil, nil, 0, false, err
		}
		if _, err := d.ReadByteString(); err != nil { // receiver thumbprint
			return nil, nil, 0, false, err
		}
	} else {
		if _, err := d.ReadUInt32(); err != nil { // token id
			return nil, nil, 0, false, err
		}
	}
	var seq ua.SequenceHeader
	if err := seq.Decode(d); err != nil {
		return nil, nil, 0, false, err
	}
	rest := body[len(body)-d.Remaining():]

	if h.ChunkType == ua.ChunkTypeAbort {
		delete(sc.reassembly, seq.RequestID)
		return nil, nil, seq.RequestID, false, fmt.Errorf("%w: chunk abort for request %d", ua.ErrInvalidMessage, seq.RequestID)
	}

	set, ok := sc.reassembly[seq.RequestID]
	if !ok {
		set = &chunkSet{}
		sc.reassembly[seq.RequestID] = set
	}
	set.body = append(set.body, rest...)

	if h.ChunkType == ua.ChunkTypeIntermediate {
		return nil, nil, seq.RequestID, false, nil
	}

	delete(sc.reassembly, seq.RequestID)
	desc, v, err := decodeBody(reg, set.body)
	if err != nil {
		return nil, nil, seq.RequestID, false, err
	}
	return desc, v, seq.RequestID, true, nil
}
