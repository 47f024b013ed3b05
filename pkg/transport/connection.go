// Package transport provides the byte-pipe abstraction the client core
// runs its cooperative event loop over. A Connection is deliberately
// dumber than the teacher's TCPTransport: Send and Receive are separate
// calls, because the core's single blocking point is a timed Receive, not
// a request/response round trip owned by the transport.
package transport

import (
	"errors"
	"time"
)

// ErrTimeout is returned by Receive when no data arrives within the
// requested window. It is not a connection failure.
var ErrTimeout = errors.New("transport: receive timed out")

// ErrClosed is returned by Send/Receive after Close, and by Receive when
// the peer closed the connection.
var ErrClosed = errors.New("transport: connection closed")

// Config carries the buffer and chunking limits exchanged during the
// Hello/Acknowledge handshake, named the way UA_ConnectionConfig is in
// the header this core is descended from.
type Config struct {
	RecvBufferSize uint32
	SendBufferSize uint32
	MaxMessageSize uint32
	MaxChunkCount  uint32
	ConnectTimeout time.Duration
}

// DefaultConfig mirrors open62541's UA_ConnectionConfig_default.
func DefaultConfig() Config {
	return Config{
		RecvBufferSize: 65535,
		SendBufferSize: 65535,
		MaxMessageSize: 0,
		MaxChunkCount:  0,
		ConnectTimeout: 5 * time.Second,
	}
}

// Connection is a single, already-open byte pipe to a server. It has no
// knowledge of OPC UA chunk framing; the secure channel layer above it
// owns headers and reassembly. Implementations must be safe for one
// goroutine calling Send and Receive from within the same event loop tick
// (the core never calls either concurrently with itself, but Close may
// be called from another goroutine to unblock a pending Receive).
type Connection interface {
	// Send writes one already-framed chunk. It must not block waiting for
	// a reply.
	Send(data []byte) error
	// Receive blocks until a chunk arrives, timeoutMs elapses (returning
	// ErrTimeout), or the connection is closed (returning ErrClosed). A
	// timeoutMs of 0 or less asks for a short poll; TCPConnection waits up
	// to 50ms in that case.
	Receive(timeoutMs int) ([]byte, error)
	// RemoteDescription identifies the pipe's remote endpoint for logging;
	// it may be empty.
	RemoteDescription() string
	// Close unblocks any pending Receive and releases the underlying
	// resource. Close is idempotent.
	Close() error
}

// Factory opens a new Connection to endpointURL. The core calls this
// exactly once per Connect and once per reconnect attempt an application
// driving the state machine chooses to make; the core itself never
// retries a Factory call on its own (there is no automatic reconnection
// policy).
type Factory func(endpointURL string, cfg Config) (Connection, error)
