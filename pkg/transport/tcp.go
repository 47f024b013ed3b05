package transport

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// TCPConnection is the default Connection, adapted from a request/response
// transport into decoupled Send/Receive so the client core can multiplex
// several outstanding requests over one socket instead of blocking one
// call per round trip.
type TCPConnection struct {
	conn   net.Conn
	remote string

	mu     sync.Mutex
	closed bool

	readMu  sync.Mutex
	readBuf []byte
}

// DialTCP opens a TCP connection to an opc.tcp:// endpoint URL's host:port
// and enables the keepalive/nodelay settings the teacher's transport used.
func DialTCP(endpointURL string, cfg Config) (Connection, error) {
	addr, err := hostPort(endpointURL)
	if err != nil {
		return nil, err
	}
	d := net.Dialer{Timeout: cfg.ConnectTimeout}
	conn, err := d.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetKeepAlive(true)
		_ = tcpConn.SetKeepAlivePeriod(30 * time.Second)
		_ = tcpConn.SetNoDelay(true)
	}
	return &TCPConnection{conn: conn, remote: addr}, nil
}

func hostPort(endpointURL string) (string, error) {
	// opc.tcp://host:port/path -> host:port
	const scheme = "opc.tcp://"
	rest := endpointURL
	if len(rest) >= len(scheme) && rest[:len(scheme)] == scheme {
		rest = rest[len(scheme):]
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			rest = rest[:i]
			break
		}
	}
	if rest == "" {
		return "", fmt.Errorf("transport: invalid endpoint URL %q", endpointURL)
	}
	if _, _, err := net.SplitHostPort(rest); err != nil {
		return "", fmt.Errorf("transport: invalid endpoint URL %q: %w", endpointURL, err)
	}
	return rest, nil
}

func (c *TCPConnection) Send(data []byte) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	conn := c.conn
	c.mu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

// Receive reads exactly one framed chunk: an 8-byte header (whose last
// 4 bytes are the little-endian total message size) followed by the rest
// of the message. A partial header read that times out leaves the buffered
// prefix in place for the next call, matching a UA_Client waking a stalled
// connection repeatedly rather than losing bytes already read off the wire.
func (c *TCPConnection) Receive(timeoutMs int) ([]byte, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	conn := c.conn
	c.mu.Unlock()

	if timeoutMs <= 0 {
		_ = conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
	} else {
		_ = conn.SetReadDeadline(time.Now().Add(time.Duration(timeoutMs) * time.Millisecond))
	}

	if len(c.readBuf) < 8 {
		need := 8 - len(c.readBuf)
		buf := make([]byte, need)
		n, err := io.ReadFull(conn, buf)
		c.readBuf = append(c.readBuf, buf[:n]...)
		if err != nil {
			return nil, classifyReadErr(err)
		}
	}

	size := binary.LittleEndian.Uint32(c.readBuf[4:8])
	if size < 8 {
		return nil, fmt.Errorf("transport: invalid message size %d", size)
	}
	if len(c.readBuf) < int(size) {
		rest := make([]byte, int(size)-len(c.readBuf))
		n, err := io.ReadFull(conn, rest)
		c.readBuf = append(c.readBuf, rest[:n]...)
		if err != nil {
			return nil, classifyReadErr(err)
		}
	}

	msg := c.readBuf[:size]
	c.readBuf = nil
	return msg, nil
}

func classifyReadErr(err error) error {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return ErrTimeout
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrClosed
	}
	return fmt.Errorf("transport: read: %w", err)
}

func (c *TCPConnection) RemoteDescription() string {
	return c.remote
}

func (c *TCPConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
