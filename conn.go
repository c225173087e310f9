package dtls

import (
	"net"
	"sync"
	"time"

	"github.com/pion/transport/v3/deadline"

	"funahara/dtls/pkg/protocol"
)

// Conn is the public connection handle, wrapping a net.Conn transport
// (a connected UDP socket for DTLS, a TCP socket for TLS) with the
// handshake/record state and read/write deadlines. Mirrors the
// teacher's Dtls type (dtls.go) in shape — embed the transport, expose
// net.Conn's method set — generalized to the full state machine instead
// of a fixed PSK/CCM pair.
type Conn struct {
	transport net.Conn
	st        *state

	readDeadline  *deadline.Deadline
	writeDeadline *deadline.Deadline

	handshakeOnce sync.Once
	handshakeErr  error
	handshakeDone chan struct{}

	closeOnce sync.Once
	closed    chan struct{}

	incoming chan []byte // application_data fragments, delivered in order
}

func newConn(transport net.Conn, st *state) *Conn {
	return &Conn{
		transport:     transport,
		st:            st,
		readDeadline:  deadline.New(),
		writeDeadline: deadline.New(),
		handshakeDone: make(chan struct{}),
		closed:        make(chan struct{}),
		incoming:      make(chan []byte, 16),
	}
}

// Handshake drives the connection to stepConnected, running the
// handshake exactly once even if called concurrently or repeatedly.
func (c *Conn) Handshake() error {
	c.handshakeOnce.Do(func() {
		c.handshakeErr = runHandshake(c)
		if c.handshakeErr == nil {
			go c.readLoop()
		}
		close(c.handshakeDone)
	})
	<-c.handshakeDone
	return c.handshakeErr
}

// readLoop runs for the lifetime of a connected Conn, feeding each
// application_data record's fragment to Read and treating a received
// Alert or a transport error as connection termination. Any other
// record type (including ChangeCipherSpec) is discarded.
func (c *Conn) readLoop() {
	for {
		records, err := c.readRecords()
		if err != nil {
			_ = c.Close()
			return
		}
		for _, r := range records {
			switch r.ContentType {
			case protocol.ContentTypeApplicationData:
				select {
				case c.incoming <- r.Fragment:
				case <-c.closed:
					return
				}
			case protocol.ContentTypeAlert:
				_ = c.Close()
				return
			}
		}
	}
}

// Read blocks until one application_data fragment is available,
// returning ErrConnectionClosed once Close has been called. Fragments
// still queued when Close is called are not guaranteed to be returned.
func (c *Conn) Read(b []byte) (int, error) {
	if err := c.Handshake(); err != nil {
		return 0, err
	}
	select {
	case frag, ok := <-c.incoming:
		if !ok {
			return 0, ErrConnectionClosed
		}
		n := copy(b, frag)
		return n, nil
	case <-c.readDeadline.Done():
		return 0, &timeoutError{}
	case <-c.closed:
		return 0, ErrConnectionClosed
	}
}

// Write encrypts and sends b as a single application_data record.
func (c *Conn) Write(b []byte) (int, error) {
	if err := c.Handshake(); err != nil {
		return 0, err
	}
	select {
	case <-c.writeDeadline.Done():
		return 0, &timeoutError{}
	default:
	}
	if err := c.writeApplicationData(b); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
	return c.transport.Close()
}

func (c *Conn) LocalAddr() net.Addr  { return c.transport.LocalAddr() }
func (c *Conn) RemoteAddr() net.Addr { return c.transport.RemoteAddr() }

func (c *Conn) SetDeadline(t time.Time) error {
	c.readDeadline.Set(t)
	c.writeDeadline.Set(t)
	return nil
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	c.readDeadline.Set(t)
	return nil
}

func (c *Conn) SetWriteDeadline(t time.Time) error {
	c.writeDeadline.Set(t)
	return nil
}

type timeoutError struct{}

func (*timeoutError) Error() string   { return "dtls: i/o timeout" }
func (*timeoutError) Timeout() bool   { return true }
func (*timeoutError) Temporary() bool { return true }
