package dtls

import (
	"net"
	"time"

	"funahara/dtls/pkg/protocol"
)

// Dial opens a client connection and runs the handshake to completion
// before returning, mirroring the teacher's DtlsDial (dtls.go) but
// generalized across both transports: "udp" network names negotiate
// DTLS, "tcp" names negotiate TLS (spec.md §6's dial operation).
func Dial(network, address string, config *Config) (*Conn, error) {
	transport, err := net.Dial(network, address)
	if err != nil {
		return nil, err
	}
	return Client(transport, config)
}

// Client wraps an already-connected transport and runs the client
// handshake over it.
func Client(transport net.Conn, config *Config) (*Conn, error) {
	isDTLS := isPacketTransport(network(transport))
	st := newState(RoleClient, config, isDTLS, transport.RemoteAddr())
	st.version = initialVersion(isDTLS)
	c := newConn(transport, st)
	return handshakeWithTimeout(c, config)
}

// Server wraps an already-connected transport and runs the server
// handshake over it. Used directly for TLS (a net.Listener Accept
// already demultiplexes by connection); DTLS servers go through Listen
// instead since UDP has no per-peer socket.
func Server(transport net.Conn, config *Config) (*Conn, error) {
	if config.CookieSecret == nil {
		secret, err := randomCookieSecret()
		if err != nil {
			return nil, err
		}
		config.CookieSecret = secret
	}
	isDTLS := isPacketTransport(network(transport))
	st := newState(RoleServer, config, isDTLS, transport.RemoteAddr())
	st.version = initialVersion(isDTLS)
	c := newConn(transport, st)
	return handshakeWithTimeout(c, config)
}

// handshakeWithTimeout bounds Handshake by config.handshakeTimeout,
// mirroring the teacher's fixed 5-second DtlsDial deadline (dtls.go)
// but configurable. The deadline is set directly on the transport
// since that is what the blocking reads in handshaker.go actually wait
// on; it is cleared again once connected so it does not also bound
// later application reads/writes.
func handshakeWithTimeout(c *Conn, config *Config) (*Conn, error) {
	_ = c.transport.SetDeadline(time.Now().Add(config.handshakeTimeout()))
	err := c.Handshake()
	_ = c.transport.SetDeadline(time.Time{})
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func initialVersion(isDTLS bool) protocol.Version {
	if isDTLS {
		return protocol.VersionDTLS12
	}
	return protocol.Version12
}

func network(c net.Conn) string {
	if c.LocalAddr() == nil {
		return ""
	}
	return c.LocalAddr().Network()
}

func isPacketTransport(net string) bool {
	return net == "udp" || net == "udp4" || net == "udp6"
}

// Listener demultiplexes one shared PacketConn into per-peer Conns,
// the model a connectionless DTLS server needs in place of TCP's
// Accept-gives-you-a-socket (spec.md §6's listen/accept operations;
// original_source/'s server dispatcher is the same one-socket,
// many-peers shape).
type Listener struct {
	pc      net.PacketConn
	config  *Config
	manager *Manager
	accept  chan *Conn
	errs    chan error
	closed  chan struct{}
}

// Listen opens a UDP socket and begins demultiplexing incoming
// datagrams by source address. Call Accept to retrieve each new peer's
// Conn once its handshake completes.
func Listen(network, address string, config *Config) (*Listener, error) {
	pc, err := net.ListenPacket(network, address)
	if err != nil {
		return nil, err
	}
	if config.CookieSecret == nil {
		secret, err := randomCookieSecret()
		if err != nil {
			return nil, err
		}
		config.CookieSecret = secret
	}
	l := &Listener{
		pc:      pc,
		config:  config,
		manager: NewManager(),
		accept:  make(chan *Conn, 16),
		errs:    make(chan error, 1),
		closed:  make(chan struct{}),
	}
	go l.readLoop()
	return l, nil
}

func (l *Listener) readLoop() {
	buf := make([]byte, 65535)
	for {
		n, addr, err := l.pc.ReadFrom(buf)
		if err != nil {
			select {
			case l.errs <- err:
			default:
			}
			return
		}
		datagram := append([]byte{}, buf[:n]...)

		isNew := false
		conn := l.manager.GetOrCreate(addr, func() *Conn {
			isNew = true
			st := newState(RoleServer, l.config, true, addr)
			st.version = protocol.VersionDTLS12
			transport := newPacketConnAdapter(l.pc, addr)
			c := newConn(transport, st)
			return c
		})

		adapter, ok := conn.transport.(*packetConnAdapter)
		if ok {
			adapter.deliver(datagram)
		}

		if isNew {
			go func() {
				if err := conn.Handshake(); err != nil {
					l.manager.Terminate(addr)
					return
				}
				select {
				case l.accept <- conn:
				case <-l.closed:
				}
			}()
		}
	}
}

// Accept blocks until a new peer completes its handshake.
func (l *Listener) Accept() (*Conn, error) {
	select {
	case c := <-l.accept:
		return c, nil
	case err := <-l.errs:
		return nil, err
	case <-l.closed:
		return nil, ErrConnectionClosed
	}
}

func (l *Listener) Close() error {
	close(l.closed)
	return l.pc.Close()
}

func (l *Listener) Addr() net.Addr { return l.pc.LocalAddr() }

// packetConnAdapter presents one peer's slice of a shared PacketConn as
// a net.Conn, the piece that lets Conn's record layer stay transport-
// agnostic between a real connected socket (Dial) and a demultiplexed
// one (Listen).
type packetConnAdapter struct {
	pc     net.PacketConn
	remote net.Addr
	in     chan []byte
	closed chan struct{}
}

func newPacketConnAdapter(pc net.PacketConn, remote net.Addr) *packetConnAdapter {
	return &packetConnAdapter{pc: pc, remote: remote, in: make(chan []byte, 16), closed: make(chan struct{})}
}

func (a *packetConnAdapter) deliver(datagram []byte) {
	select {
	case a.in <- datagram:
	case <-a.closed:
	}
}

func (a *packetConnAdapter) Read(b []byte) (int, error) {
	select {
	case d := <-a.in:
		return copy(b, d), nil
	case <-a.closed:
		return 0, ErrConnectionClosed
	}
}

func (a *packetConnAdapter) Write(b []byte) (int, error) {
	return a.pc.WriteTo(b, a.remote)
}

func (a *packetConnAdapter) Close() error {
	select {
	case <-a.closed:
	default:
		close(a.closed)
	}
	return nil
}

func (a *packetConnAdapter) LocalAddr() net.Addr  { return a.pc.LocalAddr() }
func (a *packetConnAdapter) RemoteAddr() net.Addr { return a.remote }

func (a *packetConnAdapter) SetDeadline(t time.Time) error      { return nil }
func (a *packetConnAdapter) SetReadDeadline(t time.Time) error  { return nil }
func (a *packetConnAdapter) SetWriteDeadline(t time.Time) error { return nil }
