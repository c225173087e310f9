package dtls

import (
	"net"
	"sync"
)

// Manager owns every live Conn for one listening socket, keyed by peer
// address, mirroring the source's single-dispatcher-per-socket
// ownership model (original_source/'s connection manager module):
// one goroutine reads the shared UDP socket and hands each datagram to
// the Conn for its source address, creating one if this is a new
// peer's first ClientHello.
type Manager struct {
	mu    sync.Mutex
	conns map[string]*Conn
}

func NewManager() *Manager {
	return &Manager{conns: make(map[string]*Conn)}
}

// GetOrCreate returns the existing Conn for addr, or constructs one
// with new via a single guarded call if this is the first time addr
// has been seen.
func (m *Manager) GetOrCreate(addr net.Addr, new func() *Conn) *Conn {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := addr.String()
	if c, ok := m.conns[key]; ok {
		return c
	}
	c := new()
	m.conns[key] = c
	return c
}

// Get returns the Conn for addr, if one exists.
func (m *Manager) Get(addr net.Addr) (*Conn, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conns[addr.String()]
	return c, ok
}

// Terminate closes and forgets the Conn for addr.
func (m *Manager) Terminate(addr net.Addr) {
	m.mu.Lock()
	c, ok := m.conns[addr.String()]
	delete(m.conns, addr.String())
	m.mu.Unlock()
	if ok {
		_ = c.Close()
	}
}

// Len reports how many connections are currently tracked.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conns)
}
