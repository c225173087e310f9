package dtls

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManagerGetOrCreateReusesExistingConn(t *testing.T) {
	m := NewManager()
	addr := &net.UDPAddr{IP: net.ParseIP("192.0.2.1"), Port: 5684}

	calls := 0
	build := func() *Conn {
		calls++
		a, b := net.Pipe()
		_ = b
		return newConn(a, newState(RoleServer, &Config{}, true, addr))
	}

	first := m.GetOrCreate(addr, build)
	second := m.GetOrCreate(addr, build)

	require.Same(t, first, second)
	require.Equal(t, 1, calls)
	require.Equal(t, 1, m.Len())
}

func TestManagerTerminateRemovesConn(t *testing.T) {
	m := NewManager()
	addr := &net.UDPAddr{IP: net.ParseIP("192.0.2.2"), Port: 5684}
	a, _ := net.Pipe()

	m.GetOrCreate(addr, func() *Conn {
		return newConn(a, newState(RoleServer, &Config{}, true, addr))
	})
	require.Equal(t, 1, m.Len())

	m.Terminate(addr)
	require.Equal(t, 0, m.Len())

	_, ok := m.Get(addr)
	require.False(t, ok)
}
