package dtls

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCookieVerifiesOnlyForMatchingInputs(t *testing.T) {
	secret := []byte("cookie secret")
	addr := &net.UDPAddr{IP: net.ParseIP("203.0.113.7"), Port: 5684}
	otherAddr := &net.UDPAddr{IP: net.ParseIP("203.0.113.8"), Port: 5684}
	clientRandom := make([]byte, 32)
	for i := range clientRandom {
		clientRandom[i] = byte(i)
	}

	cookie := generateCookie(secret, addr, clientRandom)
	require.Len(t, cookie, cookieLength)
	require.True(t, verifyCookie(secret, addr, clientRandom, cookie))

	require.False(t, verifyCookie(secret, otherAddr, clientRandom, cookie))

	otherRandom := make([]byte, 32)
	otherRandom[0] = 1
	require.False(t, verifyCookie(secret, addr, otherRandom, cookie))

	require.False(t, verifyCookie([]byte("different secret"), addr, clientRandom, cookie))
}
