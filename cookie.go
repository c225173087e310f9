package dtls

import (
	"crypto/hmac"
	"crypto/sha256"
	"net"

	"funahara/dtls/pkg/crypto/random"
)

// generateCookie computes the stateless anti-DoS cookie HMAC (RFC 6347
// Section-4.2.1): HMAC-SHA256(secret, peer_address || client_random),
// truncated to cookieLength. Using the peer's observed address as part
// of the MAC input is what makes the cookie unforgeable without
// requiring the server to remember anything between the first and
// second ClientHello (spec.md scenario S3).
const cookieLength = 32

func generateCookie(secret []byte, peer net.Addr, clientRandom []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(peer.String()))
	mac.Write(clientRandom)
	return mac.Sum(nil)[:cookieLength]
}

func verifyCookie(secret []byte, peer net.Addr, clientRandom, cookie []byte) bool {
	want := generateCookie(secret, peer, clientRandom)
	return hmac.Equal(want, cookie)
}

// randomCookieSecret produces a fresh per-listener HMAC key when Config
// does not supply one explicitly.
func randomCookieSecret() ([]byte, error) {
	return random.Bytes(32)
}
