// Package random supplies the cookie HMAC secret and the explicit
// per-record CBC IVs. handshake.GenerateRandom, the elliptic package's
// key generation, and ECDSA signing read crypto/rand directly. RFC 5246
// requires a CSPRNG for all of these; the teacher's DtlsClientRandom
// instead seeded math/rand from a wall-clock timestamp, which this
// module does not repeat.
package random

import "crypto/rand"

// Bytes returns n cryptographically random bytes.
func Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
