package handshake

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// RandomLength is the fixed size of client_random/server_random: a
// 4-byte gmt_unix_time prefix followed by 28 cryptographically random
// bytes (RFC 5246 Section-7.4.1.2).
const RandomLength = 32

// Random is the ClientHello/ServerHello random field.
type Random [RandomLength]byte

// GenerateRandom fills a fresh Random using the system CSPRNG, replacing
// the teacher's math/rand-seeded DtlsClientRandom: RFC 5246 requires the
// trailing 28 bytes to be unpredictable, which math/rand's
// time.Now().UnixNano() seed does not provide.
func GenerateRandom() (Random, error) {
	var r Random
	binary.BigEndian.PutUint32(r[0:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(r[4:]); err != nil {
		return r, err
	}
	return r, nil
}

func (r Random) Marshal() []byte {
	out := make([]byte, RandomLength)
	copy(out, r[:])
	return out
}

func (r *Random) Unmarshal(buf []byte) error {
	if len(buf) < RandomLength {
		return errBufferTooSmall
	}
	copy(r[:], buf[:RandomLength])
	return nil
}
