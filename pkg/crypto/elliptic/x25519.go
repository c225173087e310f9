package elliptic

import (
	"io"

	"golang.org/x/crypto/curve25519"

	"funahara/dtls/pkg/protocol/handshake"
)

// x25519Curve implements Curve over Curve25519 (RFC 8422 Section-5.1.1
// added the named-curve codepoint 29). The "public key" wire form for
// x25519 is just the 32-byte u-coordinate, so unlike the NIST curves
// there is no compressed/uncompressed distinction to preserve.
type x25519Curve struct{}

func (x25519Curve) ID() handshake.NamedCurve { return handshake.NamedCurveX25519 }

func (x25519Curve) GenerateKeypair() (priv, pub []byte, err error) {
	priv = make([]byte, curve25519.ScalarSize)
	if _, err := io.ReadFull(rng, priv); err != nil {
		return nil, nil, err
	}
	pub, err = curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, nil, err
	}
	return priv, pub, nil
}

func (x25519Curve) Agree(priv, peerPub []byte) ([]byte, error) {
	if len(peerPub) != curve25519.PointSize {
		return nil, ErrInvalidPublicKey
	}
	return curve25519.X25519(priv, peerPub)
}
