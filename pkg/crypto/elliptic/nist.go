package elliptic

import (
	stdelliptic "crypto/elliptic"

	"funahara/dtls/pkg/protocol/handshake"
)

var (
	p256 = stdelliptic.P256()
	p384 = stdelliptic.P384()
	p521 = stdelliptic.P521()
)

// nistCurve implements Curve over one of the stdlib NIST curves, using
// the uncompressed X9.62 point encoding (crypto/elliptic.Marshal) both
// on the wire and internally.
type nistCurve struct {
	curve stdelliptic.Curve
}

func (n nistCurve) ID() handshake.NamedCurve {
	switch n.curve {
	case p256:
		return handshake.NamedCurveSecp256r1
	case p384:
		return handshake.NamedCurveSecp384r1
	default:
		return handshake.NamedCurveSecp521r1
	}
}

func (n nistCurve) GenerateKeypair() (priv, pub []byte, err error) {
	priv, x, y, err := stdelliptic.GenerateKey(n.curve, rng)
	if err != nil {
		return nil, nil, err
	}
	pub = stdelliptic.Marshal(n.curve, x, y)
	return priv, pub, nil
}

func (n nistCurve) Agree(priv, peerPub []byte) ([]byte, error) {
	x, y := stdelliptic.Unmarshal(n.curve, peerPub)
	if x == nil {
		return nil, ErrInvalidPublicKey
	}
	sx, _ := n.curve.ScalarMult(x, y, priv)

	size := (n.curve.Params().BitSize + 7) / 8
	out := make([]byte, size)
	sx.FillBytes(out)
	return out, nil
}
