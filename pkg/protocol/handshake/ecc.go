package handshake

import "encoding/binary"

// ECCurveType is the curve_type field of ServerECDHParams (RFC 4492
// Section-5.4). This module only ever sends named_curve.
type ECCurveType byte

const ECCurveTypeNamedCurve ECCurveType = 3

// NamedCurve is the 16-bit codepoint identifying an elliptic curve (RFC
// 4492 Section-5.1.1, RFC 7027 for secp521r1/secp384r1, RFC 8422 for
// x25519).
type NamedCurve uint16

const (
	NamedCurveSecp256r1 NamedCurve = 23
	NamedCurveSecp384r1 NamedCurve = 24
	NamedCurveSecp521r1 NamedCurve = 25
	NamedCurveX25519    NamedCurve = 29
)

// ECParameters is the common substrate shared by ServerKeyExchange's
// ECDH parameters across all three cipher-exchange suites this module
// implements (RFC 4492 Section-5.4): curve type, named curve, and the
// public key (an uncompressed X9.62 point for the NIST curves, the
// 32-byte u-coordinate for X25519).
type ECParameters struct {
	CurveType  ECCurveType
	NamedCurve NamedCurve
	PublicKey  []byte
}

func (p *ECParameters) Marshal() []byte {
	buf := make([]byte, 4+len(p.PublicKey))
	buf[0] = byte(p.CurveType)
	binary.BigEndian.PutUint16(buf[1:3], uint16(p.NamedCurve))
	buf[3] = byte(len(p.PublicKey))
	copy(buf[4:], p.PublicKey)
	return buf
}

// Unmarshal parses ECParameters from the front of buf and returns the
// number of bytes consumed.
func (p *ECParameters) Unmarshal(buf []byte) (int, error) {
	if len(buf) < 4 {
		return 0, errBufferTooSmall
	}
	p.CurveType = ECCurveType(buf[0])
	p.NamedCurve = NamedCurve(binary.BigEndian.Uint16(buf[1:3]))
	keyLen := int(buf[3])
	if len(buf) < 4+keyLen {
		return 0, errLengthMismatch
	}
	p.PublicKey = append([]byte{}, buf[4:4+keyLen]...)
	return 4 + keyLen, nil
}
