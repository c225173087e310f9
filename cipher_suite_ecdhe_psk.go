package dtls

import (
	"encoding/binary"

	"funahara/dtls/pkg/crypto/elliptic"
	"funahara/dtls/pkg/crypto/prf"
	"funahara/dtls/pkg/protocol/handshake"
)

// cipherSuiteECDHEPSK implements TLS_ECDHE_PSK_WITH_AES_128_CBC_SHA256
// (RFC 5489 Section-2): an ephemeral ECDH exchange combined with a PSK,
// authenticated by prior possession of the key rather than a
// certificate. ServerKeyExchange prefixes a PSK identity hint;
// ClientKeyExchange prefixes the identity the client is using.
type cipherSuiteECDHEPSK struct {
	aes128cbcSHA256
}

func (cipherSuiteECDHEPSK) ID() CipherSuiteID { return TLS_ECDHE_PSK_WITH_AES_128_CBC_SHA256 }
func (cipherSuiteECDHEPSK) KeyExchangeAlgorithm() KeyExchangeAlgorithm {
	return KeyExchangeECDHEPSK
}

func (cipherSuiteECDHEPSK) BuildClientHelloExtensions(c *state) ([]handshake.Extension, error) {
	return ellipticCurvesExtension(c.config.Curves), nil
}

func appendOpaque16(buf, data []byte) []byte {
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(data)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, data...)
}

func readOpaque16(buf []byte) (data []byte, rest []byte, err error) {
	if len(buf) < 2 {
		return nil, nil, ErrMalformedRecord
	}
	n := int(binary.BigEndian.Uint16(buf[0:2]))
	if len(buf) < 2+n {
		return nil, nil, ErrMalformedRecord
	}
	return buf[2 : 2+n], buf[2+n:], nil
}

// BuildServerKeyExchange sends the configured PSK identity hint
// followed by the server's ephemeral ECDH public point.
func (cipherSuiteECDHEPSK) BuildServerKeyExchange(c *state) ([]byte, error) {
	curve, err := pickCurve(c)
	if err != nil {
		return nil, err
	}
	priv, pub, err := curve.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	c.curve = curve
	c.curveID = curve.ID()
	c.ecPriv = priv
	c.ecPub = pub

	params := handshake.ECParameters{
		CurveType:  handshake.ECCurveTypeNamedCurve,
		NamedCurve: curve.ID(),
		PublicKey:  pub,
	}

	out := appendOpaque16(nil, c.config.PSKIdentityHint)
	out = append(out, params.Marshal()...)
	return out, nil
}

// ProcessServerKeyExchange parses the hint (stored for informational
// purposes only; this module does not expose it to the application
// layer beyond Config) and the server's ECParameters.
func (cipherSuiteECDHEPSK) ProcessServerKeyExchange(c *state, raw []byte) error {
	hint, rest, err := readOpaque16(raw)
	if err != nil {
		return err
	}
	c.pskIdentityHint = hint

	var params handshake.ECParameters
	if _, err := params.Unmarshal(rest); err != nil {
		return err
	}
	curve, err := elliptic.ByID(params.NamedCurve)
	if err != nil {
		return ErrUnsupportedCurve
	}
	c.curve = curve
	c.curveID = params.NamedCurve
	c.peerECPub = params.PublicKey
	return nil
}

// BuildClientKeyExchange sends the client's chosen PSK identity
// (Config.PSKIdentity) followed by its ephemeral ECDH public point.
func (cipherSuiteECDHEPSK) BuildClientKeyExchange(c *state) ([]byte, error) {
	priv, pub, err := c.curve.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	c.ecPriv = priv
	c.ecPub = pub
	c.pskIdentity = c.config.PSKIdentity

	params := handshake.ECParameters{
		CurveType:  handshake.ECCurveTypeNamedCurve,
		NamedCurve: c.curveID,
		PublicKey:  pub,
	}
	out := appendOpaque16(nil, c.pskIdentity)
	out = append(out, params.Marshal()...)
	return out, nil
}

// ProcessClientKeyExchange (server side) records the client's PSK
// identity and parses its public point. The identity is resolved to a
// key via Config.PSK later, in ComputePremaster.
func (cipherSuiteECDHEPSK) ProcessClientKeyExchange(c *state, raw []byte) error {
	identity, rest, err := readOpaque16(raw)
	if err != nil {
		return err
	}
	c.pskIdentity = identity

	var params handshake.ECParameters
	if _, err := params.Unmarshal(rest); err != nil {
		return err
	}
	c.peerECPub = params.PublicKey
	return nil
}

func (cipherSuiteECDHEPSK) ComputePremaster(c *state) ([]byte, error) {
	if c.config.PSK == nil {
		return nil, ErrNoPSKIdentity
	}
	psk, err := c.config.PSK(c.pskIdentity)
	if err != nil {
		return nil, err
	}
	if psk == nil {
		return nil, ErrNoPSKIdentity
	}
	z, err := c.curve.Agree(c.ecPriv, c.peerECPub)
	if err != nil {
		return nil, err
	}
	return prf.PremasterSecretECDHEPSK(z, psk), nil
}
