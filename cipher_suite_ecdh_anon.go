package dtls

import (
	"encoding/binary"

	"funahara/dtls/pkg/crypto/elliptic"
	"funahara/dtls/pkg/protocol/handshake"
)

// cipherSuiteECDHAnon implements TLS_ECDH_anon_WITH_AES_128_CBC_SHA256
// (RFC 4492 Section-2): an unauthenticated ephemeral ECDH exchange, no
// signature and no PSK. ServerKeyExchange carries bare ECParameters.
type cipherSuiteECDHAnon struct {
	aes128cbcSHA256
}

func (cipherSuiteECDHAnon) ID() CipherSuiteID { return TLS_ECDH_anon_WITH_AES_128_CBC_SHA256 }
func (cipherSuiteECDHAnon) KeyExchangeAlgorithm() KeyExchangeAlgorithm {
	return KeyExchangeECDHAnon
}

func (cipherSuiteECDHAnon) BuildClientHelloExtensions(c *state) ([]handshake.Extension, error) {
	return ellipticCurvesExtension(c.config.Curves), nil
}

// BuildServerKeyExchange generates the server's ephemeral keypair on
// the negotiated curve and sends its public point, unsigned.
func (cipherSuiteECDHAnon) BuildServerKeyExchange(c *state) ([]byte, error) {
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
	return params.Marshal(), nil
}

// ProcessServerKeyExchange parses the peer's ECParameters and stores
// the curve and public point for premaster computation.
func (cipherSuiteECDHAnon) ProcessServerKeyExchange(c *state, raw []byte) error {
	var params handshake.ECParameters
	if _, err := params.Unmarshal(raw); err != nil {
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

// BuildClientKeyExchange generates the client's own ephemeral keypair
// on the curve the server chose and sends its public point, wrapped in
// the same ECParameters encoding (curve type, named curve, point) the
// server used.
func (cipherSuiteECDHAnon) BuildClientKeyExchange(c *state) ([]byte, error) {
	priv, pub, err := c.curve.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	c.ecPriv = priv
	c.ecPub = pub

	params := handshake.ECParameters{
		CurveType:  handshake.ECCurveTypeNamedCurve,
		NamedCurve: c.curveID,
		PublicKey:  pub,
	}
	return params.Marshal(), nil
}

// ProcessClientKeyExchange parses the client's ECParameters and keeps
// its public point (server side).
func (cipherSuiteECDHAnon) ProcessClientKeyExchange(c *state, raw []byte) error {
	var params handshake.ECParameters
	if _, err := params.Unmarshal(raw); err != nil {
		return err
	}
	c.peerECPub = params.PublicKey
	return nil
}

func (cipherSuiteECDHAnon) ComputePremaster(c *state) ([]byte, error) {
	return c.curve.Agree(c.ecPriv, c.peerECPub)
}

func ellipticCurvesExtension(curves []handshake.NamedCurve) []handshake.Extension {
	if len(curves) == 0 {
		curves = elliptic.Supported()
	}
	data := make([]byte, 1+2*len(curves))
	data[0] = byte(2 * len(curves))
	for i, curve := range curves {
		data[1+2*i] = byte(curve >> 8)
		data[2+2*i] = byte(curve)
	}
	return []handshake.Extension{{Type: handshake.ExtensionEllipticCurves, Data: data}}
}

// parseEllipticCurves decodes a received elliptic_curves extension
// (RFC 4492 Section-5.1.1) into the list the peer offered, in the
// single-byte-length layout ellipticCurvesExtension writes. Returns nil
// if the extension is absent, meaning there is nothing to intersect
// against.
func parseEllipticCurves(exts []handshake.Extension) []handshake.NamedCurve {
	ext, ok := handshake.FindExtension(exts, handshake.ExtensionEllipticCurves)
	if !ok || len(ext.Data) < 1 {
		return nil
	}
	length := int(ext.Data[0])
	if len(ext.Data) < 1+length {
		return nil
	}
	var curves []handshake.NamedCurve
	for i := 0; i+1 < length; i += 2 {
		curves = append(curves, handshake.NamedCurve(binary.BigEndian.Uint16(ext.Data[1+i:3+i])))
	}
	return curves
}

// pickCurve chooses the curve the server will use for its ephemeral
// key, following the same client-list-intersection rule cipher suite
// negotiation uses (spec.md S4.E): the first of the server's preferred
// curves that the client also offered in its elliptic_curves extension.
// If the client sent no such extension there is nothing to intersect
// against, so the server falls back to its own top preference.
func pickCurve(c *state) (elliptic.Curve, error) {
	prefs := c.config.Curves
	if len(prefs) == 0 {
		prefs = elliptic.Supported()
	}
	if len(c.offeredCurves) == 0 {
		return elliptic.ByID(prefs[0])
	}
	offered := make(map[handshake.NamedCurve]struct{}, len(c.offeredCurves))
	for _, id := range c.offeredCurves {
		offered[id] = struct{}{}
	}
	for _, id := range prefs {
		if _, ok := offered[id]; ok {
			return elliptic.ByID(id)
		}
	}
	return nil, ErrUnsupportedCurve
}
