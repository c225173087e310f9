package dtls

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/binary"

	"funahara/dtls/pkg/crypto/elliptic"
	"funahara/dtls/pkg/protocol/handshake"
)

// signatureHashSHA256ECDSA is the SignatureAndHashAlgorithm pair (RFC
// 5246 Section-7.4.1.4.1) this module signs ServerKeyExchange with:
// hash=sha256(4), signature=ecdsa(3). The source and spec.md both scope
// out client CertificateVerify and full signature_algorithms
// negotiation, so one fixed pair is all this suite ever uses.
var signatureHashSHA256ECDSA = [2]byte{4, 3}

// cipherSuiteECDHEECDSA implements
// TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA256 (RFC 4492 Section-2): an
// ephemeral ECDH exchange authenticated by the server signing its
// ECParameters with the certificate's ECDSA key.
type cipherSuiteECDHEECDSA struct {
	aes128cbcSHA256
}

func (cipherSuiteECDHEECDSA) ID() CipherSuiteID { return TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA256 }
func (cipherSuiteECDHEECDSA) KeyExchangeAlgorithm() KeyExchangeAlgorithm {
	return KeyExchangeECDHEECDSA
}

func (cipherSuiteECDHEECDSA) BuildClientHelloExtensions(c *state) ([]handshake.Extension, error) {
	return ellipticCurvesExtension(c.config.Curves), nil
}

// signedParams is client_random || server_random || ECParameters, the
// exact bytes RFC 4492 Section-5.4 says the server signs.
func signedParams(c *state, params []byte) []byte {
	buf := make([]byte, 0, 64+len(params))
	buf = append(buf, c.clientRandom[:]...)
	buf = append(buf, c.serverRandom[:]...)
	buf = append(buf, params...)
	return buf
}

// BuildServerKeyExchange generates the ephemeral keypair, then signs
// client_random||server_random||ECParameters with the configured
// certificate's ECDSA private key and appends
// {SignatureAndHashAlgorithm, signature<u16>}.
func (cipherSuiteECDHEECDSA) BuildServerKeyExchange(c *state) ([]byte, error) {
	if c.config.Certificate == nil {
		return nil, ErrNoCertificate
	}
	priv, ok := c.config.Certificate.PrivateKey.(*ecdsa.PrivateKey)
	if !ok {
		return nil, ErrNoCertificate
	}

	curve, err := pickCurve(c)
	if err != nil {
		return nil, err
	}
	ecPriv, ecPub, err := curve.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	c.curve = curve
	c.curveID = curve.ID()
	c.ecPriv = ecPriv
	c.ecPub = ecPub

	params := handshake.ECParameters{
		CurveType:  handshake.ECCurveTypeNamedCurve,
		NamedCurve: curve.ID(),
		PublicKey:  ecPub,
	}
	paramsBytes := params.Marshal()

	digest := sha256.Sum256(signedParams(c, paramsBytes))
	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest[:])
	if err != nil {
		return nil, err
	}

	out := append([]byte{}, paramsBytes...)
	out = append(out, signatureHashSHA256ECDSA[:]...)
	var sigLen [2]byte
	binary.BigEndian.PutUint16(sigLen[:], uint16(len(sig)))
	out = append(out, sigLen[:]...)
	out = append(out, sig...)
	return out, nil
}

// ProcessServerKeyExchange parses ECParameters, verifies the trailing
// signature against the configured peer certificate, and stores the
// curve/public point for premaster computation. A signature that does
// not verify returns ErrBadSignature and a missing or non-ECDSA
// certificate ErrNoCertificate; truncated input, an unknown curve, or
// malformed ECParameters fail with their own errors.
func (cipherSuiteECDHEECDSA) ProcessServerKeyExchange(c *state, raw []byte) error {
	var params handshake.ECParameters
	n, err := params.Unmarshal(raw)
	if err != nil {
		return err
	}
	curve, err := elliptic.ByID(params.NamedCurve)
	if err != nil {
		return ErrUnsupportedCurve
	}

	rest := raw[n:]
	if len(rest) < 4 {
		return ErrMalformedRecord
	}
	sigLen := int(binary.BigEndian.Uint16(rest[2:4]))
	if len(rest) < 4+sigLen {
		return ErrMalformedRecord
	}
	sig := rest[4 : 4+sigLen]

	if c.config.Certificate == nil || len(c.config.Certificate.Certificate) == 0 {
		return ErrNoCertificate
	}
	leaf, err := x509.ParseCertificate(c.config.Certificate.Certificate[0])
	if err != nil {
		return ErrNoCertificate
	}
	pub, ok := leaf.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return ErrNoCertificate
	}

	digest := sha256.Sum256(signedParams(c, raw[:n]))
	if !ecdsa.VerifyASN1(pub, digest[:], sig) {
		return ErrBadSignature
	}

	c.curve = curve
	c.curveID = params.NamedCurve
	c.peerECPub = params.PublicKey
	return nil
}

func (cipherSuiteECDHEECDSA) BuildClientKeyExchange(c *state) ([]byte, error) {
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

func (cipherSuiteECDHEECDSA) ProcessClientKeyExchange(c *state, raw []byte) error {
	var params handshake.ECParameters
	if _, err := params.Unmarshal(raw); err != nil {
		return err
	}
	c.peerECPub = params.PublicKey
	return nil
}

func (cipherSuiteECDHEECDSA) ComputePremaster(c *state) ([]byte, error) {
	return c.curve.Agree(c.ecPriv, c.peerECPub)
}
