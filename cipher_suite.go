package dtls

import (
	"crypto/sha256"
	"hash"

	"funahara/dtls/pkg/crypto/ciphersuite"
	"funahara/dtls/pkg/protocol/handshake"
)

// CipherSuiteID is the IANA-registered two-byte cipher suite
// identifier (spec.md §6).
type CipherSuiteID uint16

const (
	TLS_ECDH_anon_WITH_AES_128_CBC_SHA256   CipherSuiteID = 0xc018
	TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA256 CipherSuiteID = 0xc023
	TLS_ECDHE_PSK_WITH_AES_128_CBC_SHA256   CipherSuiteID = 0xc037
)

// KeyExchangeAlgorithm names the three key-exchange families spec.md
// §4.E describes. Dispatch on this (not on CipherSuiteID directly) is
// what lets the three suites below share flight-construction code.
type KeyExchangeAlgorithm uint8

const (
	KeyExchangeECDHAnon KeyExchangeAlgorithm = iota
	KeyExchangeECDHEECDSA
	KeyExchangeECDHEPSK
)

// CipherSuite is the fixed capability set spec.md's design notes call
// for in place of the source's dynamic method-name dispatch: one
// implementation per suite, selected once at negotiation time and then
// called through this interface for the rest of the handshake.
type CipherSuite interface {
	ID() CipherSuiteID
	KeyExchangeAlgorithm() KeyExchangeAlgorithm
	NewHash() func() hash.Hash
	KeyLen() int
	MACLen() int
	CBC() ciphersuite.CBC

	// BuildClientHelloExtensions contributes this suite's required
	// extensions (elliptic_curves for all three; extended_master_secret
	// is offered independently of the suite, by the connection).
	BuildClientHelloExtensions(c *state) ([]handshake.Extension, error)

	BuildServerKeyExchange(c *state) ([]byte, error)
	ProcessServerKeyExchange(c *state, raw []byte) error
	BuildClientKeyExchange(c *state) ([]byte, error)
	ProcessClientKeyExchange(c *state, raw []byte) error
	ComputePremaster(c *state) ([]byte, error)
}

func newSHA256() hash.Hash { return sha256.New() }

var cipherSuiteRegistry = map[CipherSuiteID]func() CipherSuite{
	TLS_ECDH_anon_WITH_AES_128_CBC_SHA256:   func() CipherSuite { return &cipherSuiteECDHAnon{} },
	TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA256: func() CipherSuite { return &cipherSuiteECDHEECDSA{} },
	TLS_ECDHE_PSK_WITH_AES_128_CBC_SHA256:   func() CipherSuite { return &cipherSuiteECDHEPSK{} },
}

// NewCipherSuite instantiates the CipherSuite implementation for id, or
// ErrUnsupportedCipher if id is not one of the three registered suites
// (spec.md's AEAD non-goal and "restrict the cipher list" design note).
func NewCipherSuite(id CipherSuiteID) (CipherSuite, error) {
	ctor, ok := cipherSuiteRegistry[id]
	if !ok {
		return nil, ErrUnsupportedCipher
	}
	return ctor(), nil
}

// DefaultCipherSuites is the server-preference order used when Config
// does not specify one.
func DefaultCipherSuites() []CipherSuiteID {
	return []CipherSuiteID{
		TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA256,
		TLS_ECDHE_PSK_WITH_AES_128_CBC_SHA256,
		TLS_ECDH_anon_WITH_AES_128_CBC_SHA256,
	}
}

// aes128cbcSHA256 factors out the shared CBC() implementation (AES-128
// key, HMAC-SHA256 MAC) every one of the three required suites uses.
type aes128cbcSHA256 struct{}

func (aes128cbcSHA256) NewHash() func() hash.Hash { return newSHA256 }
func (aes128cbcSHA256) KeyLen() int               { return 16 }
func (aes128cbcSHA256) MACLen() int               { return 32 }
func (aes128cbcSHA256) CBC() ciphersuite.CBC {
	return ciphersuite.CBC{NewHash: newSHA256, MACLen: 32}
}
