package dtls

import (
	"crypto/tls"
	"encoding/json"
	"os"
	"time"

	"github.com/pion/logging"

	"funahara/dtls/pkg/protocol"
	"funahara/dtls/pkg/protocol/handshake"
)

// Role distinguishes which side of the handshake a Conn plays; the flow
// is ClientHello-first-regardless, but who generates it and who picks
// the cipher suite differs (component E).
type Role uint8

const (
	RoleClient Role = iota
	RoleServer
)

// PSKCallback resolves a PSK identity (sent in cleartext in
// ClientKeyExchange/ServerKeyExchange per RFC 4279) to the shared key.
// Returning a nil key is treated as ErrNoPSKIdentity.
type PSKCallback func(identity []byte) ([]byte, error)

// Config mirrors the teacher's inventoryd.Config JSON-tagged settings
// struct (inventoryd.go), generalized from "one PSK pulled from a file"
// to the full negotiation surface spec.md §6/§8 needs: cipher suite
// preference, supported curves, version bounds, PSK lookup, and the
// certificate ECDHE_ECDSA signs with.
type Config struct {
	// Roster of suites this side will offer/accept, in preference
	// order. Defaults to DefaultCipherSuites().
	CipherSuites []CipherSuiteID `json:"cipher_suites,omitempty"`

	// Curves this side will offer/accept, in preference order.
	// Defaults to elliptic.Supported().
	Curves []handshake.NamedCurve `json:"curves,omitempty"`

	// MinVersion/MaxVersion bound the protocol version this side will
	// negotiate (spec.md S4.E: "negotiated version = min(peer_max,
	// local_max); fail with ProtocolVersion if < local_min"). Either a
	// TLS-scale or DTLS-scale protocol.Version works here; Translate
	// maps it onto the connection's actual transport family. Zero means
	// "only the version this module implements" (TLS 1.2 / DTLS 1.2).
	MinVersion protocol.Version `json:"min_version,omitempty"`
	MaxVersion protocol.Version `json:"max_version,omitempty"`

	// PSK resolves identities for ECDHE_PSK. Required if that suite is
	// enabled on either side.
	PSK             PSKCallback `json:"-"`
	PSKIdentity     []byte      `json:"-"` // client: identity to send
	PSKIdentityHint []byte      `json:"psk_identity_hint,omitempty"`

	// Certificate signs ServerKeyExchange for ECDHE_ECDSA. Required on
	// the server side if that suite is enabled.
	Certificate *tls.Certificate `json:"-"`

	// ExtendedMasterSecret controls whether this side offers/requires
	// RFC 7627 (spec.md S4). When true and the peer does not offer it,
	// behavior is governed by RequireExtendedMasterSecret.
	ExtendedMasterSecret        bool `json:"extended_master_secret"`
	RequireExtendedMasterSecret bool `json:"require_extended_master_secret"`

	// CookieSecret seeds the stateless HMAC cookie (cookie.go, spec.md
	// S3). A server Config generates a random one if empty.
	CookieSecret []byte `json:"-"`

	// HandshakeTimeout bounds the whole handshake run by Dial, Client,
	// and Server, mirroring the teacher's fixed 5-second dial timeout
	// (dtls.go:DtlsDial) but configurable rather than hardcoded.
	// Handshakes of connections accepted through Listen are not bounded
	// by it.
	HandshakeTimeout time.Duration `json:"handshake_timeout"`

	LoggerFactory logging.LoggerFactory `json:"-"`
}

// defaultHandshakeTimeout matches the teacher's DtlsDial default.
const defaultHandshakeTimeout = 5 * time.Second

func (c *Config) cipherSuites() []CipherSuiteID {
	if len(c.CipherSuites) > 0 {
		return c.CipherSuites
	}
	return DefaultCipherSuites()
}

func (c *Config) handshakeTimeout() time.Duration {
	if c.HandshakeTimeout > 0 {
		return c.HandshakeTimeout
	}
	return defaultHandshakeTimeout
}

func (c *Config) loggerFactory() logging.LoggerFactory {
	if c.LoggerFactory != nil {
		return c.LoggerFactory
	}
	return logging.NewDefaultLoggerFactory()
}

// minVersion/maxVersion resolve the configured bound to the given
// transport's family, defaulting to this module's one supported
// version (initialVersion) when unset.
func (c *Config) minVersion(isDTLS bool) protocol.Version {
	if c.MinVersion == 0 {
		return initialVersion(isDTLS)
	}
	return protocol.Translate(c.MinVersion, isDTLS)
}

func (c *Config) maxVersion(isDTLS bool) protocol.Version {
	if c.MaxVersion == 0 {
		return initialVersion(isDTLS)
	}
	return protocol.Translate(c.MaxVersion, isDTLS)
}

// fileConfig is the on-disk JSON shape, grounded on the teacher's
// LoadInventorydConfig (inventoryd.go): encoding/json over an
// io.Reader, no third-party config library, same as the teacher.
type fileConfig struct {
	CipherSuites                []uint16 `json:"cipher_suites,omitempty"`
	PSKIdentityHint             string   `json:"psk_identity_hint,omitempty"`
	ExtendedMasterSecret        bool     `json:"extended_master_secret"`
	RequireExtendedMasterSecret bool     `json:"require_extended_master_secret"`
	HandshakeTimeoutSeconds     int      `json:"handshake_timeout_seconds"`
	MinVersion                  uint16   `json:"min_version,omitempty"`
	MaxVersion                  uint16   `json:"max_version,omitempty"`
}

// LoadConfig reads the JSON subset of Config that is safe to persist
// (no PSK callback, no certificate, no in-memory secrets), the same
// split the teacher's main.go makes between file-provided settings and
// runtime-provided ones.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fc fileConfig
	if err := json.NewDecoder(f).Decode(&fc); err != nil {
		return nil, err
	}

	c := &Config{
		ExtendedMasterSecret:        fc.ExtendedMasterSecret,
		RequireExtendedMasterSecret: fc.RequireExtendedMasterSecret,
		PSKIdentityHint:             []byte(fc.PSKIdentityHint),
		HandshakeTimeout:            time.Duration(fc.HandshakeTimeoutSeconds) * time.Second,
		MinVersion:                  protocol.Version(fc.MinVersion),
		MaxVersion:                  protocol.Version(fc.MaxVersion),
	}
	for _, id := range fc.CipherSuites {
		c.CipherSuites = append(c.CipherSuites, CipherSuiteID(id))
	}
	return c, nil
}
