package dtls

import (
	"net"

	"funahara/dtls/pkg/crypto/elliptic"
	"funahara/dtls/pkg/crypto/prf"
	"funahara/dtls/pkg/protocol"
	"funahara/dtls/pkg/protocol/handshake"
)

// handshakeStep names where a connection is in the linear flow spec.md
// §3/§9 describes. runHandshake (handshaker.go) records only the
// terminal steps, stepConnected and stepErrored; the flows in
// flight_client.go/flight_server.go advance by call order and do not
// set or switch on the intermediate steps.
type handshakeStep uint8

const (
	stepStart handshakeStep = iota
	stepWaitHelloVerifyRequest
	stepWaitServerHello
	stepWaitServerKeyExchange
	stepWaitServerHelloDone
	stepWaitChangeCipherSpec
	stepWaitFinished
	stepConnected
	stepErrored
)

// cipherState holds one direction's record-layer key material, derived
// once per epoch from the key block (spec.md §4.C). Destroy zeroizes
// the encryption key; the MAC key is not secret-sensitive in the same
// way but is cleared alongside it for uniformity.
type cipherState struct {
	macKey prf.Secret
	key    prf.Secret
	iv     []byte
}

func (c *cipherState) destroy() {
	c.macKey.Destroy()
	c.key.Destroy()
	c.iv = nil
}

// state is the per-connection aggregate spec.md §3 calls the
// connection's state: handshake progress, negotiated parameters, key
// material, and the epoch/sequence counters the record layer reads
// directly. One state backs one Conn; the Manager (manager.go) owns
// the peerAddr -> *Conn -> *state chain.
type state struct {
	role    Role
	config  *Config
	isDTLS  bool
	peer    net.Addr

	step handshakeStep

	version     protocol.Version
	suite       CipherSuite
	suiteID     CipherSuiteID
	curve       elliptic.Curve
	curveID     handshake.NamedCurve
	offeredCurves []handshake.NamedCurve // server only: client's elliptic_curves extension
	extendedMasterSecret bool

	clientRandom handshake.Random
	serverRandom handshake.Random
	sessionID    []byte
	cookie       []byte

	ecPriv     []byte
	ecPub      []byte
	peerECPub  []byte

	pskIdentity     []byte
	pskIdentityHint []byte

	premaster prf.Secret
	master    prf.Secret

	handshakeHash *handshakeHash

	readEpoch  uint16
	writeEpoch uint16
	readSeq    uint64 // next expected sequence in readEpoch (I1/I2)
	writeSeq   uint64

	readMessageSeq  uint16
	writeMessageSeq uint16

	read  cipherState
	write cipherState

	readEncrypted  bool
	writeEncrypted bool
}

func newState(role Role, cfg *Config, isDTLS bool, peer net.Addr) *state {
	return &state{
		role:          role,
		config:        cfg,
		isDTLS:        isDTLS,
		peer:          peer,
		step:          stepStart,
		handshakeHash: newHandshakeHash(),
	}
}

// installKeys derives the six-way key block from the master secret and
// sets up both cipher directions, generalizing the teacher's
// GenerateSecurityParams (dtls_handshake.go) from a single 40-byte CCM
// block to CBC's mac/key/iv layout (spec.md §4.C).
func (s *state) installKeys() {
	macLen := s.suite.MACLen()
	keyLen := s.suite.KeyLen()
	const ivLen = 16 // AES block size; every required suite is AES-128

	clientMAC, serverMAC, clientKey, serverKey, clientIV, serverIV := prf.KeyBlock(
		s.master, s.serverRandom[:], s.clientRandom[:], macLen, keyLen, ivLen, s.suite.NewHash())

	var localMAC, remoteMAC, localKey, remoteKey, localIV, remoteIV []byte
	if s.role == RoleClient {
		localMAC, remoteMAC = clientMAC, serverMAC
		localKey, remoteKey = clientKey, serverKey
		localIV, remoteIV = clientIV, serverIV
	} else {
		localMAC, remoteMAC = serverMAC, clientMAC
		localKey, remoteKey = serverKey, clientKey
		localIV, remoteIV = serverIV, clientIV
	}

	s.write = cipherState{macKey: prf.Secret(localMAC), key: prf.Secret(localKey), iv: localIV}
	s.read = cipherState{macKey: prf.Secret(remoteMAC), key: prf.Secret(remoteKey), iv: remoteIV}
}

// sessionHash returns the running hash of every handshake message sent
// or received so far, the session_hash RFC 7627 Section-4 feeds into
// ExtendedMasterSecret.
func (s *state) sessionHash() []byte {
	return s.handshakeHash.Sum()
}
