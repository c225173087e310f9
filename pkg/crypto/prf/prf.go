// Package prf implements the TLS 1.2 PRF (RFC 5246 Section-5) and the
// key-schedule derivations built on it: master secret (plain and
// extended, RFC 7627), key block expansion, and Finished verify_data.
// Ported from the teacher's dtlsPrf/GenerateSecurityParams
// (dtls_handshake.go), generalized to take a hash constructor instead of
// hardcoding SHA-256, and split into one function per derivation instead
// of duplicating GenerateClientVerifyData/GenerateServerVerifyData.
package prf

import (
	"crypto/hmac"
	"hash"
)

// PHash is the TLS 1.2 P_hash construction:
//
//	A(0) = seed
//	A(i) = HMAC(secret, A(i-1))
//	P_hash(secret, seed) = HMAC(secret, A(1)+seed) + HMAC(secret, A(2)+seed) + ...
//
// truncated to length bytes.
func PHash(secret, seed []byte, length int, newHash func() hash.Hash) []byte {
	out := make([]byte, 0, length)
	a := seed
	for len(out) < length {
		mac := hmac.New(newHash, secret)
		mac.Write(a)
		a = mac.Sum(nil)

		mac = hmac.New(newHash, secret)
		mac.Write(a)
		mac.Write(seed)
		out = append(out, mac.Sum(nil)...)
	}
	return out[:length]
}

// Prf computes PRF(secret, label, seed, length) = P_hash(secret,
// label||seed, length). Label and seed are concatenated once, per RFC
// 5246 Section-5's "label || seed" input form.
func Prf(secret []byte, label string, seed []byte, length int, newHash func() hash.Hash) []byte {
	return PHash(secret, append([]byte(label), seed...), length, newHash)
}

const (
	labelMasterSecret         = "master secret"
	labelExtendedMasterSecret = "extended master secret"
	labelKeyExpansion         = "key expansion"
	labelClientFinished       = "client finished"
	labelServerFinished       = "server finished"
)

// MasterSecret derives the 48-byte master secret from the premaster
// secret and both hello randoms (RFC 5246 Section-8.1).
func MasterSecret(premaster, clientRandom, serverRandom []byte, newHash func() hash.Hash) []byte {
	seed := append(append([]byte{}, clientRandom...), serverRandom...)
	return Prf(premaster, labelMasterSecret, seed, 48, newHash)
}

// ExtendedMasterSecret derives the master secret using the RFC 7627
// session-hash form: the seed is the hash of every handshake message up
// to and including the key-exchange messages, rather than the raw
// randoms. This is what makes two handshakes with identical randoms but
// different transcripts produce different master secrets (spec.md S4).
func ExtendedMasterSecret(premaster, sessionHash []byte, newHash func() hash.Hash) []byte {
	return Prf(premaster, labelExtendedMasterSecret, sessionHash, 48, newHash)
}

// KeyBlock expands the master secret into the six key-block slices in
// wire order: client_mac, server_mac, client_enc, server_enc, client_iv,
// server_iv (RFC 5246 Section-6.3). Seed order is server_random ||
// client_random, the reverse of MasterSecret's seed.
func KeyBlock(master, serverRandom, clientRandom []byte, macLen, keyLen, ivLen int, newHash func() hash.Hash) (clientMAC, serverMAC, clientKey, serverKey, clientIV, serverIV []byte) {
	seed := append(append([]byte{}, serverRandom...), clientRandom...)
	total := 2*macLen + 2*keyLen + 2*ivLen
	block := Prf(master, labelKeyExpansion, seed, total, newHash)

	off := 0
	clientMAC, off = block[off:off+macLen], off+macLen
	serverMAC, off = block[off:off+macLen], off+macLen
	clientKey, off = block[off:off+keyLen], off+keyLen
	serverKey, off = block[off:off+keyLen], off+keyLen
	clientIV, off = block[off:off+ivLen], off+ivLen
	serverIV = block[off : off+ivLen]
	return
}

// VerifyData computes the Finished message's 12-byte verify_data:
// PRF(master, label, Hash(handshake_messages), 12). label must be
// "client finished" or "server finished".
func VerifyData(master []byte, label string, handshakeHash []byte, newHash func() hash.Hash) []byte {
	return Prf(master, label, handshakeHash, 12, newHash)
}

// ClientFinishedLabel and ServerFinishedLabel name the two Finished
// directions, replacing the teacher's two near-duplicate
// GenerateClientVerifyData/GenerateServerVerifyData functions with one
// VerifyData taking a label.
const (
	ClientFinishedLabel = labelClientFinished
	ServerFinishedLabel = labelServerFinished
)
