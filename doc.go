// Package dtls implements a DTLS 1.2 (RFC 6347) and TLS 1.2 (RFC 5246)
// connection: record layer framing and encryption, the handshake state
// machine for ECDH_anon, ECDHE_ECDSA, and ECDHE_PSK key exchange, and
// the connection manager that demultiplexes a shared UDP socket by
// peer address.
//
// Session resumption, renegotiation, DTLS/TLS 1.3, AEAD cipher suites,
// client certificate authentication, and handshake
// fragmentation/retransmission across the PMTU are out of scope; see
// DESIGN.md for the reasoning behind each.
package dtls
