package handshake

// MessageServerKeyExchange's body layout varies by key-exchange suite
// (ECDH_anon: bare ECParameters + public point; ECDHE_ECDSA: the same
// plus a signature; ECDHE_PSK: a PSK identity hint prefix then the same
// ECParameters). The codec only guarantees bit-exact round-tripping of
// the opaque body; the root package's cipher_suite_*.go files own
// interpreting Raw per suite, using ECParameters (ecc.go) as shared
// substrate for the part
// every suite here has in common.
type MessageServerKeyExchange struct {
	Raw []byte
}

func (m *MessageServerKeyExchange) Type() MsgType { return TypeServerKeyExchange }

func (m *MessageServerKeyExchange) Marshal() ([]byte, error) {
	return append([]byte{}, m.Raw...), nil
}

func (m *MessageServerKeyExchange) Unmarshal(data []byte) error {
	m.Raw = append([]byte{}, data...)
	return nil
}
