package handshake

// MessageClientKeyExchange mirrors MessageServerKeyExchange: an opaque
// body whose shape (ECParameters carrying the public point, or a PSK
// identity followed by them) is interpreted per cipher suite by the
// root package's cipher_suite_*.go implementations.
type MessageClientKeyExchange struct {
	Raw []byte
}

func (m *MessageClientKeyExchange) Type() MsgType { return TypeClientKeyExchange }

func (m *MessageClientKeyExchange) Marshal() ([]byte, error) {
	return append([]byte{}, m.Raw...), nil
}

func (m *MessageClientKeyExchange) Unmarshal(data []byte) error {
	m.Raw = append([]byte{}, data...)
	return nil
}
