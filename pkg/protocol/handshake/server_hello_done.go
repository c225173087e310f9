package handshake

// MessageServerHelloDone has an empty body (RFC 5246 Section-7.4.5).
type MessageServerHelloDone struct{}

func (m *MessageServerHelloDone) Type() MsgType { return TypeServerHelloDone }

func (m *MessageServerHelloDone) Marshal() ([]byte, error) { return []byte{}, nil }

func (m *MessageServerHelloDone) Unmarshal(data []byte) error { return nil }
