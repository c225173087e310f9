package handshake

// Message is the body carried after a Header: one concrete type per
// MsgType. Dispatch is by an explicit table (newMessageBody below), not
// by reflection over the enum name — see design note on replacing
// runtime reflection with an explicit table.
type Message interface {
	Type() MsgType
	Marshal() ([]byte, error)
	Unmarshal(data []byte) error
}

func newMessageBody(t MsgType) (Message, error) {
	switch t {
	case TypeClientHello:
		return &MessageClientHello{}, nil
	case TypeServerHello:
		return &MessageServerHello{}, nil
	case TypeHelloVerifyRequest:
		return &MessageHelloVerifyRequest{}, nil
	case TypeServerKeyExchange:
		return &MessageServerKeyExchange{}, nil
	case TypeServerHelloDone:
		return &MessageServerHelloDone{}, nil
	case TypeClientKeyExchange:
		return &MessageClientKeyExchange{}, nil
	case TypeFinished:
		return &MessageFinished{}, nil
	default:
		return nil, errInvalidMessageType
	}
}

// Handshake pairs a Header with its parsed Message.
type Handshake struct {
	Header  Header
	Message Message
}

// Marshal serializes the handshake fragment. messageSeq is the
// per-direction DTLS message counter (spec.md's message_seq); it is
// ignored for TLS.
func (h *Handshake) Marshal(isDTLS bool, messageSeq uint16) ([]byte, error) {
	body, err := h.Message.Marshal()
	if err != nil {
		return nil, err
	}
	h.Header.Type = h.Message.Type()
	h.Header.Length = uint32(len(body))
	h.Header.MessageSeq = messageSeq
	h.Header.FragmentOffset = 0
	h.Header.FragmentLength = uint32(len(body))
	head, err := h.Header.Marshal(isDTLS)
	if err != nil {
		return nil, err
	}
	return append(head, body...), nil
}

// Unmarshal parses a handshake fragment and returns bytes consumed.
func (h *Handshake) Unmarshal(buf []byte, isDTLS bool) (int, error) {
	n, err := h.Header.Unmarshal(buf, isDTLS)
	if err != nil {
		return 0, err
	}
	if len(buf) < n+int(h.Header.Length) {
		return 0, errLengthMismatch
	}
	msg, err := newMessageBody(h.Header.Type)
	if err != nil {
		return 0, err
	}
	if ch, ok := msg.(*MessageClientHello); ok {
		ch.IsDTLS = isDTLS
	}
	if err := msg.Unmarshal(buf[n : n+int(h.Header.Length)]); err != nil {
		return 0, err
	}
	h.Message = msg
	return n + int(h.Header.Length), nil
}
