package handshake

import "funahara/dtls/pkg/protocol"
import "encoding/binary"

// MessageHelloVerifyRequest is DTLS-only (RFC 6347 Section-4.2.1). It is
// never sent over TLS, so its wire shape has no TLS/DTLS split to track.
type MessageHelloVerifyRequest struct {
	Version protocol.Version
	Cookie  []byte
}

func (m *MessageHelloVerifyRequest) Type() MsgType { return TypeHelloVerifyRequest }

func (m *MessageHelloVerifyRequest) Marshal() ([]byte, error) {
	buf := make([]byte, 3+len(m.Cookie))
	binary.BigEndian.PutUint16(buf[0:2], uint16(m.Version))
	buf[2] = byte(len(m.Cookie))
	copy(buf[3:], m.Cookie)
	return buf, nil
}

func (m *MessageHelloVerifyRequest) Unmarshal(data []byte) error {
	if len(data) < 3 {
		return errBufferTooSmall
	}
	m.Version = protocol.Version(binary.BigEndian.Uint16(data[0:2]))
	cookieLen := int(data[2])
	if len(data) < 3+cookieLen {
		return errLengthMismatch
	}
	m.Cookie = append([]byte{}, data[3:3+cookieLen]...)
	return nil
}
