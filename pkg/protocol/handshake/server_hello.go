package handshake

import (
	"encoding/binary"

	"funahara/dtls/pkg/protocol"
)

// MessageServerHello is RFC 5246 Section-7.4.1.3. Its wire shape is
// identical between TLS and DTLS (no cookie field here — that is
// ClientHello/HelloVerifyRequest-only).
type MessageServerHello struct {
	Version           protocol.Version
	Random            Random
	SessionID         []byte
	CipherSuite       uint16
	CompressionMethod byte
	Extensions        []Extension
}

func (m *MessageServerHello) Type() MsgType { return TypeServerHello }

func (m *MessageServerHello) Marshal() ([]byte, error) {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf[0:2], uint16(m.Version))
	buf = append(buf, m.Random.Marshal()...)
	buf = append(buf, byte(len(m.SessionID)))
	buf = append(buf, m.SessionID...)
	suite := make([]byte, 2)
	binary.BigEndian.PutUint16(suite, m.CipherSuite)
	buf = append(buf, suite...)
	buf = append(buf, m.CompressionMethod)
	buf = append(buf, MarshalExtensions(m.Extensions)...)
	return buf, nil
}

func (m *MessageServerHello) Unmarshal(data []byte) error {
	if len(data) < 2+RandomLength+1 {
		return errBufferTooSmall
	}
	m.Version = protocol.Version(binary.BigEndian.Uint16(data[0:2]))
	if err := m.Random.Unmarshal(data[2 : 2+RandomLength]); err != nil {
		return err
	}
	offset := 2 + RandomLength

	sessIDLen := int(data[offset])
	offset++
	if len(data) < offset+sessIDLen+3 {
		return errLengthMismatch
	}
	m.SessionID = append([]byte{}, data[offset:offset+sessIDLen]...)
	offset += sessIDLen

	m.CipherSuite = binary.BigEndian.Uint16(data[offset : offset+2])
	offset += 2
	m.CompressionMethod = data[offset]
	offset++

	exts, _, err := UnmarshalExtensions(data[offset:])
	if err != nil {
		return err
	}
	m.Extensions = exts
	return nil
}
