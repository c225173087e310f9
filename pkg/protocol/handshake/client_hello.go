package handshake

import (
	"encoding/binary"

	"funahara/dtls/pkg/protocol"
)

// MessageClientHello is RFC 5246 Section-7.4.1.2, with the DTLS cookie
// field (RFC 6347 Section-4.2.2) present only when IsDTLS is set. IsDTLS
// must be assigned by the caller before Marshal; Handshake.Unmarshal
// assigns it from the record layer's known transport before dispatch,
// since the wire shape is the one place ClientHello differs by version.
type MessageClientHello struct {
	IsDTLS             bool
	Version            protocol.Version
	Random             Random
	SessionID          []byte
	Cookie             []byte // DTLS only
	CipherSuites       []uint16
	CompressionMethods []byte
	Extensions         []Extension
}

func (m *MessageClientHello) Type() MsgType { return TypeClientHello }

func (m *MessageClientHello) Marshal() ([]byte, error) {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf[0:2], uint16(m.Version))
	buf = append(buf, m.Random.Marshal()...)
	buf = append(buf, byte(len(m.SessionID)))
	buf = append(buf, m.SessionID...)
	if m.IsDTLS {
		buf = append(buf, byte(len(m.Cookie)))
		buf = append(buf, m.Cookie...)
	}
	suites := make([]byte, 2+2*len(m.CipherSuites))
	binary.BigEndian.PutUint16(suites[0:2], uint16(2*len(m.CipherSuites)))
	for i, cs := range m.CipherSuites {
		binary.BigEndian.PutUint16(suites[2+2*i:4+2*i], cs)
	}
	buf = append(buf, suites...)
	buf = append(buf, byte(len(m.CompressionMethods)))
	buf = append(buf, m.CompressionMethods...)
	buf = append(buf, MarshalExtensions(m.Extensions)...)
	return buf, nil
}

func (m *MessageClientHello) Unmarshal(data []byte) error {
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
	if len(data) < offset+sessIDLen {
		return errLengthMismatch
	}
	m.SessionID = append([]byte{}, data[offset:offset+sessIDLen]...)
	offset += sessIDLen

	if m.IsDTLS {
		if len(data) < offset+1 {
			return errBufferTooSmall
		}
		cookieLen := int(data[offset])
		offset++
		if len(data) < offset+cookieLen {
			return errLengthMismatch
		}
		m.Cookie = append([]byte{}, data[offset:offset+cookieLen]...)
		offset += cookieLen
	}

	if len(data) < offset+2 {
		return errBufferTooSmall
	}
	suitesLen := int(binary.BigEndian.Uint16(data[offset : offset+2]))
	offset += 2
	if len(data) < offset+suitesLen {
		return errLengthMismatch
	}
	m.CipherSuites = nil
	for i := 0; i < suitesLen; i += 2 {
		m.CipherSuites = append(m.CipherSuites, binary.BigEndian.Uint16(data[offset+i:offset+i+2]))
	}
	offset += suitesLen

	if len(data) < offset+1 {
		return errBufferTooSmall
	}
	compLen := int(data[offset])
	offset++
	if len(data) < offset+compLen {
		return errLengthMismatch
	}
	m.CompressionMethods = append([]byte{}, data[offset:offset+compLen]...)
	offset += compLen

	exts, n, err := UnmarshalExtensions(data[offset:])
	if err != nil {
		return err
	}
	m.Extensions = exts
	_ = n
	return nil
}
