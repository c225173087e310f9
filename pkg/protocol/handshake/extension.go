package handshake

import "encoding/binary"

// ExtensionType identifies an extension's Data layout. Only the two
// extensions this module's cipher suites need are given names; anything
// else round-trips as an opaque Extension.
type ExtensionType uint16

const (
	ExtensionEllipticCurves      ExtensionType = 10
	ExtensionExtendedMasterSecret ExtensionType = 23
)

// Extension is {Type uint16, Data opaque<u16>} (RFC 5246 Section-7.4.1.4).
type Extension struct {
	Type ExtensionType
	Data []byte
}

func (e *Extension) Marshal() []byte {
	buf := make([]byte, 4+len(e.Data))
	binary.BigEndian.PutUint16(buf[0:2], uint16(e.Type))
	binary.BigEndian.PutUint16(buf[2:4], uint16(len(e.Data)))
	copy(buf[4:], e.Data)
	return buf
}

func (e *Extension) Unmarshal(buf []byte) (int, error) {
	if len(buf) < 4 {
		return 0, errBufferTooSmall
	}
	e.Type = ExtensionType(binary.BigEndian.Uint16(buf[0:2]))
	length := int(binary.BigEndian.Uint16(buf[2:4]))
	if len(buf) < 4+length {
		return 0, errLengthMismatch
	}
	e.Data = append([]byte{}, buf[4:4+length]...)
	return 4 + length, nil
}

// MarshalExtensions renders a full {Extensions opaque<u16>} list,
// including its own outer 2-byte length prefix.
func MarshalExtensions(exts []Extension) []byte {
	var body []byte
	for i := range exts {
		body = append(body, exts[i].Marshal()...)
	}
	out := make([]byte, 2+len(body))
	binary.BigEndian.PutUint16(out[0:2], uint16(len(body)))
	copy(out[2:], body)
	return out
}

// UnmarshalExtensions parses a length-prefixed extension list and
// returns the number of bytes consumed, including the length prefix. An
// empty remaining buffer (no extensions present at all) is valid.
func UnmarshalExtensions(buf []byte) ([]Extension, int, error) {
	if len(buf) == 0 {
		return nil, 0, nil
	}
	if len(buf) < 2 {
		return nil, 0, errBufferTooSmall
	}
	total := int(binary.BigEndian.Uint16(buf[0:2]))
	if len(buf) < 2+total {
		return nil, 0, errLengthMismatch
	}
	body := buf[2 : 2+total]
	var exts []Extension
	for len(body) > 0 {
		var e Extension
		n, err := e.Unmarshal(body)
		if err != nil {
			return nil, 0, err
		}
		exts = append(exts, e)
		body = body[n:]
	}
	return exts, 2 + total, nil
}

// FindExtension returns the first extension of the given type, if any.
func FindExtension(exts []Extension, t ExtensionType) (Extension, bool) {
	for _, e := range exts {
		if e.Type == t {
			return e, true
		}
	}
	return Extension{}, false
}
