package handshake

// VerifyDataLength is the fixed size of the Finished verify_data (RFC
// 5246 Section-7.4.9): 12 bytes for the PRF hashes this module supports.
const VerifyDataLength = 12

// MessageFinished carries the PRF-derived verify_data. The codec does
// not compute or check verify_data — that belongs to the key schedule
// and handshake engine, which is why this type is a plain byte carrier.
type MessageFinished struct {
	VerifyData []byte
}

func (m *MessageFinished) Type() MsgType { return TypeFinished }

func (m *MessageFinished) Marshal() ([]byte, error) {
	return append([]byte{}, m.VerifyData...), nil
}

func (m *MessageFinished) Unmarshal(data []byte) error {
	if len(data) < VerifyDataLength {
		return errBufferTooSmall
	}
	m.VerifyData = append([]byte{}, data[:VerifyDataLength]...)
	return nil
}
