package recordlayer

import "funahara/dtls/pkg/protocol"

// RecordLayer pairs a Header with its fragment. Fragment is whatever the
// caller handed the codec: plaintext for unprotected records, or the
// serialized GenericBlockCipher envelope once encryption is active. The
// codec has no opinion on which — that decision belongs to the record
// layer's read/write state, not to parsing.
type RecordLayer struct {
	Header   Header
	Fragment []byte
}

// Marshal serializes one record: header followed by fragment, with
// Header.Length filled in from len(Fragment).
func (r *RecordLayer) Marshal() ([]byte, error) {
	r.Header.Length = uint16(len(r.Fragment))
	head, err := r.Header.Marshal()
	if err != nil {
		return nil, err
	}
	return append(head, r.Fragment...), nil
}

// Unmarshal parses one record from the front of buf and returns the
// number of bytes consumed.
func (r *RecordLayer) Unmarshal(buf []byte, isDTLS bool) (int, error) {
	n, err := r.Header.Unmarshal(buf, isDTLS)
	if err != nil {
		return 0, err
	}
	if len(buf) < n+int(r.Header.Length) {
		return 0, protocol.ErrLengthMismatch
	}
	r.Fragment = buf[n : n+int(r.Header.Length)]
	return n + int(r.Header.Length), nil
}

// UnmarshalDatagram splits a datagram (DTLS) or stream chunk (TLS) into
// its constituent records. Multiple records may be concatenated in a
// single read, per spec.
func UnmarshalDatagram(buf []byte, isDTLS bool) ([]*RecordLayer, error) {
	var records []*RecordLayer
	for len(buf) > 0 {
		r := &RecordLayer{}
		n, err := r.Unmarshal(buf, isDTLS)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
		buf = buf[n:]
	}
	return records, nil
}

// BuildDatagram concatenates records back into wire bytes.
func BuildDatagram(records []*RecordLayer) ([]byte, error) {
	var out []byte
	for _, r := range records {
		b, err := r.Marshal()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}
