// Package recordlayer implements the record header and the
// MAC-then-encrypt ciphertext envelope (RFC 5246 Section-6.2,
// RFC 6347 Section-4.1). It performs no encryption itself; that lives in
// pkg/crypto/ciphersuite, which consumes the Header fields to build the
// AAD-equivalent MAC input.
package recordlayer

import (
	"encoding/binary"

	"funahara/dtls/pkg/protocol"
)

// HeaderSize is the on-wire header length for DTLS; TLS omits Epoch and
// the explicit SequenceNumber, shrinking it to headerSizeTLS.
const (
	HeaderSize    = 13
	headerSizeTLS = 5
)

// Header is the per-record framing: {ContentType, Version, [Epoch,
// SequenceNumber,] Length}. DTLS carries Epoch and a 48-bit
// SequenceNumber on the wire; TLS carries neither — SequenceNumber there
// is an implicit 64-bit counter known only to sender and receiver, used
// for MAC computation but never transmitted.
type Header struct {
	ContentType    protocol.ContentType
	Version        protocol.Version
	Epoch          uint16
	SequenceNumber uint64 // low 48 bits significant on the DTLS wire
	Length         uint16
}

// Marshal renders the header. For TLS records Epoch/SequenceNumber are
// not emitted; callers still pass the logical sequence number so MAC
// computation elsewhere has it available.
func (h *Header) Marshal() ([]byte, error) {
	if h.Version.IsDTLS() {
		buf := make([]byte, HeaderSize)
		buf[0] = byte(h.ContentType)
		binary.BigEndian.PutUint16(buf[1:3], uint16(h.Version))
		binary.BigEndian.PutUint16(buf[3:5], h.Epoch)
		putUint48(buf[5:11], h.SequenceNumber)
		binary.BigEndian.PutUint16(buf[11:13], h.Length)
		return buf, nil
	}
	buf := make([]byte, headerSizeTLS)
	buf[0] = byte(h.ContentType)
	binary.BigEndian.PutUint16(buf[1:3], uint16(h.Version))
	binary.BigEndian.PutUint16(buf[3:5], h.Length)
	return buf, nil
}

// Unmarshal parses a header in-place. isDTLS must be known up front (the
// caller tracks it per connection); the version field alone cannot
// disambiguate a truncated buffer reliably.
func (h *Header) Unmarshal(buf []byte, isDTLS bool) (int, error) {
	if isDTLS {
		if len(buf) < HeaderSize {
			return 0, protocol.ErrBufferTooSmall
		}
		h.ContentType = protocol.ContentType(buf[0])
		h.Version = protocol.Version(binary.BigEndian.Uint16(buf[1:3]))
		h.Epoch = binary.BigEndian.Uint16(buf[3:5])
		h.SequenceNumber = uint48(buf[5:11])
		h.Length = binary.BigEndian.Uint16(buf[11:13])
		return HeaderSize, nil
	}
	if len(buf) < headerSizeTLS {
		return 0, protocol.ErrBufferTooSmall
	}
	h.ContentType = protocol.ContentType(buf[0])
	h.Version = protocol.Version(binary.BigEndian.Uint16(buf[1:3]))
	h.Epoch = 0
	h.Length = binary.BigEndian.Uint16(buf[3:5])
	return headerSizeTLS, nil
}

// Size returns the on-wire header length for this header's version.
func (h *Header) Size() int {
	if h.Version.IsDTLS() {
		return HeaderSize
	}
	return headerSizeTLS
}

func putUint48(buf []byte, v uint64) {
	buf[0] = byte(v >> 40)
	buf[1] = byte(v >> 32)
	buf[2] = byte(v >> 24)
	buf[3] = byte(v >> 16)
	buf[4] = byte(v >> 8)
	buf[5] = byte(v)
}

func uint48(buf []byte) uint64 {
	return uint64(buf[0])<<40 | uint64(buf[1])<<32 | uint64(buf[2])<<24 |
		uint64(buf[3])<<16 | uint64(buf[4])<<8 | uint64(buf[5])
}

// SeqNum returns the 8-byte (epoch||sequence) pair used as the MAC/AEAD
// sequence input, matching the DTLS wire representation even for TLS
// records (RFC 5246 Section-6.2.3.1 "seq_num" is 8 bytes there too, just
// an implicit counter with epoch always zero).
func (h *Header) SeqNum() [8]byte {
	var out [8]byte
	binary.BigEndian.PutUint16(out[0:2], h.Epoch)
	putUint48(out[2:8], h.SequenceNumber)
	return out
}
