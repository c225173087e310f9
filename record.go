package dtls

import (
	"encoding/binary"

	"funahara/dtls/pkg/protocol"
	"funahara/dtls/pkg/protocol/recordlayer"
)

// writeRecord implements spec.md §4.D's send path: assemble a
// RecordLayer for one content type and fragment, encrypting it first if
// the write side has completed ChangeCipherSpec. One record per
// datagram — this module never coalesces or fragments (spec
// non-goals).
func (c *Conn) writeRecord(contentType protocol.ContentType, fragment []byte) error {
	st := c.st
	header := recordlayer.Header{
		ContentType:    contentType,
		Version:        st.version,
		Epoch:          st.writeEpoch,
		SequenceNumber: st.writeSeq,
	}

	out := fragment
	if st.writeEncrypted {
		enc, err := st.suite.CBC().Encrypt(st.write.key, st.write.macKey, header.SeqNum(), byte(contentType), uint16(st.version), fragment)
		if err != nil {
			return err
		}
		out = enc
	}

	rl := recordlayer.RecordLayer{Header: header, Fragment: out}
	wire, err := rl.Marshal()
	if err != nil {
		return err
	}
	st.writeSeq++
	_, err = c.transport.Write(wire)
	return err
}

// readRecords reads one datagram (DTLS) or stream chunk (TLS) and
// returns its decoded, decrypted records in order. A record whose
// sequence number is not strictly greater than the last one accepted in
// its epoch is dropped silently (spec.md invariant I1/I2: the single
// monotone counter this module uses in place of a sliding replay
// window, see DESIGN.md).
func (c *Conn) readRecords() ([]decodedRecord, error) {
	buf := make([]byte, 65535)
	n, err := c.transport.Read(buf)
	if err != nil {
		return nil, err
	}
	raw, err := recordlayer.UnmarshalDatagram(buf[:n], c.st.isDTLS)
	if err != nil {
		return nil, ErrMalformedRecord
	}

	var out []decodedRecord
	for _, r := range raw {
		dr, ok, err := c.decodeRecord(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, dr)
		}
	}
	return out, nil
}

type decodedRecord struct {
	ContentType protocol.ContentType
	Fragment    []byte
}

// decodeRecord decrypts (if applicable), replay-checks, and returns one
// record. ok is false for a record dropped as a replay; that is never
// reported as an error (spec.md: "dropped silently").
func (c *Conn) decodeRecord(r *recordlayer.RecordLayer) (decodedRecord, bool, error) {
	st := c.st

	if !st.isDTLS {
		// TLS carries no sequence number on the wire; the receiver's own
		// counter is the record's implicit one.
		r.Header.SequenceNumber = st.readSeq
	}

	if r.Header.Epoch < st.readEpoch {
		return decodedRecord{}, false, nil
	}
	if r.Header.Epoch == st.readEpoch && r.Header.SequenceNumber < st.readSeq {
		return decodedRecord{}, false, nil
	}

	fragment := r.Fragment
	if st.readEncrypted && r.Header.Epoch == st.readEpoch {
		dec, err := st.suite.CBC().Decrypt(st.read.key, st.read.macKey, r.Header.SeqNum(), byte(r.Header.ContentType), uint16(r.Header.Version), fragment)
		if err != nil {
			return decodedRecord{}, false, ErrBadRecordMAC
		}
		fragment = dec
	}

	if r.Header.Epoch == st.readEpoch {
		st.readSeq = r.Header.SequenceNumber + 1
	}

	return decodedRecord{ContentType: r.Header.ContentType, Fragment: fragment}, true, nil
}

// writeApplicationData sends one application_data record, per spec.md
// §4 content types. Called only after the handshake has completed.
func (c *Conn) writeApplicationData(b []byte) error {
	return c.writeRecord(protocol.ContentTypeApplicationData, b)
}

// writeHandshakeMessage sends a single already-marshaled handshake message,
// feeding its wire bytes into the transcript hash (spec.md invariant
// I3) before encryption so both sides hash the same plaintext.
func (c *Conn) writeHandshakeMessage(wire []byte) error {
	c.st.handshakeHash.Write(wire)
	c.st.writeMessageSeq++
	return c.writeRecord(protocol.ContentTypeHandshake, wire)
}

// writeHandshakeMessageUnhashed sends a handshake message without
// folding its bytes into the transcript, for the one pair RFC 6347
// Section-4.2.1 excludes from handshake_hash: the pre-cookie
// ClientHello and the HelloVerifyRequest answering it.
func (c *Conn) writeHandshakeMessageUnhashed(wire []byte) error {
	c.st.writeMessageSeq++
	return c.writeRecord(protocol.ContentTypeHandshake, wire)
}

// writeChangeCipherSpec sends the one-byte ChangeCipherSpec message and
// rotates this side's write epoch (DTLS only; TLS keeps epoch 0),
// installing the keys already computed by installKeys (spec.md §4.C
// epoch rotation).
func (c *Conn) writeChangeCipherSpec() error {
	ccs := protocol.ChangeCipherSpec{}
	body, _ := ccs.Marshal()
	if err := c.writeRecord(protocol.ContentTypeChangeCipherSpec, body); err != nil {
		return err
	}
	if c.st.isDTLS {
		c.st.writeEpoch++
	}
	c.st.writeSeq = 0
	c.st.writeEncrypted = true
	return nil
}

// acceptChangeCipherSpec processes a received ChangeCipherSpec,
// rotating the read epoch the same way writeChangeCipherSpec rotates
// the write side. A ChangeCipherSpec that arrives before the read keys
// are installed, or after the read side is already encrypted, is
// ErrUnexpectedMessage.
func (c *Conn) acceptChangeCipherSpec(body []byte) error {
	var ccs protocol.ChangeCipherSpec
	if err := ccs.Unmarshal(body); err != nil {
		return ErrMalformedRecord
	}
	if c.st.readEncrypted || len(c.st.read.key) == 0 {
		return ErrUnexpectedMessage
	}
	if c.st.isDTLS {
		c.st.readEpoch++
	}
	c.st.readSeq = 0
	c.st.readEncrypted = true
	return nil
}

func uint16From(b []byte) uint16 { return binary.BigEndian.Uint16(b) }
