package dtls

import (
	"funahara/dtls/pkg/protocol"
	"funahara/dtls/pkg/protocol/alert"
	"funahara/dtls/pkg/protocol/handshake"
)

// runHandshake dispatches to the client or server flow and, on any
// error, sends the mapped fatal alert before returning — the one place
// alertFor (errors.go) is consulted, since every other error return in
// this module is purely internal bookkeeping.
//
// This module does not retransmit flights or reassemble fragmented
// handshake messages (spec non-goals: PMTU handling, fragmentation);
// the two flows below are a straight sequence of blocking
// send/receive steps rather than the prepare/send/wait/finish loop a
// retransmitting implementation needs (contrast the
// tgragnato/snowflake dtls fork's handshakeFSM, which this module's
// shape is otherwise grounded on).
func runHandshake(c *Conn) error {
	log := c.st.config.loggerFactory().NewLogger("dtls")

	var err error
	if c.st.role == RoleClient {
		err = runClientHandshake(c)
	} else {
		err = runServerHandshake(c)
	}
	if err != nil {
		log.Errorf("handshake failed: %v", err)
		a := alertFor(err)
		body, _ := a.Marshal()
		_ = c.writeRecord(protocol.ContentTypeAlert, body)
		c.st.step = stepErrored
		return err
	}
	log.Debugf("handshake complete, suite=0x%04x", uint16(c.st.suiteID))
	c.st.step = stepConnected
	return nil
}

// marshalHandshake renders msg at the current write message_seq without
// sending it, so callers can choose whether the wire bytes enter the
// transcript hash (see sendHandshake vs sendHandshakeUnhashed).
func marshalHandshake(c *Conn, msg handshake.Message) ([]byte, error) {
	hs := handshake.Handshake{Message: msg}
	return hs.Marshal(c.st.isDTLS, c.st.writeMessageSeq)
}

// sendHandshake marshals one handshake message and writes it as a
// single record, advancing the local message_seq (spec.md's DTLS
// message_seq counter; a no-op distinction for TLS) and folding its
// wire bytes into the transcript hash.
func sendHandshake(c *Conn, msg handshake.Message) error {
	wire, err := marshalHandshake(c, msg)
	if err != nil {
		return err
	}
	return c.writeHandshakeMessage(wire)
}

// sendHandshakeUnhashed is sendHandshake without the transcript write,
// for the pre-cookie ClientHello and the HelloVerifyRequest responding
// to it (RFC 6347 Section-4.2.1 excludes both from handshake_hash).
func sendHandshakeUnhashed(c *Conn, msg handshake.Message) error {
	wire, err := marshalHandshake(c, msg)
	if err != nil {
		return err
	}
	return c.writeHandshakeMessageUnhashed(wire)
}

// recvHandshake reads records until a handshake-layer message arrives
// and folds its wire bytes into the transcript hash, applying
// ChangeCipherSpec epoch rotation and treating any Alert as a terminal
// error along the way.
func recvHandshake(c *Conn) (handshake.Message, error) {
	msg, raw, err := recvHandshakeRaw(c)
	if err != nil {
		return nil, err
	}
	c.st.handshakeHash.Write(raw)
	return msg, nil
}

// recvHandshakeUnhashed is recvHandshake without the transcript write,
// for the HelloVerifyRequest a client receives (never hashed). The
// server reads ClientHello through recvHandshakeRaw instead, since
// whether it is the pre-cookie one is only knowable after parsing.
func recvHandshakeUnhashed(c *Conn) (handshake.Message, error) {
	msg, _, err := recvHandshakeRaw(c)
	return msg, err
}

// recvHandshakeRaw is the shared read loop behind recvHandshake and
// recvHandshakeUnhashed; it returns the parsed message alongside its
// raw wire bytes so a caller can defer the hash-or-not decision.
func recvHandshakeRaw(c *Conn) (handshake.Message, []byte, error) {
	for {
		records, err := c.readRecords()
		if err != nil {
			return nil, nil, err
		}
		for _, r := range records {
			switch r.ContentType {
			case protocol.ContentTypeChangeCipherSpec:
				if err := c.acceptChangeCipherSpec(r.Fragment); err != nil {
					return nil, nil, err
				}
			case protocol.ContentTypeAlert:
				var a alert.Alert
				if err := a.Unmarshal(r.Fragment); err != nil {
					return nil, nil, ErrMalformedRecord
				}
				return nil, nil, &a
			case protocol.ContentTypeHandshake:
				var hs handshake.Handshake
				if _, err := hs.Unmarshal(r.Fragment, c.st.isDTLS); err != nil {
					return nil, nil, ErrMalformedRecord
				}
				return hs.Message, r.Fragment, nil
			default:
				// application_data arriving before the handshake
				// completes is not expected in this module's flows;
				// drop it rather than treat it as fatal.
			}
		}
	}
}
