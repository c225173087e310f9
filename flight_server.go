package dtls

import (
	"funahara/dtls/pkg/crypto/prf"
	"funahara/dtls/pkg/protocol"
	"funahara/dtls/pkg/protocol/handshake"
)

// runServerHandshake drives the server side of the flow: ClientHello
// (plus the DTLS cookie round-trip) through the server's own Finished.
// The source and the teacher both implement only a client; this flow
// is grounded on the tgragnato/snowflake dtls fork's flight5/flight
// construction and restores the server role the distilled client-only
// spec dropped, per original_source/'s dtls_srv handshake_* modules.
func runServerHandshake(c *Conn) error {
	st := c.st

	// recvHandshakeRaw defers the hash-or-not decision: a DTLS
	// ClientHello with no cookie (and the HelloVerifyRequest it
	// provokes) never enters handshake_hash (RFC 6347 Section-4.2.1);
	// the cookie-bearing retry (or, for TLS, this same first message)
	// is what counts and gets hashed below.
	msg, raw, err := recvHandshakeRaw(c)
	if err != nil {
		return err
	}
	clientHello, ok := msg.(*handshake.MessageClientHello)
	if !ok {
		return ErrUnexpectedMessage
	}

	if st.isDTLS && len(clientHello.Cookie) == 0 {
		cookie := generateCookie(st.config.CookieSecret, st.peer, clientHello.Random[:])
		hvr := &handshake.MessageHelloVerifyRequest{Version: st.version, Cookie: cookie}
		if err := sendHandshakeUnhashed(c, hvr); err != nil {
			return err
		}

		msg, raw, err = recvHandshakeRaw(c)
		if err != nil {
			return err
		}
		clientHello, ok = msg.(*handshake.MessageClientHello)
		if !ok {
			return ErrUnexpectedMessage
		}
		if !verifyCookie(st.config.CookieSecret, st.peer, clientHello.Random[:], clientHello.Cookie) {
			return ErrBadCookie
		}
	}
	c.st.handshakeHash.Write(raw)

	st.clientRandom = clientHello.Random
	st.offeredCurves = parseEllipticCurves(clientHello.Extensions)

	negotiatedVersion := protocol.Min(clientHello.Version, st.config.maxVersion(st.isDTLS))
	if protocol.Before(negotiatedVersion, st.config.minVersion(st.isDTLS)) {
		return ErrUnsupportedVersion
	}
	st.version = negotiatedVersion

	suiteID, suite, err := negotiateCipherSuite(st.config, clientHello.CipherSuites)
	if err != nil {
		return err
	}
	st.suite = suite
	st.suiteID = suiteID

	_, offersEMS := handshake.FindExtension(clientHello.Extensions, handshake.ExtensionExtendedMasterSecret)
	st.extendedMasterSecret = offersEMS && st.config.ExtendedMasterSecret
	if st.config.RequireExtendedMasterSecret && !offersEMS {
		return ErrUnexpectedMessage
	}

	serverRandom, err := handshake.GenerateRandom()
	if err != nil {
		return err
	}
	st.serverRandom = serverRandom

	var serverExts []handshake.Extension
	if st.extendedMasterSecret {
		serverExts = append(serverExts, handshake.Extension{Type: handshake.ExtensionExtendedMasterSecret})
	}

	serverHello := &handshake.MessageServerHello{
		Version:           st.version,
		Random:            serverRandom,
		SessionID:         st.sessionID,
		CipherSuite:       uint16(suiteID),
		CompressionMethod: 0,
		Extensions:        serverExts,
	}
	if err := sendHandshake(c, serverHello); err != nil {
		return err
	}

	skeBody, err := suite.BuildServerKeyExchange(st)
	if err != nil {
		return err
	}
	if err := sendHandshake(c, &handshake.MessageServerKeyExchange{Raw: skeBody}); err != nil {
		return err
	}

	if err := sendHandshake(c, &handshake.MessageServerHelloDone{}); err != nil {
		return err
	}

	msg, err = recvHandshake(c)
	if err != nil {
		return err
	}
	cke, ok := msg.(*handshake.MessageClientKeyExchange)
	if !ok {
		return ErrUnexpectedMessage
	}
	if err := suite.ProcessClientKeyExchange(st, cke.Raw); err != nil {
		return err
	}

	if err := deriveMasterSecret(st, suite); err != nil {
		return err
	}
	st.installKeys()

	expectedHash := st.sessionHash()
	msg, err = recvHandshake(c)
	if err != nil {
		return err
	}
	clientFinished, ok := msg.(*handshake.MessageFinished)
	if !ok {
		return ErrUnexpectedMessage
	}
	wantClient := prf.VerifyData(st.master, prf.ClientFinishedLabel, expectedHash, suite.NewHash())
	if !constantTimeEqual(clientFinished.VerifyData, wantClient) {
		return ErrBadFinished
	}

	if err := c.writeChangeCipherSpec(); err != nil {
		return err
	}
	finishedHash := st.sessionHash()
	verifyData := prf.VerifyData(st.master, prf.ServerFinishedLabel, finishedHash, suite.NewHash())
	if err := sendHandshake(c, &handshake.MessageFinished{VerifyData: verifyData}); err != nil {
		return err
	}

	return nil
}

// negotiateCipherSuite picks the first suite in the server's configured
// preference order that the client also offered (spec.md §6: server
// preference, not client preference).
func negotiateCipherSuite(cfg *Config, offered []uint16) (CipherSuiteID, CipherSuite, error) {
	offeredSet := make(map[uint16]struct{}, len(offered))
	for _, id := range offered {
		offeredSet[id] = struct{}{}
	}
	for _, id := range cfg.cipherSuites() {
		if _, ok := offeredSet[uint16(id)]; ok {
			suite, err := NewCipherSuite(id)
			if err != nil {
				continue
			}
			return id, suite, nil
		}
	}
	return 0, nil, ErrUnsupportedCipher
}
