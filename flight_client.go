package dtls

import (
	"funahara/dtls/pkg/crypto/prf"
	"funahara/dtls/pkg/protocol"
	"funahara/dtls/pkg/protocol/handshake"
)

// runClientHandshake drives the client side of the linear flow spec.md
// §3/§9 describes: ClientHello (twice, across the DTLS cookie
// round-trip) through Finished. Grounded on the teacher's
// processHandshake (dtls_handshake.go), generalized from one fixed PSK
// suite to a negotiated one and, for DTLS, the cookie exchange the
// teacher never implemented (it dialed a server that skipped
// HelloVerifyRequest).
func runClientHandshake(c *Conn) error {
	st := c.st

	random, err := handshake.GenerateRandom()
	if err != nil {
		return err
	}
	st.clientRandom = random

	exts, err := clientHelloExtensions(st)
	if err != nil {
		return err
	}
	suites := make([]uint16, len(st.config.cipherSuites()))
	for i, id := range st.config.cipherSuites() {
		suites[i] = uint16(id)
	}

	hello := &handshake.MessageClientHello{
		IsDTLS:             st.isDTLS,
		Version:            st.config.maxVersion(st.isDTLS),
		Random:             random,
		CipherSuites:       suites,
		CompressionMethods: []byte{0},
		Extensions:         exts,
	}

	if st.isDTLS {
		// The cookie-less first ClientHello and the HelloVerifyRequest
		// answering it never enter handshake_hash (RFC 6347
		// Section-4.2.1); only the cookie-bearing retry below does.
		if err := sendHandshakeUnhashed(c, hello); err != nil {
			return err
		}

		msg, err := recvHandshakeUnhashed(c)
		if err != nil {
			return err
		}
		hvr, ok := msg.(*handshake.MessageHelloVerifyRequest)
		if !ok {
			return ErrUnexpectedMessage
		}
		st.cookie = hvr.Cookie

		hello.Cookie = st.cookie
		if err := sendHandshake(c, hello); err != nil {
			return err
		}
	} else {
		if err := sendHandshake(c, hello); err != nil {
			return err
		}
	}

	msg, err := recvHandshake(c)
	if err != nil {
		return err
	}
	sh, ok := msg.(*handshake.MessageServerHello)
	if !ok {
		return ErrUnexpectedMessage
	}
	if protocol.Before(sh.Version, st.config.minVersion(st.isDTLS)) ||
		protocol.Before(st.config.maxVersion(st.isDTLS), sh.Version) {
		return ErrUnsupportedVersion
	}
	st.serverRandom = sh.Random
	st.sessionID = sh.SessionID
	st.version = sh.Version
	if _, ok := handshake.FindExtension(sh.Extensions, handshake.ExtensionExtendedMasterSecret); ok {
		st.extendedMasterSecret = st.config.ExtendedMasterSecret
	} else if st.config.RequireExtendedMasterSecret {
		return ErrUnexpectedMessage
	}

	suite, err := NewCipherSuite(CipherSuiteID(sh.CipherSuite))
	if err != nil {
		return err
	}
	st.suite = suite
	st.suiteID = CipherSuiteID(sh.CipherSuite)

	msg, err = recvHandshake(c)
	if err != nil {
		return err
	}
	ske, ok := msg.(*handshake.MessageServerKeyExchange)
	if !ok {
		return ErrUnexpectedMessage
	}
	if err := suite.ProcessServerKeyExchange(st, ske.Raw); err != nil {
		return err
	}

	msg, err = recvHandshake(c)
	if err != nil {
		return err
	}
	if _, ok := msg.(*handshake.MessageServerHelloDone); !ok {
		return ErrUnexpectedMessage
	}

	ckeBody, err := suite.BuildClientKeyExchange(st)
	if err != nil {
		return err
	}
	if err := sendHandshake(c, &handshake.MessageClientKeyExchange{Raw: ckeBody}); err != nil {
		return err
	}

	if err := deriveMasterSecret(st, suite); err != nil {
		return err
	}
	st.installKeys()

	if err := c.writeChangeCipherSpec(); err != nil {
		return err
	}

	finishedHash := st.sessionHash()
	verifyData := prf.VerifyData(st.master, prf.ClientFinishedLabel, finishedHash, suite.NewHash())
	if err := sendHandshake(c, &handshake.MessageFinished{VerifyData: verifyData}); err != nil {
		return err
	}

	expectedHash := st.sessionHash()
	msg, err = recvHandshake(c)
	if err != nil {
		return err
	}
	serverFinished, ok := msg.(*handshake.MessageFinished)
	if !ok {
		return ErrUnexpectedMessage
	}
	want := prf.VerifyData(st.master, prf.ServerFinishedLabel, expectedHash, suite.NewHash())
	if !constantTimeEqual(serverFinished.VerifyData, want) {
		return ErrBadFinished
	}

	return nil
}

// deriveMasterSecret computes the premaster secret via the negotiated
// suite, derives the (extended, if negotiated) master secret, and
// destroys the premaster immediately (spec.md invariant I5).
func deriveMasterSecret(st *state, suite CipherSuite) error {
	premaster, err := suite.ComputePremaster(st)
	if err != nil {
		return err
	}
	st.premaster = prf.Secret(premaster)
	defer st.premaster.Destroy()

	if st.extendedMasterSecret {
		st.master = prf.ExtendedMasterSecret(st.premaster, st.sessionHash(), suite.NewHash())
	} else {
		st.master = prf.MasterSecret(st.premaster, st.clientRandom[:], st.serverRandom[:], suite.NewHash())
	}
	return nil
}

func clientHelloExtensions(st *state) ([]handshake.Extension, error) {
	exts := ellipticCurvesExtension(st.config.Curves)
	if st.config.ExtendedMasterSecret {
		exts = append(exts, handshake.Extension{Type: handshake.ExtensionExtendedMasterSecret})
	}
	return exts, nil
}
