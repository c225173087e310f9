package dtls

import (
	"testing"

	"github.com/stretchr/testify/require"

	"funahara/dtls/pkg/protocol"
	"funahara/dtls/pkg/protocol/recordlayer"
)

// newTestState returns a minimal DTLS state with a live cipher
// installed on both directions, enough to exercise decodeRecord without
// running a full handshake.
func newTestState(t *testing.T) *state {
	t.Helper()
	st := newState(RoleServer, &Config{}, true, nil)
	st.suite = cipherSuiteECDHAnon{}
	st.version = protocol.VersionDTLS12
	key := make([]byte, 16)
	macKey := make([]byte, 32)
	iv := make([]byte, 16)
	st.read = cipherState{key: key, macKey: macKey, iv: iv}
	st.write = cipherState{key: key, macKey: macKey, iv: iv}
	st.readEncrypted = true
	st.writeEncrypted = true
	return st
}

func sealRecord(t *testing.T, st *state, epoch uint16, seq uint64, plaintext []byte) *recordlayer.RecordLayer {
	t.Helper()
	header := recordlayer.Header{
		ContentType:    protocol.ContentTypeApplicationData,
		Version:        st.version,
		Epoch:          epoch,
		SequenceNumber: seq,
	}
	ciphertext, err := st.suite.CBC().Encrypt(st.write.key, st.write.macKey, header.SeqNum(), byte(header.ContentType), uint16(header.Version), plaintext)
	require.NoError(t, err)
	return &recordlayer.RecordLayer{Header: header, Fragment: ciphertext}
}

// TestDecodeRecordEnforcesMonotonicSequencePerEpoch covers P1/S5: a
// record is delivered exactly once, and a byte-identical replay at the
// same epoch is dropped silently rather than delivered again.
func TestDecodeRecordEnforcesMonotonicSequencePerEpoch(t *testing.T) {
	c := &Conn{st: newTestState(t)}
	r := sealRecord(t, c.st, 0, 0, []byte("hello"))

	dr, ok, err := c.decodeRecord(r)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("hello"), dr.Fragment)
	require.Equal(t, uint64(1), c.st.readSeq)

	dr, ok, err = c.decodeRecord(r)
	require.NoError(t, err)
	require.False(t, ok, "replayed record must be dropped silently, not redelivered")
	require.Empty(t, dr.Fragment)
	require.Equal(t, uint64(1), c.st.readSeq, "readSeq must not regress or double-advance on a dropped replay")
}

// TestDecodeRecordDropsStaleEpochRegardlessOfSequence is the regression
// test for the epoch-drop fix: once readEpoch has advanced past a
// record's epoch, that record must be dropped even if its sequence
// number alone would look unseen in the new epoch (invariant I2).
func TestDecodeRecordDropsStaleEpochRegardlessOfSequence(t *testing.T) {
	c := &Conn{st: newTestState(t)}
	c.st.readEpoch = 1

	stale := sealRecord(t, c.st, 0, 9000, []byte("stale"))

	dr, ok, err := c.decodeRecord(stale)
	require.NoError(t, err)
	require.False(t, ok, "a record from an epoch older than readEpoch must be dropped regardless of sequence")
	require.Empty(t, dr.Fragment)
	require.Equal(t, uint64(0), c.st.readSeq, "an old-epoch record must never advance the current epoch's readSeq")

	current := sealRecord(t, c.st, 1, 0, []byte("current"))
	dr, ok, err = c.decodeRecord(current)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("current"), dr.Fragment)
}

// TestDecodeRecordDetectsBadMAC covers S6/P5: a single flipped
// ciphertext byte must surface as the root package's ErrBadRecordMAC,
// never as a silently-dropped record or a successful decode.
func TestDecodeRecordDetectsBadMAC(t *testing.T) {
	c := &Conn{st: newTestState(t)}
	good := sealRecord(t, c.st, 0, 0, []byte("integrity"))

	tampered := *good
	tampered.Fragment = append([]byte(nil), good.Fragment...)
	tampered.Fragment[len(tampered.Fragment)-1] ^= 0xFF

	dr, ok, err := c.decodeRecord(&tampered)
	require.ErrorIs(t, err, ErrBadRecordMAC)
	require.False(t, ok)
	require.Empty(t, dr.Fragment)

	// The untampered copy still decodes, confirming the failure above
	// was caused by the bit flip and not by a stale fixture.
	dr, ok, err = c.decodeRecord(good)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("integrity"), dr.Fragment)
}
