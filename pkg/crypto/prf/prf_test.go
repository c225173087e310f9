package prf

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPHashIsDeterministic(t *testing.T) {
	secret := []byte("shared secret")
	seed := []byte("a seed value")

	a := PHash(secret, seed, 64, sha256.New)
	b := PHash(secret, seed, 64, sha256.New)
	require.Equal(t, a, b)
	require.Len(t, a, 64)
}

func TestPHashDifferentSecretsDiverge(t *testing.T) {
	seed := []byte("a seed value")
	a := PHash([]byte("secret one"), seed, 32, sha256.New)
	b := PHash([]byte("secret two"), seed, 32, sha256.New)
	require.NotEqual(t, a, b)
}

func TestMasterSecretLength(t *testing.T) {
	premaster := []byte{1, 2, 3, 4, 5}
	clientRandom := make([]byte, 32)
	serverRandom := make([]byte, 32)
	master := MasterSecret(premaster, clientRandom, serverRandom, sha256.New)
	require.Len(t, master, 48)
}

// TestExtendedMasterSecretDivergesFromPlain confirms that two handshakes
// sharing the same premaster and randoms but different transcripts (the
// session hash standing in for the transcript) produce different master
// secrets once extended_master_secret is in play — the property spec.md
// scenario S4 is checking for.
func TestExtendedMasterSecretDivergesFromPlain(t *testing.T) {
	premaster := []byte{9, 8, 7}
	clientRandom := make([]byte, 32)
	serverRandom := make([]byte, 32)
	plain := MasterSecret(premaster, clientRandom, serverRandom, sha256.New)

	sessionHash := sha256.Sum256([]byte("transcript"))
	extended := ExtendedMasterSecret(premaster, sessionHash[:], sha256.New)

	require.NotEqual(t, plain, extended)
	require.Len(t, extended, 48)
}

func TestExtendedMasterSecretChangesWithTranscript(t *testing.T) {
	premaster := []byte{9, 8, 7}
	hashA := sha256.Sum256([]byte("transcript A"))
	hashB := sha256.Sum256([]byte("transcript B"))

	a := ExtendedMasterSecret(premaster, hashA[:], sha256.New)
	b := ExtendedMasterSecret(premaster, hashB[:], sha256.New)
	require.NotEqual(t, a, b)
}

func TestKeyBlockSplitsInWireOrder(t *testing.T) {
	master := make([]byte, 48)
	for i := range master {
		master[i] = byte(i)
	}
	serverRandom := make([]byte, 32)
	clientRandom := make([]byte, 32)

	cMAC, sMAC, cKey, sKey, cIV, sIV := KeyBlock(master, serverRandom, clientRandom, 32, 16, 16, sha256.New)
	require.Len(t, cMAC, 32)
	require.Len(t, sMAC, 32)
	require.Len(t, cKey, 16)
	require.Len(t, sKey, 16)
	require.Len(t, cIV, 16)
	require.Len(t, sIV, 16)
	require.NotEqual(t, cMAC, sMAC)
	require.NotEqual(t, cKey, sKey)
}

func TestVerifyDataLengthAndLabelSeparation(t *testing.T) {
	master := make([]byte, 48)
	hash := sha256.Sum256([]byte("handshake transcript"))

	client := VerifyData(master, ClientFinishedLabel, hash[:], sha256.New)
	server := VerifyData(master, ServerFinishedLabel, hash[:], sha256.New)
	require.Len(t, client, 12)
	require.Len(t, server, 12)
	require.NotEqual(t, client, server)
}

func TestPremasterSecretPSK(t *testing.T) {
	psk := []byte("hunter2")
	out := PremasterSecretPSK(psk)
	require.Len(t, out, 2+len(psk)+2+len(psk))
	require.Equal(t, byte(0), out[0])
	require.Equal(t, byte(len(psk)), out[1])
	for _, b := range out[2 : 2+len(psk)] {
		require.Equal(t, byte(0), b)
	}
}

func TestPremasterSecretECDHEPSK(t *testing.T) {
	z := []byte{1, 2, 3, 4}
	psk := []byte{5, 6}
	out := PremasterSecretECDHEPSK(z, psk)
	require.Equal(t, byte(0), out[0])
	require.Equal(t, byte(4), out[1])
	require.Equal(t, z, out[2:6])
	require.Equal(t, byte(0), out[6])
	require.Equal(t, byte(2), out[7])
	require.Equal(t, psk, out[8:10])
}

func TestSecretDestroyZeroizes(t *testing.T) {
	backing := []byte{1, 2, 3, 4}
	s := Secret(backing)
	s.Destroy()
	require.Nil(t, []byte(s))
	require.Equal(t, []byte{0, 0, 0, 0}, backing)
}
