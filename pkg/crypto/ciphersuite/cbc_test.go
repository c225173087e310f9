package ciphersuite

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func testCBC() CBC {
	return CBC{NewHash: sha256.New, MACLen: 32}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := testCBC()
	encKey := make([]byte, 16)
	macKey := make([]byte, 32)
	for i := range encKey {
		encKey[i] = byte(i)
	}
	for i := range macKey {
		macKey[i] = byte(i * 2)
	}
	var seq [8]byte
	seq[7] = 1
	fragment := []byte("application data payload")

	record, err := c.Encrypt(encKey, macKey, seq, 23, 0xfefd, fragment)
	require.NoError(t, err)

	got, err := c.Decrypt(encKey, macKey, seq, 23, 0xfefd, record)
	require.NoError(t, err)
	require.Equal(t, fragment, got)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	c := testCBC()
	encKey := make([]byte, 16)
	macKey := make([]byte, 32)
	var seq [8]byte
	fragment := []byte("hello")

	record, err := c.Encrypt(encKey, macKey, seq, 23, 0xfefd, fragment)
	require.NoError(t, err)

	record[len(record)-1] ^= 0xff

	_, err = c.Decrypt(encKey, macKey, seq, 23, 0xfefd, record)
	require.ErrorIs(t, err, ErrBadRecordMAC)
}

func TestDecryptRejectsWrongSequenceNumber(t *testing.T) {
	c := testCBC()
	encKey := make([]byte, 16)
	macKey := make([]byte, 32)
	var seq, otherSeq [8]byte
	otherSeq[7] = 1
	fragment := []byte("hello")

	record, err := c.Encrypt(encKey, macKey, seq, 23, 0xfefd, fragment)
	require.NoError(t, err)

	_, err = c.Decrypt(encKey, macKey, otherSeq, 23, 0xfefd, record)
	require.ErrorIs(t, err, ErrBadRecordMAC)
}

func TestEncryptProducesFreshIVEachCall(t *testing.T) {
	c := testCBC()
	encKey := make([]byte, 16)
	macKey := make([]byte, 32)
	var seq [8]byte
	fragment := []byte("same plaintext every time")

	a, err := c.Encrypt(encKey, macKey, seq, 23, 0xfefd, fragment)
	require.NoError(t, err)
	b, err := c.Encrypt(encKey, macKey, seq, 23, 0xfefd, fragment)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
