// Package ciphersuite implements the record layer's MAC-then-encrypt
// transform for CBC-mode bulk ciphers (RFC 5246 Section-6.2.3.2),
// generalizing the teacher's AES-128-CCM-8 encrypt/decrypt
// (dtls.go:encrypt/decrypt) to the CBC+HMAC suites spec.md §6 requires.
// The CBC primitive itself is crypto/aes + crypto/cipher, the same
// stdlib package the teacher already reaches for in
// dtlsGenerateMAC's cipher.NewCBCEncrypter call.
package ciphersuite

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"hash"

	"funahara/dtls/pkg/crypto/random"
)

var (
	// ErrBadRecordMAC covers both a corrupted MAC and invalid padding —
	// RFC 5246 Section-6.2.3.2 deliberately does not distinguish them on
	// the wire, to avoid a padding oracle.
	ErrBadRecordMAC = errors.New("ciphersuite: bad record MAC")
)

// CBC performs MAC-then-encrypt/decrypt for one direction's keys. The
// explicit IV is one cipher block (16 bytes for AES-128/256, spec.md
// §4.B); MAC size and hash are parameters so one implementation serves
// all three required SHA-256 suites and any hash-parametric future one.
type CBC struct {
	NewHash func() hash.Hash
	MACLen  int
}

// Encrypt implements spec.md §4.D send steps 2-5: compute the MAC over
// seq_num||type||version||len(F)||F, form F||MAC, PKCS-pad to the block
// size, CBC-encrypt under a fresh random per-record IV, and return that
// IV in the clear followed by the ciphertext.
func (c CBC) Encrypt(encKey, macKey []byte, seqNum [8]byte, contentType byte, version uint16, fragment []byte) ([]byte, error) {
	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}
	blockSize := block.BlockSize()

	mac := computeMAC(c.NewHash, macKey, seqNum, contentType, version, fragment)

	plaintext := make([]byte, 0, len(fragment)+len(mac)+blockSize)
	plaintext = append(plaintext, fragment...)
	plaintext = append(plaintext, mac...)

	pad := blockSize - 1 - (len(plaintext) % blockSize)
	if pad < 0 {
		pad += blockSize
	}
	for i := 0; i <= pad; i++ {
		plaintext = append(plaintext, byte(pad))
	}

	iv, err := random.Bytes(blockSize)
	if err != nil {
		return nil, err
	}
	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plaintext)

	return append(iv, ciphertext...), nil
}

// Decrypt implements spec.md §4.D receive steps 2-3: CBC-decrypt, verify
// padding and MAC in constant time, and return the plaintext fragment.
// Any failure (malformed padding or a mismatched MAC) returns
// ErrBadRecordMAC without distinguishing which, per RFC 5246.
func (c CBC) Decrypt(decKey, macKey []byte, seqNum [8]byte, contentType byte, version uint16, record []byte) ([]byte, error) {
	block, err := aes.NewCipher(decKey)
	if err != nil {
		return nil, err
	}
	blockSize := block.BlockSize()
	if len(record) < blockSize || (len(record)-blockSize)%blockSize != 0 || len(record)-blockSize == 0 {
		return nil, ErrBadRecordMAC
	}

	iv := record[:blockSize]
	ciphertext := record[blockSize:]
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	pad := int(plaintext[len(plaintext)-1])
	if pad+1 > len(plaintext) {
		return nil, ErrBadRecordMAC
	}
	padStart := len(plaintext) - pad - 1
	expectedPad := bytes.Repeat([]byte{byte(pad)}, pad+1)
	if subtle.ConstantTimeCompare(plaintext[padStart:], expectedPad) != 1 {
		return nil, ErrBadRecordMAC
	}

	if padStart < c.MACLen {
		return nil, ErrBadRecordMAC
	}
	fragment := plaintext[:padStart-c.MACLen]
	gotMAC := plaintext[padStart-c.MACLen : padStart]

	wantMAC := computeMAC(c.NewHash, macKey, seqNum, contentType, version, fragment)
	if !hmac.Equal(gotMAC, wantMAC) {
		return nil, ErrBadRecordMAC
	}
	return fragment, nil
}

func computeMAC(newHash func() hash.Hash, macKey []byte, seqNum [8]byte, contentType byte, version uint16, fragment []byte) []byte {
	mac := hmac.New(newHash, macKey)
	mac.Write(seqNum[:])
	mac.Write([]byte{contentType})
	var verBuf [2]byte
	binary.BigEndian.PutUint16(verBuf[:], version)
	mac.Write(verBuf[:])
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(fragment)))
	mac.Write(lenBuf[:])
	mac.Write(fragment)
	return mac.Sum(nil)
}
