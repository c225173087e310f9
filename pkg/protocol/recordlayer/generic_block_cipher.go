package recordlayer

import "funahara/dtls/pkg/protocol"

// GenericBlockCipher is the on-wire shape of a CBC-protected fragment:
// an explicit per-record IV followed by the CBC ciphertext (which itself
// contains MAC + padding once decrypted). RFC 5246 Section-6.2.3.2.
//
//	struct {
//	    opaque IV[SecurityParameters.record_iv_length];
//	    opaque content[...]; // CBC ciphertext
//	} GenericBlockCipher;
type GenericBlockCipher struct {
	IV         []byte
	Ciphertext []byte
}

func (g *GenericBlockCipher) Marshal() []byte {
	return append(append([]byte{}, g.IV...), g.Ciphertext...)
}

func (g *GenericBlockCipher) Unmarshal(ivLen int, buf []byte) error {
	if len(buf) < ivLen {
		return protocol.ErrBufferTooSmall
	}
	g.IV = buf[:ivLen]
	g.Ciphertext = buf[ivLen:]
	return nil
}
