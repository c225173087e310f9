package prf

import "encoding/binary"

// PremasterSecretPSK builds the premaster secret for a pure PSK
// exchange (RFC 4279 Section-2): if the PSK is N octets, the premaster
// is uint16(N) || N zero octets || uint16(N) || PSK. Ported verbatim
// from the teacher's DtlsPreMasterSecretFromPSK.
func PremasterSecretPSK(psk []byte) []byte {
	n := uint16(len(psk))
	out := make([]byte, 2, 4+2*len(psk))
	binary.BigEndian.PutUint16(out, n)
	out = append(out, make([]byte, n)...)
	lenBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(lenBuf, n)
	out = append(out, lenBuf...)
	out = append(out, psk...)
	return out
}

// PremasterSecretECDHEPSK builds the premaster secret for ECDHE_PSK
// (RFC 5489 Section-2): uint16(len(Z)) || Z || uint16(len(PSK)) || PSK,
// where Z is the ECDHE shared secret.
func PremasterSecretECDHEPSK(z, psk []byte) []byte {
	out := make([]byte, 0, 4+len(z)+len(psk))
	lenZ := make([]byte, 2)
	binary.BigEndian.PutUint16(lenZ, uint16(len(z)))
	out = append(out, lenZ...)
	out = append(out, z...)
	lenPSK := make([]byte, 2)
	binary.BigEndian.PutUint16(lenPSK, uint16(len(psk)))
	out = append(out, lenPSK...)
	out = append(out, psk...)
	return out
}
