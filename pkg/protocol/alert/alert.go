// Package alert implements the two-byte TLS/DTLS Alert protocol message
// (RFC 5246 Section-7.2).
package alert

import "fmt"

// Level is the severity of an Alert.
type Level uint8

const (
	Warning Level = 1
	Fatal   Level = 2
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "warning"
	case Fatal:
		return "fatal"
	default:
		return "invalid"
	}
}

// Description identifies the reason for an Alert. RFC 5246 Section-7.2.2,
// extended by RFC 6347 for DTLS (no new codepoints are added).
type Description uint8

const (
	CloseNotify            Description = 0
	UnexpectedMessage      Description = 10
	BadRecordMAC           Description = 20
	DecryptionFailed       Description = 21
	RecordOverflow         Description = 22
	DecompressionFailure   Description = 30
	HandshakeFailure       Description = 40
	NoCertificate          Description = 41
	BadCertificate         Description = 42
	UnsupportedCertificate Description = 43
	CertificateExpired     Description = 45
	CertificateUnknown     Description = 46
	IllegalParameter       Description = 47
	UnknownCA              Description = 48
	AccessDenied           Description = 49
	DecodeError            Description = 50
	DecryptError            Description = 51
	ProtocolVersion         Description = 70
	InsufficientSecurity    Description = 71
	InternalError           Description = 80
	UserCanceled            Description = 90
	NoRenegotiation         Description = 100
	UnsupportedExtension    Description = 110
)

var descriptionNames = map[Description]string{
	CloseNotify: "close_notify", UnexpectedMessage: "unexpected_message",
	BadRecordMAC: "bad_record_mac", DecryptionFailed: "decryption_failed",
	RecordOverflow: "record_overflow", DecompressionFailure: "decompression_failure",
	HandshakeFailure: "handshake_failure", NoCertificate: "no_certificate",
	BadCertificate: "bad_certificate", UnsupportedCertificate: "unsupported_certificate",
	CertificateExpired: "certificate_expired", CertificateUnknown: "certificate_unknown",
	IllegalParameter: "illegal_parameter", UnknownCA: "unknown_ca",
	AccessDenied: "access_denied", DecodeError: "decode_error",
	DecryptError: "decrypt_error", ProtocolVersion: "protocol_version",
	InsufficientSecurity: "insufficient_security", InternalError: "internal_error",
	UserCanceled: "user_canceled", NoRenegotiation: "no_renegotiation",
	UnsupportedExtension: "unsupported_extension",
}

func (d Description) String() string {
	if s, ok := descriptionNames[d]; ok {
		return s
	}
	return "unknown"
}

// Alert is the two-byte Alert protocol message.
type Alert struct {
	Level       Level
	Description Description
}

func (a *Alert) Error() string {
	return fmt.Sprintf("alert: %s: %s", a.Level, a.Description)
}

// Marshal renders the alert to its fixed two-byte wire form.
func (a *Alert) Marshal() ([]byte, error) {
	return []byte{byte(a.Level), byte(a.Description)}, nil
}

// Unmarshal parses a two-byte alert body.
func (a *Alert) Unmarshal(data []byte) error {
	if len(data) < 2 {
		return errAlertTooShort
	}
	a.Level = Level(data[0])
	a.Description = Description(data[1])
	return nil
}
