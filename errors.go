package dtls

import (
	"errors"

	"funahara/dtls/pkg/protocol/alert"
)

// Error taxonomy from spec.md §7. Each sentinel maps to the alert this
// module sends before terminating the connection. Replayed records have
// no sentinel: decodeRecord drops them without reporting an error.
var (
	ErrMalformedRecord      = errors.New("dtls: malformed record")
	ErrUnsupportedVersion   = errors.New("dtls: unsupported protocol version")
	ErrUnsupportedCipher    = errors.New("dtls: unsupported cipher suite")
	ErrUnsupportedCurve     = errors.New("dtls: unsupported named curve")
	ErrBadRecordMAC         = errors.New("dtls: bad record MAC")
	ErrBadFinished          = errors.New("dtls: finished verify_data mismatch")
	ErrUnexpectedMessage    = errors.New("dtls: unexpected message for current state")
	ErrHandshakeTimeout     = errors.New("dtls: handshake timed out")
	ErrConnectionClosed     = errors.New("dtls: connection closed")
	ErrBadCookie            = errors.New("dtls: cookie mismatch")
	ErrBadSignature         = errors.New("dtls: server key exchange signature invalid")
	ErrNoPSKIdentity        = errors.New("dtls: no PSK found for identity")
	ErrNoCertificate        = errors.New("dtls: cipher suite requires a certificate")
)

// alertFor maps an error from the taxonomy to the fatal alert this
// module raises for it (spec.md §7). Errors outside the taxonomy (e.g. a
// transport I/O error) are reported as InternalError.
func alertFor(err error) alert.Alert {
	switch {
	case errors.Is(err, ErrMalformedRecord):
		return alert.Alert{Level: alert.Fatal, Description: alert.DecodeError}
	case errors.Is(err, ErrUnsupportedVersion):
		return alert.Alert{Level: alert.Fatal, Description: alert.ProtocolVersion}
	case errors.Is(err, ErrUnsupportedCipher), errors.Is(err, ErrUnsupportedCurve):
		return alert.Alert{Level: alert.Fatal, Description: alert.HandshakeFailure}
	case errors.Is(err, ErrBadRecordMAC):
		return alert.Alert{Level: alert.Fatal, Description: alert.BadRecordMAC}
	case errors.Is(err, ErrBadFinished), errors.Is(err, ErrBadSignature):
		return alert.Alert{Level: alert.Fatal, Description: alert.DecryptError}
	case errors.Is(err, ErrUnexpectedMessage), errors.Is(err, ErrBadCookie):
		return alert.Alert{Level: alert.Fatal, Description: alert.UnexpectedMessage}
	case errors.Is(err, ErrHandshakeTimeout):
		return alert.Alert{Level: alert.Fatal, Description: alert.InternalError}
	default:
		return alert.Alert{Level: alert.Fatal, Description: alert.InternalError}
	}
}
