package handshake

import "errors"

var (
	errBufferTooSmall     = errors.New("handshake: buffer too small")
	errLengthMismatch     = errors.New("handshake: declared length exceeds buffer")
	errInvalidMessageType = errors.New("handshake: unrecognized message type")
)
