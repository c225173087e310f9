package protocol

import "errors"

// Codec-level failures. These surface from the record and handshake
// parsers on truncated or malformed wire data; callers map them to a
// fatal DecodeError alert.
var (
	ErrBufferTooSmall   = errors.New("protocol: buffer too small to contain message")
	ErrInvalidContentType = errors.New("protocol: invalid content type")
	ErrLengthMismatch   = errors.New("protocol: declared length exceeds remaining buffer")
)
