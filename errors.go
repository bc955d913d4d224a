package netmsg

import "errors"

var (
	// ErrInsufficientData is returned when a pop asks for more bytes than the body holds.
	ErrInsufficientData = errors.New("netmsg: insufficient data")
	// ErrUnsupportedType is returned by the dynamic push/pop path for types without a codec.
	ErrUnsupportedType = errors.New("netmsg: unsupported type")
	ErrMessageTooLong  = errors.New("netmsg: message too long")
	ErrSizeMismatch    = errors.New("netmsg: payload size does not match header")
	ErrShortHeader     = errors.New("netmsg: short header")
	ErrNilMessage      = errors.New("netmsg: nil message")
	ErrSessionNotFound = errors.New("netmsg: session not found")
)
