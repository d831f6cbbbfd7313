package h2c

import (
	"errors"
	"fmt"
)

// ErrorCode is the 32-bit error code carried by RST_STREAM and GOAWAY
// frames (spec.md §4.E).
type ErrorCode uint32

// Error codes (http://httpwg.org/specs/rfc7540.html#ErrorCodes).
const (
	NoError              ErrorCode = 0x0
	ProtocolErrorCode    ErrorCode = 0x1
	InternalError        ErrorCode = 0x2
	FlowControlError     ErrorCode = 0x3
	SettingsTimeoutError ErrorCode = 0x4
	StreamClosedError    ErrorCode = 0x5
	FrameSizeError       ErrorCode = 0x6
	RefusedStreamError   ErrorCode = 0x7
	CancelError          ErrorCode = 0x8
	CompressionErrorCode ErrorCode = 0x9
	ConnectError         ErrorCode = 0xa
	EnhanceYourCalm      ErrorCode = 0xb
	InadequateSecurity   ErrorCode = 0xc
)

var errCodeNames = [...]string{
	NoError:              "NO_ERROR",
	ProtocolErrorCode:    "PROTOCOL_ERROR",
	InternalError:        "INTERNAL_ERROR",
	FlowControlError:     "FLOW_CONTROL_ERROR",
	SettingsTimeoutError: "SETTINGS_TIMEOUT",
	StreamClosedError:    "STREAM_CLOSED",
	FrameSizeError:       "FRAME_SIZE_ERROR",
	RefusedStreamError:   "REFUSED_STREAM",
	CancelError:          "CANCEL",
	CompressionErrorCode: "COMPRESSION_ERROR",
	ConnectError:         "CONNECT_ERROR",
	EnhanceYourCalm:      "ENHANCE_YOUR_CALM",
	InadequateSecurity:   "INADEQUATE_SECURITY",
}

func (c ErrorCode) String() string {
	if int(c) < len(errCodeNames) && errCodeNames[c] != "" {
		return errCodeNames[c]
	}
	return fmt.Sprintf("ErrorCode(%#x)", uint32(c))
}

// CompressionError is raised on a compression failure (spec.md §7): an
// HPACK index that is zero or out of range, an unknown representation, a
// malformed Huffman string, or a DATA payload that fails to deflate or
// inflate. It is fatal to the connection. Frame-codec violations such as
// an oversize frame or a padding overrun are reported through other
// errors (ErrPayloadExceeds, the h2utils padding error).
type CompressionError struct {
	Msg string
}

func (e *CompressionError) Error() string { return "compression error: " + e.Msg }

func compressionError(msg string) error {
	return &CompressionError{Msg: msg}
}

// ProtocolError is raised on an HTTP/2 framing violation: malformed
// SETTINGS payload length or value, a non-empty SETTINGS ack or BLOCKED
// payload, a zero WINDOW_UPDATE increment, a frame illegal in the
// stream's current state. Stream ids of connection-scope frames are not
// checked here. Fatal to the connection on receive; a programmer error
// on send.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string { return "protocol error: " + e.Msg }

func protocolError(msg string) error {
	return &ProtocolError{Msg: msg}
}

// StreamError is confined to a single stream (e.g. DATA received on a
// half_closed_remote stream). It results in RST_STREAM plus stream
// closure; the connection survives.
type StreamError struct {
	StreamID uint32
	Code     ErrorCode
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream %d error: %s", e.StreamID, e.Code)
}

func streamError(id uint32, code ErrorCode) *StreamError {
	return &StreamError{StreamID: id, Code: code}
}

// NewError builds an error value for a wire-level ErrorCode, matching the
// description text peers usually attach to RST_STREAM/GOAWAY frames.
func NewError(code ErrorCode, desc string) error {
	if desc == "" {
		desc = code.String()
	}
	return fmt.Errorf("h2c: %s (%s)", desc, code)
}

// Sentinel errors used throughout the codec.
var (
	ErrMissingBytes     = errors.New("h2c: frame payload too short for its type")
	ErrPayloadExceeds   = errors.New("h2c: frame payload exceeds the negotiated maximum size")
	ErrUnknownFrameType = errors.New("h2c: unknown frame type")
	ErrUnknownFlag      = errors.New("h2c: flag not valid for this frame type")
	ErrBitOverflow      = errors.New("h2c: integer representation overflow")
	ErrIndexTooLarge    = errors.New("h2c: HPACK index too large")
	ErrInvalidStreamID  = errors.New("h2c: stream id exceeds 31 bits")
	ErrInvalidIncrement = errors.New("h2c: window increment exceeds 31 bits")
)
