package h2c

import "fmt"

// FrameType is the 8-bit type field of a frame header (spec.md §4.A). The
// tagged-variant design means each FrameType maps to exactly one concrete
// frame payload type implementing Frame.
type FrameType uint8

const (
	FrameData         FrameType = 0x0
	FrameHeaders       FrameType = 0x1
	FramePriority      FrameType = 0x2
	FrameRstStream     FrameType = 0x3
	FrameSettings      FrameType = 0x4
	FramePushPromise   FrameType = 0x5
	FramePing          FrameType = 0x6
	FrameGoAway        FrameType = 0x7
	FrameWindowUpdate  FrameType = 0x8
	FrameContinuation  FrameType = 0x9
	FrameAltSvc        FrameType = 0xa
	FrameBlocked       FrameType = 0xb
)

var frameTypeNames = [...]string{
	FrameData:        "DATA",
	FrameHeaders:      "HEADERS",
	FramePriority:     "PRIORITY",
	FrameRstStream:    "RST_STREAM",
	FrameSettings:     "SETTINGS",
	FramePushPromise:  "PUSH_PROMISE",
	FramePing:         "PING",
	FrameGoAway:       "GOAWAY",
	FrameWindowUpdate: "WINDOW_UPDATE",
	FrameContinuation: "CONTINUATION",
	FrameAltSvc:       "ALTSVC",
	FrameBlocked:      "BLOCKED",
}

func (t FrameType) String() string {
	if int(t) < len(frameTypeNames) && frameTypeNames[t] != "" {
		return frameTypeNames[t]
	}
	return fmt.Sprintf("FrameType(%#x)", uint8(t))
}

// FrameFlags is the 8-bit flags field of a frame header. Bit meaning is
// type-dependent; Has/Add are type-agnostic bit accessors and the
// per-type files export named constants for the bits they recognize.
type FrameFlags uint8

// Has reports whether every bit in mask is set.
func (f FrameFlags) Has(mask FrameFlags) bool {
	return f&mask == mask
}

// Add sets every bit in mask and returns the result.
func (f FrameFlags) Add(mask FrameFlags) FrameFlags {
	return f | mask
}

// Del clears every bit in mask and returns the result.
func (f FrameFlags) Del(mask FrameFlags) FrameFlags {
	return f &^ mask
}

// legalFlags lists the bits a given frame type recognizes; any other bit
// set in the header's flags byte is ignored on receive per spec.md §4.E,
// never rejected, since unknown flag bits are reserved for extensions.
var legalFlags = [...]FrameFlags{
	FrameData:        FlagEndStream | FlagPadded | FlagCompressed,
	FrameHeaders:      FlagEndStream | FlagEndHeaders | FlagPadded | FlagPriority,
	FramePriority:     0,
	FrameRstStream:    0,
	FrameSettings:     FlagAck,
	FramePushPromise:  FlagEndHeaders | FlagPadded,
	FramePing:         FlagAck,
	FrameGoAway:       0,
	FrameWindowUpdate: 0,
	FrameContinuation: FlagEndHeaders,
	FrameAltSvc:       0,
	FrameBlocked:      0,
}

// LegalFlags returns the set of flag bits t recognizes.
func (t FrameType) LegalFlags() FrameFlags {
	if int(t) < len(legalFlags) {
		return legalFlags[t]
	}
	return 0
}

// Flag bits shared across frame types. Not every type uses every bit; see
// legalFlags and the per-type files for which apply where.
const (
	FlagAck        FrameFlags = 0x1
	FlagEndStream  FrameFlags = 0x1
	FlagEndHeaders FrameFlags = 0x4
	FlagPadded     FrameFlags = 0x8
	FlagPriority   FrameFlags = 0x20
	FlagCompressed FrameFlags = 0x20
)
