package h2c

import "sync"

// SettingID identifies a recognized SETTINGS parameter (spec.md §3). This
// draft's registry has five entries; RFC 7540's final MAX_HEADER_LIST_SIZE
// does not exist here, and COMPRESS_DATA (a per-connection DATA-compression
// toggle, see compress.go) does, which the final standard later dropped.
type SettingID uint16

const (
	SettingHeaderTableSize      SettingID = 0x1
	SettingEnablePush           SettingID = 0x2
	SettingMaxConcurrentStreams SettingID = 0x3
	SettingInitialWindowSize    SettingID = 0x4
	SettingCompressData        SettingID = 0x5
)

// Default settings (spec.md §6).
const (
	DefaultHeaderTableSize   uint32 = 4096
	DefaultInitialWindowSize uint32 = 65535
	DefaultMaxFrameSize      uint32 = 1 << 14
	MaxWindowSize            uint32 = 1<<31 - 1
)

var settingsPool = sync.Pool{
	New: func() interface{} {
		return &Settings{}
	},
}

// Settings is a mapping from recognized setting names to 32-bit values
// (spec.md §3). Unknown ids are ignored on receive.
type Settings struct {
	HeaderTableSize      uint32
	EnablePush           bool
	MaxConcurrentStreams uint32
	InitialWindowSize    uint32
	CompressData         bool

	hasMaxConcurrentStreams bool
}

// AcquireSettings returns a Settings with the wire defaults from the pool.
func AcquireSettings() *Settings {
	s := settingsPool.Get().(*Settings)
	s.Reset()
	return s
}

// ReleaseSettings returns s to the pool.
func ReleaseSettings(s *Settings) {
	settingsPool.Put(s)
}

// Reset restores default settings values.
func (s *Settings) Reset() {
	s.HeaderTableSize = DefaultHeaderTableSize
	s.EnablePush = true
	s.MaxConcurrentStreams = 0
	s.InitialWindowSize = DefaultInitialWindowSize
	s.CompressData = false
	s.hasMaxConcurrentStreams = false
}

// Decode parses a SETTINGS frame payload (a sequence of id:16,value:32
// pairs) into s. Unknown ids are silently ignored, matching spec.md §4.E.
func (s *Settings) Decode(payload []byte) error {
	if len(payload)%6 != 0 {
		return protocolError("SETTINGS payload length is not a multiple of 6")
	}
	for i := 0; i+6 <= len(payload); i += 6 {
		id := SettingID(uint16(payload[i])<<8 | uint16(payload[i+1]))
		value := uint32(payload[i+2])<<24 | uint32(payload[i+3])<<16 |
			uint32(payload[i+4])<<8 | uint32(payload[i+5])

		switch id {
		case SettingHeaderTableSize:
			s.HeaderTableSize = value
		case SettingEnablePush:
			s.EnablePush = value != 0
		case SettingMaxConcurrentStreams:
			s.MaxConcurrentStreams = value
			s.hasMaxConcurrentStreams = true
		case SettingInitialWindowSize:
			if value > MaxWindowSize {
				return &ProtocolError{Msg: "initial window size exceeds 2^31-1"}
			}
			s.InitialWindowSize = value
		case SettingCompressData:
			s.CompressData = value != 0
		default:
			// unrecognized id: ignored, per spec.md §3.
		}
	}
	return nil
}

// Encode appends the wire representation of s to dst, emitting only the
// fields that differ from "absent", matching the teacher's Settings.Encode.
func (s *Settings) Encode(dst []byte) []byte {
	dst = appendSetting(dst, SettingHeaderTableSize, s.HeaderTableSize)
	if !s.EnablePush {
		dst = appendSetting(dst, SettingEnablePush, 0)
	}
	if s.hasMaxConcurrentStreams {
		dst = appendSetting(dst, SettingMaxConcurrentStreams, s.MaxConcurrentStreams)
	}
	dst = appendSetting(dst, SettingInitialWindowSize, s.InitialWindowSize)
	if s.CompressData {
		dst = appendSetting(dst, SettingCompressData, 1)
	}
	return dst
}

func appendSetting(dst []byte, id SettingID, value uint32) []byte {
	dst = append(dst, byte(id>>8), byte(id))
	dst = append(dst, byte(value>>24), byte(value>>16), byte(value>>8), byte(value))
	return dst
}
