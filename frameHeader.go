package h2c

import "sync"

// FrameHeaderSize is the fixed 9-byte frame header size (spec.md §4.A).
const FrameHeaderSize = 9

var frameHeaderPool = sync.Pool{
	New: func() interface{} {
		return &FrameHeader{}
	},
}

// FrameHeader is the 9-byte envelope shared by every frame type, plus the
// decoded Frame body it carries (spec.md §4.A-B).
//
// A FrameHeader instance must not be used from more than one goroutine at a
// time; the core is single-threaded and event-driven by design (spec.md §9).
type FrameHeader struct {
	length int
	kind   FrameType
	flags  FrameFlags
	stream uint32

	maxLen uint32

	fr           Frame
	payloadBytes []byte
}

// AcquireFrameHeader returns a reset FrameHeader from the pool.
func AcquireFrameHeader() *FrameHeader {
	fh := frameHeaderPool.Get().(*FrameHeader)
	fh.Reset()
	return fh
}

// ReleaseFrameHeader releases fh's body frame and returns fh to the pool.
func ReleaseFrameHeader(fh *FrameHeader) {
	if fh.fr != nil {
		ReleaseFrame(fh.fr)
	}
	frameHeaderPool.Put(fh)
}

// Reset clears fh back to its zero value.
func (fh *FrameHeader) Reset() {
	fh.length = 0
	fh.kind = 0
	fh.flags = 0
	fh.stream = 0
	fh.maxLen = DefaultMaxFrameSize
	fh.fr = nil
	fh.payloadBytes = fh.payloadBytes[:0]
}

func (fh *FrameHeader) Type() FrameType   { return fh.kind }
func (fh *FrameHeader) Flags() FrameFlags { return fh.flags }
func (fh *FrameHeader) SetFlags(f FrameFlags) { fh.flags = f }
func (fh *FrameHeader) Stream() uint32    { return fh.stream }
func (fh *FrameHeader) SetStream(id uint32) { fh.stream = id }
func (fh *FrameHeader) Len() int          { return fh.length }
func (fh *FrameHeader) MaxLen() uint32    { return fh.maxLen }
func (fh *FrameHeader) SetMaxLen(n uint32) { fh.maxLen = n }

// Body returns the decoded frame payload.
func (fh *FrameHeader) Body() Frame {
	return fh.fr
}

// SetBody attaches fr as fh's payload, deriving fh's Type from it.
func (fh *FrameHeader) SetBody(fr Frame) {
	if fr == nil {
		panic("h2c: FrameHeader.SetBody called with a nil Frame")
	}
	fh.kind = fr.Type()
	fh.fr = fr
}

// Parse attempts to decode one frame header + payload from buf, starting at
// its read cursor. If fewer bytes than the frame needs have arrived, Parse
// returns (nil, nil) WITHOUT advancing buf's cursor (spec.md §4.E: parse
// must be non-destructive on short input, so callers can retry once more
// bytes arrive).
func Parse(buf *ByteBuffer) (*FrameHeader, error) {
	header, err := buf.Peek(FrameHeaderSize)
	if err != nil {
		return nil, nil
	}

	length := int(header[0])<<16 | int(header[1])<<8 | int(header[2])
	kind := FrameType(header[3])
	flags := FrameFlags(header[4])
	stream := (uint32(header[5])<<24 | uint32(header[6])<<16 | uint32(header[7])<<8 | uint32(header[8])) & (1<<31 - 1)

	if buf.Size() < FrameHeaderSize+length {
		return nil, nil
	}

	fh := AcquireFrameHeader()
	fh.length = length
	fh.kind = kind
	fh.flags = flags
	fh.stream = stream

	if fh.maxLen != 0 && uint32(length) > fh.maxLen {
		buf.Discard(FrameHeaderSize + length)
		ReleaseFrameHeader(fh)
		return nil, ErrPayloadExceeds
	}

	fr := AcquireFrame(kind)
	if fr == nil {
		buf.Discard(FrameHeaderSize + length)
		ReleaseFrameHeader(fh)
		return nil, ErrUnknownFrameType
	}
	fh.fr = fr

	buf.Discard(FrameHeaderSize)
	payload, err := buf.Read(length)
	if err != nil {
		// already validated Size() above; unreachable in practice.
		return nil, err
	}
	fh.payloadBytes = append(fh.payloadBytes[:0], payload...)

	if err := fr.Deserialize(fh); err != nil {
		ReleaseFrameHeader(fh)
		return nil, err
	}

	return fh, nil
}

// WriteTo serializes fh's body and appends the wire bytes (9-byte header +
// payload) to dst.
func (fh *FrameHeader) WriteTo(dst *ByteBuffer) {
	fh.fr.Serialize(fh)

	payload := fh.payloadBytes
	fh.length = len(payload)

	var header [FrameHeaderSize]byte
	header[0] = byte(fh.length >> 16)
	header[1] = byte(fh.length >> 8)
	header[2] = byte(fh.length)
	header[3] = byte(fh.kind)
	header[4] = byte(fh.flags)
	header[5] = byte(fh.stream >> 24)
	header[6] = byte(fh.stream >> 16)
	header[7] = byte(fh.stream >> 8)
	header[8] = byte(fh.stream)

	dst.Append(header[:])
	dst.Append(payload)
}

// setPayload stages the encoded payload bytes a Frame.Serialize call
// produces, to be appended to the wire header by WriteTo.
func (fh *FrameHeader) setPayload(b []byte) {
	fh.payloadBytes = append(fh.payloadBytes[:0], b...)
}

// payload returns the raw payload bytes Parse read for this header, for
// Frame.Deserialize implementations to consume.
func (fh *FrameHeader) payload() []byte {
	return fh.payloadBytes
}
