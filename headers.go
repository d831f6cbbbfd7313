package h2c

import "github.com/clyra/h2c/h2utils"

// FrameWithHeaders is implemented by the two frame types that carry a
// (fragment of a) header block: HEADERS and CONTINUATION.
type FrameWithHeaders interface {
	Headers() []byte
}

// HeadersFrame opens a stream and carries a header block fragment, and
// optionally a stream priority (spec.md §3, HEADERS). weight is stored
// as the wire value (weight-1); Weight()/SetWeight() convert to/from
// the model-level range of 1-256 (spec.md §4.A).
type HeadersFrame struct {
	hasPadding bool
	dependency uint32
	exclusive  bool
	weight     uint8
	endStream  bool
	endHeaders bool
	rawHeaders []byte
}

var (
	_ Frame            = (*HeadersFrame)(nil)
	_ FrameWithHeaders = (*HeadersFrame)(nil)
)

func (h *HeadersFrame) Type() FrameType { return FrameHeaders }

func (h *HeadersFrame) Reset() {
	h.hasPadding = false
	h.dependency = 0
	h.exclusive = false
	h.weight = 0
	h.endStream = false
	h.endHeaders = false
	h.rawHeaders = h.rawHeaders[:0]
}

func (h *HeadersFrame) CopyTo(other *HeadersFrame) {
	other.hasPadding = h.hasPadding
	other.dependency = h.dependency
	other.exclusive = h.exclusive
	other.weight = h.weight
	other.endStream = h.endStream
	other.endHeaders = h.endHeaders
	other.rawHeaders = append(other.rawHeaders[:0], h.rawHeaders...)
}

// Headers returns the raw (HPACK-compressed) header block fragment.
func (h *HeadersFrame) Headers() []byte { return h.rawHeaders }

// SetHeaders replaces the raw header block fragment.
func (h *HeadersFrame) SetHeaders(b []byte) { h.rawHeaders = append(h.rawHeaders[:0], b...) }

// AppendHeaders appends b to the raw header block fragment, for
// reassembling a block split across CONTINUATION frames.
func (h *HeadersFrame) AppendHeaders(b []byte) { h.rawHeaders = append(h.rawHeaders, b...) }

func (h *HeadersFrame) EndStream() bool          { return h.endStream }
func (h *HeadersFrame) SetEndStream(value bool)  { h.endStream = value }
func (h *HeadersFrame) EndHeaders() bool         { return h.endHeaders }
func (h *HeadersFrame) SetEndHeaders(value bool) { h.endHeaders = value }

// HasPriority reports whether any of the dependency/weight/exclusive
// fields holds a non-default value; Serialize sets the PRIORITY flag only
// in that case. A received PRIORITY block with all-default fields
// (dependency 0, weight 1, not exclusive) reports false.
func (h *HeadersFrame) HasPriority() bool { return h.weight > 0 || h.dependency > 0 || h.exclusive }

func (h *HeadersFrame) StreamDependency() uint32 { return h.dependency }
func (h *HeadersFrame) SetStreamDependency(id uint32) { h.dependency = id & (1<<31 - 1) }

func (h *HeadersFrame) Exclusive() bool     { return h.exclusive }
func (h *HeadersFrame) SetExclusive(v bool) { h.exclusive = v }

// Weight returns the stream's priority weight, 1-256.
func (h *HeadersFrame) Weight() uint16 { return uint16(h.weight) + 1 }

// SetWeight sets the stream's priority weight; w must be in 1-256.
func (h *HeadersFrame) SetWeight(w uint16) { h.weight = byte(w - 1) }

func (h *HeadersFrame) Padding() bool     { return h.hasPadding }
func (h *HeadersFrame) SetPadding(v bool) { h.hasPadding = v }

func (h *HeadersFrame) Deserialize(fh *FrameHeader) error {
	flags := fh.Flags()
	payload := fh.payload()

	if flags.Has(FlagPadded) {
		var err error
		payload, err = h2utils.CutPadding(payload, len(payload))
		if err != nil {
			return err
		}
	}

	if flags.Has(FlagPriority) {
		if len(payload) < 5 {
			return ErrMissingBytes
		}
		dep := h2utils.BytesToUint32(payload)
		h.exclusive = dep&0x80000000 != 0
		h.dependency = dep & (1<<31 - 1)
		h.weight = payload[4]
		payload = payload[5:]
	}

	h.endStream = flags.Has(FlagEndStream)
	h.endHeaders = flags.Has(FlagEndHeaders)
	h.rawHeaders = append(h.rawHeaders[:0], payload...)

	return nil
}

func (h *HeadersFrame) Serialize(fh *FrameHeader) {
	if h.endStream {
		fh.SetFlags(fh.Flags().Add(FlagEndStream))
	}
	if h.endHeaders {
		fh.SetFlags(fh.Flags().Add(FlagEndHeaders))
	}

	payload := make([]byte, 0, 5+len(h.rawHeaders))
	if h.HasPriority() {
		fh.SetFlags(fh.Flags().Add(FlagPriority))
		dep := h.dependency
		if h.exclusive {
			dep |= 0x80000000
		}
		payload = h2utils.AppendUint32Bytes(payload, dep)
		payload = append(payload, h.weight)
	}
	payload = append(payload, h.rawHeaders...)

	if h.hasPadding {
		fh.SetFlags(fh.Flags().Add(FlagPadded))
		payload = h2utils.AddPadding(payload)
	}

	fh.setPayload(payload)
}
