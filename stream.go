package h2c

// StreamState is a node of the per-stream state machine (spec.md §4.G).
type StreamState uint8

const (
	StreamIdle StreamState = iota
	StreamReservedLocal
	StreamReservedRemote
	StreamOpen
	StreamHalfClosedLocal
	StreamHalfClosedRemote
	StreamClosed
)

func (ss StreamState) String() string {
	switch ss {
	case StreamIdle:
		return "idle"
	case StreamReservedLocal:
		return "reserved_local"
	case StreamReservedRemote:
		return "reserved_remote"
	case StreamOpen:
		return "open"
	case StreamHalfClosedLocal:
		return "half_closed_local"
	case StreamHalfClosedRemote:
		return "half_closed_remote"
	case StreamClosed:
		return "closed"
	}
	return "unknown"
}

// StreamEvents are the named callbacks a Stream fires as frames
// transition its state (spec.md §4.G). Every field is optional.
type StreamEvents struct {
	Active      func()
	Reserved    func()
	HalfClose   func()
	Close       func(err error)
	Headers     func(payload []byte)
	Data        func(payload []byte)
	Priority    func(weight uint16, dependency uint32, exclusive bool)
	Frame       func(fr Frame)
	Window      func(v uint32)
	LocalWindow func(v uint32)
}

// Stream is one HTTP/2 stream: its state machine, its two flow-control
// windows, and the send-side buffer for DATA blocked on the remote
// window (spec.md §4.F/§4.G). A Stream does no I/O itself; Transition
// is fed frames already parsed (or about to be serialized), and
// QueueData chunks what a caller should put on the wire next.
type Stream struct {
	id    uint32
	state StreamState

	local  *FlowController
	remote *FlowController

	maxFrameSize uint32

	events StreamEvents
	data   interface{}

	pending           []byte
	pendingEndStream  bool
	pendingCompressed bool

	// dataCodec, when set, deflates outbound DATA payloads and inflates
	// inbound ones under the connection's negotiated compress_data
	// setting (SPEC_FULL.md §2.1). Connection-scoped in practice: a
	// driver assigns the same *DataCompressor to every stream of a
	// connection that negotiated compress_data, nil otherwise.
	dataCodec *DataCompressor
}

// SetDataCodec installs (or clears, with nil) the compressor used for
// this stream's DATA payloads.
func (s *Stream) SetDataCodec(c *DataCompressor) { s.dataCodec = c }

// NewStream returns an idle stream with the given per-direction window
// sizes and the remote peer's negotiated max_frame_size.
func NewStream(id uint32, localWindow, remoteWindow, maxFrameSize uint32, events StreamEvents, data interface{}) *Stream {
	return &Stream{
		id:           id,
		state:        StreamIdle,
		local:        NewFlowController(localWindow, localWindow),
		remote:       NewFlowController(remoteWindow, remoteWindow),
		maxFrameSize: maxFrameSize,
		events:       events,
		data:         data,
	}
}

func (s *Stream) ID() uint32                  { return s.id }
func (s *Stream) State() StreamState          { return s.state }
func (s *Stream) Data() interface{}           { return s.data }
func (s *Stream) LocalFlow() *FlowController  { return s.local }
func (s *Stream) RemoteFlow() *FlowController { return s.remote }

func (s *Stream) fire(cb func()) {
	if cb != nil {
		cb()
	}
}

// Transition applies fr to the stream's state machine. sending is true
// when fr is about to be written by us, false when fr was just parsed
// off the wire. Once the stream reaches StreamClosed, further calls leave
// the state unchanged and fire no event (spec.md §4.G: "once closed,
// stays closed"); only received DATA is still counted, see below.
func (s *Stream) Transition(fr Frame, sending bool) error {
	if s.state == StreamClosed {
		// DATA received on a closed stream still counts against this
		// stream's local flow controller before being discarded
		// (RFC 7540 §6.9).
		if d, ok := fr.(*DataFrame); ok && !sending {
			s.local.Receive(uint32(len(d.Data())))
		}
		return nil
	}

	switch h := fr.(type) {
	case *HeadersFrame:
		return s.onHeaders(h, sending)
	case *DataFrame:
		return s.onData(h, sending)
	case *ContinuationFrame:
		return s.onContinuation(h)
	case *PriorityFrame:
		return s.onPriority(h)
	case *RstStreamFrame:
		s.closeWith(NewError(h.Code(), "RST_STREAM"))
		return nil
	case *WindowUpdateFrame:
		return s.onWindowUpdate(h, sending)
	case *PushPromiseFrame:
		return s.onPushPromise(sending)
	default:
		if s.events.Frame != nil {
			s.events.Frame(fr)
		}
		return nil
	}
}

func (s *Stream) activate() {
	if s.state == StreamIdle {
		s.state = StreamOpen
		s.fire(s.events.Active)
	}
}

func (s *Stream) onPushPromise(sending bool) error {
	if s.state != StreamIdle {
		return protocolError("PUSH_PROMISE on a non-idle stream")
	}
	if sending {
		s.state = StreamReservedLocal
	} else {
		s.state = StreamReservedRemote
	}
	s.fire(s.events.Reserved)
	return nil
}

func (s *Stream) onPriority(fr *PriorityFrame) error {
	if s.events.Priority != nil {
		s.events.Priority(fr.Weight(), fr.StreamDependency(), fr.Exclusive())
	}
	return nil
}

// canSendData reports whether a DATA (or END_STREAM-carrying HEADERS)
// frame may cross the wire in the given direction from the stream's
// current state.
func (s *Stream) canSendData(sending bool) bool {
	switch s.state {
	case StreamOpen:
		return true
	case StreamHalfClosedRemote:
		return sending
	case StreamHalfClosedLocal:
		return !sending
	}
	return false
}

func (s *Stream) onHeaders(fr *HeadersFrame, sending bool) error {
	switch s.state {
	case StreamIdle:
		s.activate()
	case StreamReservedLocal, StreamReservedRemote:
		// response/trailer headers on a reserved (pushed) stream.
	case StreamOpen, StreamHalfClosedLocal, StreamHalfClosedRemote:
		if !s.canSendData(sending) {
			return protocolError("HEADERS not allowed in this direction")
		}
	default:
		return protocolError("HEADERS not allowed in state " + s.state.String())
	}

	if s.events.Headers != nil {
		s.events.Headers(fr.Headers())
	}

	if fr.EndStream() {
		s.halfCloseOrClose(sending)
	}
	return nil
}

func (s *Stream) onContinuation(fr *ContinuationFrame) error {
	if s.events.Headers != nil {
		s.events.Headers(fr.Headers())
	}
	return nil
}

func (s *Stream) onData(fr *DataFrame, sending bool) error {
	if !s.canSendData(sending) {
		return streamError(s.id, StreamClosedError)
	}

	payload := fr.Data()
	if !sending && s.dataCodec != nil && fr.Compressed() {
		out, err := s.dataCodec.Inflate(payload)
		if err != nil {
			return compressionError("inflate DATA: " + err.Error())
		}
		payload = out
	}

	if sending {
		s.remote.Receive(uint32(len(payload)))
	} else {
		s.local.Receive(uint32(len(payload)))
		if s.events.LocalWindow != nil {
			s.events.LocalWindow(uint32(s.local.Available()))
		}
	}

	if s.events.Data != nil {
		s.events.Data(payload)
	}

	if fr.EndStream() {
		s.halfCloseOrClose(sending)
	}
	return nil
}

func (s *Stream) halfCloseOrClose(sending bool) {
	switch s.state {
	case StreamOpen:
		if sending {
			s.state = StreamHalfClosedLocal
		} else {
			s.state = StreamHalfClosedRemote
		}
		s.fire(s.events.HalfClose)
	case StreamHalfClosedLocal, StreamHalfClosedRemote, StreamReservedLocal, StreamReservedRemote:
		s.closeWith(nil)
	}
}

func (s *Stream) closeWith(err error) {
	if s.state == StreamClosed {
		return
	}
	s.state = StreamClosed
	if s.events.Close != nil {
		s.events.Close(err)
	}
}

func (s *Stream) onWindowUpdate(fr *WindowUpdateFrame, sending bool) error {
	if sending {
		return nil
	}
	s.remote.ApplyWindowUpdate(fr.Increment())
	if s.events.Window != nil {
		s.events.Window(fr.Increment())
	}
	return nil
}

// PendingData reports the outgoing DATA currently buffered, blocked on
// the remote window.
func (s *Stream) PendingData() []byte { return s.pending }

// QueueData deflates payload (when a data codec is installed, per
// SPEC_FULL.md §2.1) and splits the result into chunks no larger than
// maxFrameSize and no larger than the remote window currently allows,
// returning the chunks ready to send now and whether they carry
// compressed bytes (callers must set DataFrame.SetCompressed(true) on
// every frame built from them in that case). Whatever doesn't fit is
// buffered and released by ReleasePending as WINDOW_UPDATE frames
// arrive (spec.md §4.F/§4.G).
func (s *Stream) QueueData(payload []byte, endStream bool) (chunks [][]byte, compressed bool, err error) {
	if s.dataCodec != nil {
		out, derr := s.dataCodec.Deflate(payload)
		if derr != nil {
			return nil, false, derr
		}
		payload = out
		compressed = true
	}
	return s.chunk(payload, endStream, compressed), compressed, nil
}

// chunk splits an already-deflated-if-applicable payload into frame-
// sized pieces, buffering whatever the remote window can't yet take.
func (s *Stream) chunk(payload []byte, endStream, compressed bool) [][]byte {
	var ready [][]byte
	avail := s.remote.Available()

	for len(payload) > 0 && avail > 0 {
		n := int64(s.maxFrameSize)
		if avail < n {
			n = avail
		}
		if int64(len(payload)) < n {
			n = int64(len(payload))
		}
		piece := payload[:n]
		payload = payload[n:]
		s.remote.Receive(uint32(n))
		avail -= n
		ready = append(ready, piece)
	}

	if len(payload) > 0 {
		s.pending = append(s.pending[:0], payload...)
		s.pendingEndStream = endStream
		s.pendingCompressed = compressed
	} else {
		s.pendingEndStream = false
		s.pendingCompressed = false
	}

	return ready
}

// ReleasePending drains as much of the buffered DATA as the window now
// (after a WINDOW_UPDATE) allows, returning the freshly sendable
// chunks, whether that drained all of it (including the stream's end),
// and whether those chunks carry compressed bytes. The buffered bytes
// were already deflated by QueueData if a codec was installed, so this
// never compresses again.
func (s *Stream) ReleasePending() (chunks [][]byte, endStream, compressed bool) {
	if len(s.pending) == 0 {
		return nil, false, false
	}
	payload := s.pending
	s.pending = nil
	wasEnd := s.pendingEndStream
	wasCompressed := s.pendingCompressed
	s.pendingEndStream = false
	s.pendingCompressed = false
	chunks = s.chunk(payload, wasEnd, wasCompressed)
	return chunks, wasEnd && len(s.pending) == 0, wasCompressed
}
