package h2c

import "github.com/clyra/h2c/h2utils"

// WindowUpdateFrame adjusts a flow-control window, either the
// connection's (stream id 0) or a single stream's (spec.md §3,
// WINDOW_UPDATE; §5 flow control).
type WindowUpdateFrame struct {
	increment uint32
}

var _ Frame = (*WindowUpdateFrame)(nil)

func (wu *WindowUpdateFrame) Type() FrameType { return FrameWindowUpdate }

func (wu *WindowUpdateFrame) Reset() { wu.increment = 0 }

func (wu *WindowUpdateFrame) CopyTo(other *WindowUpdateFrame) { other.increment = wu.increment }

func (wu *WindowUpdateFrame) Increment() uint32     { return wu.increment }
func (wu *WindowUpdateFrame) SetIncrement(n uint32) { wu.increment = n }

func (wu *WindowUpdateFrame) Deserialize(fh *FrameHeader) error {
	payload := fh.payload()
	if len(payload) < 4 {
		return ErrMissingBytes
	}

	increment := h2utils.BytesToUint32(payload) & (1<<31 - 1)
	if increment == 0 {
		return protocolError("WINDOW_UPDATE increment of 0")
	}
	wu.increment = increment

	return nil
}

func (wu *WindowUpdateFrame) Serialize(fh *FrameHeader) {
	fh.setPayload(h2utils.AppendUint32Bytes(nil, wu.increment))
}
