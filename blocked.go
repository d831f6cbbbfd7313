package h2c

// BlockedFrame signals that the sender has data to send on a stream but
// is blocked by flow control (spec.md §4.E: empty payload). Never
// implemented by the teacher; added as one of the twelve tagged frame
// variants spec.md requires.
type BlockedFrame struct{}

var _ Frame = (*BlockedFrame)(nil)

func (b *BlockedFrame) Type() FrameType { return FrameBlocked }

func (b *BlockedFrame) Reset() {}

func (b *BlockedFrame) Deserialize(fh *FrameHeader) error {
	if fh.Len() != 0 {
		return protocolError("BLOCKED frame carries a non-empty payload")
	}
	return nil
}

func (b *BlockedFrame) Serialize(fh *FrameHeader) {
	fh.setPayload(nil)
}
