package h2c

// PingFrame measures round-trip time and verifies the connection is still
// live (spec.md §3, PING). The payload is always exactly 8 opaque bytes.
type PingFrame struct {
	ack  bool
	data [8]byte
}

var _ Frame = (*PingFrame)(nil)

func (p *PingFrame) Type() FrameType { return FramePing }

func (p *PingFrame) Reset() {
	p.ack = false
	p.data = [8]byte{}
}

func (p *PingFrame) CopyTo(other *PingFrame) {
	other.ack = p.ack
	other.data = p.data
}

func (p *PingFrame) Ack() bool     { return p.ack }
func (p *PingFrame) SetAck(v bool) { p.ack = v }

func (p *PingFrame) Data() []byte { return p.data[:] }

func (p *PingFrame) SetData(b []byte) { copy(p.data[:], b) }

func (p *PingFrame) Deserialize(fh *FrameHeader) error {
	payload := fh.payload()
	if len(payload) < 8 {
		return ErrMissingBytes
	}
	p.ack = fh.Flags().Has(FlagAck)
	copy(p.data[:], payload)
	return nil
}

func (p *PingFrame) Serialize(fh *FrameHeader) {
	if p.ack {
		fh.SetFlags(fh.Flags().Add(FlagAck))
	}
	fh.setPayload(p.data[:])
}
