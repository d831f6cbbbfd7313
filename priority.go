package h2c

import "github.com/clyra/h2c/h2utils"

// PriorityFrame carries a stream's dependency/weight (spec.md §3,
// PRIORITY). Either endpoint may send PRIORITY at any time, including for
// a stream that has not yet been opened or has since been closed; this
// core tracks the latest advertised dependency/weight per stream, but
// does not build or re-balance a full priority dependency tree.
// weight is stored as the wire value (weight-1, spec.md §3's
// "1-byte weight-1"); Weight()/SetWeight() convert to/from the
// model-level range of 1-256 (spec.md §4.A: "weight (1-256)").
type PriorityFrame struct {
	dependency uint32
	exclusive  bool
	weight     byte
}

var _ Frame = (*PriorityFrame)(nil)

func (p *PriorityFrame) Type() FrameType { return FramePriority }

func (p *PriorityFrame) Reset() {
	p.dependency = 0
	p.exclusive = false
	p.weight = 0
}

func (p *PriorityFrame) CopyTo(other *PriorityFrame) {
	other.dependency = p.dependency
	other.exclusive = p.exclusive
	other.weight = p.weight
}

func (p *PriorityFrame) StreamDependency() uint32 { return p.dependency }
func (p *PriorityFrame) SetStreamDependency(id uint32) { p.dependency = id & (1<<31 - 1) }

func (p *PriorityFrame) Exclusive() bool     { return p.exclusive }
func (p *PriorityFrame) SetExclusive(v bool) { p.exclusive = v }

// Weight returns the stream's priority weight, 1-256.
func (p *PriorityFrame) Weight() uint16 { return uint16(p.weight) + 1 }

// SetWeight sets the stream's priority weight; w must be in 1-256.
func (p *PriorityFrame) SetWeight(w uint16) { p.weight = byte(w - 1) }

func (p *PriorityFrame) Deserialize(fh *FrameHeader) error {
	payload := fh.payload()
	if len(payload) < 5 {
		return ErrMissingBytes
	}

	dep := h2utils.BytesToUint32(payload)
	p.exclusive = dep&0x80000000 != 0
	p.dependency = dep & (1<<31 - 1)
	p.weight = payload[4]

	return nil
}

func (p *PriorityFrame) Serialize(fh *FrameHeader) {
	dep := p.dependency
	if p.exclusive {
		dep |= 0x80000000
	}
	payload := h2utils.AppendUint32Bytes(make([]byte, 0, 5), dep)
	payload = append(payload, p.weight)
	fh.setPayload(payload)
}
