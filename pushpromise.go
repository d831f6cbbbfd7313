package h2c

import "github.com/clyra/h2c/h2utils"

// PushPromiseFrame announces a stream the server will use to push a
// response (spec.md §3, PUSH_PROMISE).
type PushPromiseFrame struct {
	hasPadding bool
	endHeaders bool
	promised   uint32
	header     []byte
}

var (
	_ Frame            = (*PushPromiseFrame)(nil)
	_ FrameWithHeaders = (*PushPromiseFrame)(nil)
)

func (pp *PushPromiseFrame) Type() FrameType { return FramePushPromise }

func (pp *PushPromiseFrame) Reset() {
	pp.hasPadding = false
	pp.endHeaders = false
	pp.promised = 0
	pp.header = pp.header[:0]
}

func (pp *PushPromiseFrame) CopyTo(other *PushPromiseFrame) {
	other.hasPadding = pp.hasPadding
	other.endHeaders = pp.endHeaders
	other.promised = pp.promised
	other.header = append(other.header[:0], pp.header...)
}

// Headers returns the raw header block fragment for the promised request.
func (pp *PushPromiseFrame) Headers() []byte { return pp.header }

func (pp *PushPromiseFrame) SetHeaders(b []byte) { pp.header = append(pp.header[:0], b...) }

func (pp *PushPromiseFrame) PromisedStreamID() uint32     { return pp.promised }
func (pp *PushPromiseFrame) SetPromisedStreamID(id uint32) { pp.promised = id & (1<<31 - 1) }

func (pp *PushPromiseFrame) EndHeaders() bool     { return pp.endHeaders }
func (pp *PushPromiseFrame) SetEndHeaders(v bool) { pp.endHeaders = v }

func (pp *PushPromiseFrame) Padding() bool     { return pp.hasPadding }
func (pp *PushPromiseFrame) SetPadding(v bool) { pp.hasPadding = v }

func (pp *PushPromiseFrame) Deserialize(fh *FrameHeader) error {
	payload := fh.payload()
	flags := fh.Flags()

	if flags.Has(FlagPadded) {
		var err error
		payload, err = h2utils.CutPadding(payload, len(payload))
		if err != nil {
			return err
		}
	}

	if len(payload) < 4 {
		return ErrMissingBytes
	}

	pp.promised = h2utils.BytesToUint32(payload) & (1<<31 - 1)
	pp.header = append(pp.header[:0], payload[4:]...)
	pp.endHeaders = flags.Has(FlagEndHeaders)

	return nil
}

func (pp *PushPromiseFrame) Serialize(fh *FrameHeader) {
	if pp.endHeaders {
		fh.SetFlags(fh.Flags().Add(FlagEndHeaders))
	}

	payload := h2utils.AppendUint32Bytes(make([]byte, 0, 4+len(pp.header)), pp.promised)
	payload = append(payload, pp.header...)

	if pp.hasPadding {
		fh.SetFlags(fh.Flags().Add(FlagPadded))
		payload = h2utils.AddPadding(payload)
	}

	fh.setPayload(payload)
}
