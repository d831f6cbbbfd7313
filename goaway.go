package h2c

import (
	"fmt"

	"github.com/clyra/h2c/h2utils"
)

// GoAwayFrame initiates graceful shutdown, telling the peer the highest
// stream id the sender processed (spec.md §3, GOAWAY).
type GoAwayFrame struct {
	lastStreamID uint32
	code         ErrorCode
	data         []byte
}

var _ Frame = (*GoAwayFrame)(nil)

func (ga *GoAwayFrame) Error() string {
	return fmt.Sprintf("last_stream_id=%d code=%s data=%q", ga.lastStreamID, ga.code, ga.data)
}

func (ga *GoAwayFrame) Type() FrameType { return FrameGoAway }

func (ga *GoAwayFrame) Reset() {
	ga.lastStreamID = 0
	ga.code = 0
	ga.data = ga.data[:0]
}

func (ga *GoAwayFrame) CopyTo(other *GoAwayFrame) {
	other.lastStreamID = ga.lastStreamID
	other.code = ga.code
	other.data = append(other.data[:0], ga.data...)
}

func (ga *GoAwayFrame) Code() ErrorCode     { return ga.code }
func (ga *GoAwayFrame) SetCode(c ErrorCode) { ga.code = c }

func (ga *GoAwayFrame) LastStreamID() uint32     { return ga.lastStreamID }
func (ga *GoAwayFrame) SetLastStreamID(id uint32) { ga.lastStreamID = id & (1<<31 - 1) }

func (ga *GoAwayFrame) Data() []byte     { return ga.data }
func (ga *GoAwayFrame) SetData(b []byte) { ga.data = append(ga.data[:0], b...) }

func (ga *GoAwayFrame) Deserialize(fh *FrameHeader) error {
	payload := fh.payload()
	if len(payload) < 8 {
		return ErrMissingBytes
	}

	ga.lastStreamID = h2utils.BytesToUint32(payload) & (1<<31 - 1)
	ga.code = ErrorCode(h2utils.BytesToUint32(payload[4:]))

	if len(payload) > 8 {
		ga.data = append(ga.data[:0], payload[8:]...)
	}

	return nil
}

func (ga *GoAwayFrame) Serialize(fh *FrameHeader) {
	payload := make([]byte, 0, 8+len(ga.data))
	payload = h2utils.AppendUint32Bytes(payload, ga.lastStreamID)
	payload = h2utils.AppendUint32Bytes(payload, uint32(ga.code))
	payload = append(payload, ga.data...)
	fh.setPayload(payload)
}
