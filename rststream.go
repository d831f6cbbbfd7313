package h2c

import "github.com/clyra/h2c/h2utils"

// RstStreamFrame immediately terminates a stream (spec.md §3, RST_STREAM).
type RstStreamFrame struct {
	code ErrorCode
}

var _ Frame = (*RstStreamFrame)(nil)

func (rst *RstStreamFrame) Type() FrameType { return FrameRstStream }

func (rst *RstStreamFrame) Code() ErrorCode     { return rst.code }
func (rst *RstStreamFrame) SetCode(c ErrorCode) { rst.code = c }

func (rst *RstStreamFrame) Reset() { rst.code = 0 }

func (rst *RstStreamFrame) CopyTo(other *RstStreamFrame) { other.code = rst.code }

func (rst *RstStreamFrame) Deserialize(fh *FrameHeader) error {
	payload := fh.payload()
	if len(payload) < 4 {
		return ErrMissingBytes
	}
	rst.code = ErrorCode(h2utils.BytesToUint32(payload))
	return nil
}

func (rst *RstStreamFrame) Serialize(fh *FrameHeader) {
	fh.setPayload(h2utils.AppendUint32Bytes(nil, uint32(rst.code)))
}
