package h2c

// ContinuationFrame carries a header block fragment continuing a
// preceding HEADERS or PUSH_PROMISE frame (spec.md §3, CONTINUATION).
type ContinuationFrame struct {
	endHeaders bool
	rawHeaders []byte
}

var (
	_ Frame            = (*ContinuationFrame)(nil)
	_ FrameWithHeaders = (*ContinuationFrame)(nil)
)

func (c *ContinuationFrame) Type() FrameType { return FrameContinuation }

func (c *ContinuationFrame) Reset() {
	c.endHeaders = false
	c.rawHeaders = c.rawHeaders[:0]
}

func (c *ContinuationFrame) CopyTo(other *ContinuationFrame) {
	other.endHeaders = c.endHeaders
	other.rawHeaders = append(other.rawHeaders[:0], c.rawHeaders...)
}

func (c *ContinuationFrame) Headers() []byte { return c.rawHeaders }

func (c *ContinuationFrame) SetHeaders(b []byte) { c.rawHeaders = append(c.rawHeaders[:0], b...) }

func (c *ContinuationFrame) AppendHeaders(b []byte) { c.rawHeaders = append(c.rawHeaders, b...) }

func (c *ContinuationFrame) EndHeaders() bool     { return c.endHeaders }
func (c *ContinuationFrame) SetEndHeaders(v bool) { c.endHeaders = v }

func (c *ContinuationFrame) Deserialize(fh *FrameHeader) error {
	c.endHeaders = fh.Flags().Has(FlagEndHeaders)
	c.rawHeaders = append(c.rawHeaders[:0], fh.payload()...)
	return nil
}

func (c *ContinuationFrame) Serialize(fh *FrameHeader) {
	if c.endHeaders {
		fh.SetFlags(fh.Flags().Add(FlagEndHeaders))
	}
	fh.setPayload(c.rawHeaders)
}
