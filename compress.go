package h2c

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
)

// DataCompressor deflates/inflates DATA payloads when both peers'
// negotiated SETTINGS advertise compress_data (spec.md §4.E, §5). Each
// call compresses or decompresses one complete DATA frame payload as
// its own self-terminating DEFLATE stream, so a frame never depends on
// state from a sibling frame and frames may be processed independently
// of arrival order within a stream.
type DataCompressor struct {
	level int
	mu    sync.Mutex
	buf   bytes.Buffer
}

// NewDataCompressor returns a compressor at the given flate level
// (flate.DefaultCompression is a sane default).
func NewDataCompressor(level int) *DataCompressor {
	return &DataCompressor{level: level}
}

// Deflate compresses payload, returning the bytes a DATA frame should
// carry with the COMPRESSED flag set.
func (c *DataCompressor) Deflate(payload []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf.Reset()
	w, err := flate.NewWriter(&c.buf, c.level)
	if err != nil {
		return nil, compressionError("deflate: " + err.Error())
	}
	if _, err := w.Write(payload); err != nil {
		return nil, compressionError("deflate write: " + err.Error())
	}
	if err := w.Close(); err != nil {
		return nil, compressionError("deflate close: " + err.Error())
	}
	return append([]byte(nil), c.buf.Bytes()...), nil
}

// Inflate decompresses the payload of a DATA frame that arrived with
// the COMPRESSED flag set.
func (c *DataCompressor) Inflate(payload []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(payload))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, compressionError("inflate: " + err.Error())
	}
	return out, nil
}
