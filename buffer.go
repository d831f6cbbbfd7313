package h2c

import (
	"errors"

	"github.com/valyala/bytebufferpool"
)

// ErrShortBuffer is returned by ByteBuffer.Read/ReadUint32/GetByte when the
// buffer does not hold enough unread bytes to satisfy the request.
var ErrShortBuffer = errors.New("h2c: short buffer")

var bufferPool bytebufferpool.Pool

// ByteBuffer is a growable byte sequence with a read cursor, the wire-level
// building block the frame codec and the HPACK codec are built on. It owns
// no exported fields; all access goes through named helpers so the backing
// array is never re-exposed as raw memory (spec.md §9 design note).
type ByteBuffer struct {
	buf *bytebufferpool.ByteBuffer
	off int // read cursor
}

// AcquireByteBuffer returns an empty ByteBuffer from the pool.
func AcquireByteBuffer() *ByteBuffer {
	return &ByteBuffer{buf: bufferPool.Get()}
}

// ReleaseByteBuffer returns bb to the pool. bb must not be used afterwards.
func ReleaseByteBuffer(bb *ByteBuffer) {
	bufferPool.Put(bb.buf)
	bb.buf = nil
}

// NewByteBuffer returns a ByteBuffer whose initial contents are a copy of
// b. Mostly useful in tests.
func NewByteBuffer(b []byte) *ByteBuffer {
	bb := &ByteBuffer{buf: bufferPool.Get()}
	bb.buf.Set(b)
	return bb
}

// Reset empties the buffer and rewinds the cursor.
func (bb *ByteBuffer) Reset() {
	bb.buf.Reset()
	bb.off = 0
}

// Append appends b to the buffer, past the write end (the cursor is
// unaffected).
func (bb *ByteBuffer) Append(b []byte) {
	bb.buf.Write(b)
}

// AppendByte appends a single byte.
func (bb *ByteBuffer) AppendByte(c byte) {
	bb.buf.WriteByte(c)
}

// AppendUint32 appends n big-endian.
func (bb *ByteBuffer) AppendUint32(n uint32) {
	bb.Append([]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
}

// Prepend inserts b at the head of the unread region, so b becomes the
// next bytes read. The already-read prefix is dropped and the cursor is
// reset to the start of the new contents.
func (bb *ByteBuffer) Prepend(b []byte) {
	rest := bb.buf.B[bb.off:]
	merged := make([]byte, 0, len(b)+len(rest))
	merged = append(merged, b...)
	merged = append(merged, rest...)
	bb.buf.Reset()
	bb.buf.Write(merged)
	bb.off = 0
}

// Bytes returns the unread portion of the buffer. The returned slice aliases
// the buffer's storage and is invalidated by the next mutating call.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.buf.B[bb.off:]
}

// Size returns the number of unread bytes.
func (bb *ByteBuffer) Size() int {
	return len(bb.buf.B) - bb.off
}

// Empty reports whether there are no unread bytes left.
func (bb *ByteBuffer) Empty() bool {
	return bb.Size() == 0
}

// Peek returns the next n unread bytes without advancing the cursor. It
// fails if fewer than n bytes are available.
func (bb *ByteBuffer) Peek(n int) ([]byte, error) {
	if bb.Size() < n {
		return nil, ErrShortBuffer
	}
	return bb.buf.B[bb.off : bb.off+n], nil
}

// Read consumes and returns the next n unread bytes, advancing the cursor.
// It fails without advancing the cursor if fewer than n bytes are available.
func (bb *ByteBuffer) Read(n int) ([]byte, error) {
	b, err := bb.Peek(n)
	if err != nil {
		return nil, err
	}
	bb.off += n
	return b, nil
}

// GetByte consumes and returns a single byte.
func (bb *ByteBuffer) GetByte() (byte, error) {
	b, err := bb.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint32 consumes and returns the next 4 bytes as a big-endian uint32.
func (bb *ByteBuffer) ReadUint32() (uint32, error) {
	b, err := bb.Read(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// Slice returns a copy of n unread bytes starting off bytes past the
// cursor, without advancing the cursor. It is used by the frame codec to
// look ahead at a frame's declared length before deciding whether the full
// frame has arrived.
func (bb *ByteBuffer) Slice(off, n int) ([]byte, error) {
	if bb.Size() < off+n {
		return nil, ErrShortBuffer
	}
	start := bb.off + off
	out := make([]byte, n)
	copy(out, bb.buf.B[start:start+n])
	return out, nil
}

// Discard advances the cursor by n bytes without returning them. Used after
// Peek/Slice look-aheads have validated the data.
func (bb *ByteBuffer) Discard(n int) error {
	if bb.Size() < n {
		return ErrShortBuffer
	}
	bb.off += n
	return nil
}

// Compact drops the already-read prefix, so future growth doesn't carry it.
func (bb *ByteBuffer) Compact() {
	if bb.off == 0 {
		return
	}
	rest := append([]byte(nil), bb.buf.B[bb.off:]...)
	bb.buf.Reset()
	bb.buf.Write(rest)
	bb.off = 0
}
