package h2c

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferAppendAndRead(t *testing.T) {
	bb := AcquireByteBuffer()
	defer ReleaseByteBuffer(bb)

	bb.Append([]byte("hello "))
	bb.Append([]byte("world"))
	require.Equal(t, 11, bb.Size())

	got, err := bb.Read(5)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestByteBufferPeekDoesNotAdvance(t *testing.T) {
	bb := AcquireByteBuffer()
	defer ReleaseByteBuffer(bb)

	bb.Append([]byte("abcdef"))
	p, err := bb.Peek(3)
	require.NoError(t, err)
	require.Equal(t, "abc", string(p))

	got, err := bb.Read(3)
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))
}

func TestByteBufferShort(t *testing.T) {
	bb := AcquireByteBuffer()
	defer ReleaseByteBuffer(bb)

	bb.Append([]byte("ab"))
	_, err := bb.Read(3)
	require.Error(t, err)
}

func TestByteBufferDiscard(t *testing.T) {
	bb := AcquireByteBuffer()
	defer ReleaseByteBuffer(bb)

	bb.Append([]byte("0123456789"))
	bb.Discard(4)
	got, err := bb.Read(6)
	require.NoError(t, err)
	require.Equal(t, "456789", string(got))
}
