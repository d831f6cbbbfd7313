package h2utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint32RoundTrip(t *testing.T) {
	b := make([]byte, 4)
	Uint32ToBytes(b, 0xdeadbeef)
	require.Equal(t, uint32(0xdeadbeef), BytesToUint32(b))
}

func TestUint24RoundTrip(t *testing.T) {
	b := make([]byte, 3)
	Uint24ToBytes(b, 1<<14-1)
	require.Equal(t, uint32(1<<14-1), BytesToUint24(b))
}

func TestUint16RoundTrip(t *testing.T) {
	b := make([]byte, 2)
	Uint16ToBytes(b, 6)
	require.Equal(t, uint16(6), BytesToUint16(b))
}

func TestEqualsFold(t *testing.T) {
	require.True(t, EqualsFold([]byte("Content-Type"), []byte("content-type")))
	require.False(t, EqualsFold([]byte("Content-Type"), []byte("content-length")))
}

func TestToLower(t *testing.T) {
	b := []byte("Accept-Encoding")
	require.Equal(t, "accept-encoding", string(ToLower(b)))
}

func TestCutPadding(t *testing.T) {
	str := []byte{13}
	str = append(str, "8971293nfasv7asnrnqw9bma 237urkf8KifgiMKFG98UIM8fgnb kifgnrA7JKLK"...)

	p, err := CutPadding(str, len(str))
	require.NoError(t, err)
	require.Len(t, p, len(str)-1-13)
}

func TestCutPaddingShort(t *testing.T) {
	_, err := CutPadding([]byte{200}, 5)
	require.Error(t, err)
}

func TestAddPadding(t *testing.T) {
	b := AddPadding([]byte("hello"))
	padLen := int(b[0])
	require.Equal(t, 1+5+padLen, len(b))

	content, err := CutPadding(b, len(b))
	require.NoError(t, err)
	require.Equal(t, "hello", string(content))
}
