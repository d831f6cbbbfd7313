package h2c

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// Expected vectors are RFC 7541 Appendix C.4.1's own worked examples
// for this static table, not spec.md's draft-07 S2 prose vectors (see
// huffman_tables.go).
func TestHuffmanEncodeWWWExampleCom(t *testing.T) {
	got := huffmanEncode(nil, []byte("www.example.com"))
	want, err := hex.DecodeString("f1e3c2e5f23a6ba0ab90f4ff")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestHuffmanEncodeNoCache(t *testing.T) {
	got := huffmanEncode(nil, []byte("no-cache"))
	want, err := hex.DecodeString("a8eb10649cbf")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestHuffmanDecodeRoundTrip(t *testing.T) {
	for _, s := range []string{"www.example.com", "no-cache", "", "a", "custom-key", "custom-value"} {
		enc := huffmanEncode(nil, []byte(s))
		dec, err := huffmanDecode(nil, enc)
		require.NoError(t, err)
		require.Equal(t, s, string(dec))
	}
}

func TestHuffmanEncodedLenMatchesEncode(t *testing.T) {
	s := []byte("www.example.com")
	require.Equal(t, len(huffmanEncode(nil, s)), huffmanEncodedLen(s))
}

func TestHuffmanDecodeEOSRejected(t *testing.T) {
	// 30 one-bits is the reserved EOS code (RFC 7541 Appendix B); a sender
	// must never emit it inside a string.
	_, err := huffmanDecode(nil, []byte{0xFF, 0xFF, 0xFF, 0xFC})
	require.Error(t, err)
}
