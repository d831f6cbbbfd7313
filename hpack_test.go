package h2c

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteIntS1Vector(t *testing.T) {
	got := writeInt(nil, 5, 0x00, 1337)
	require.Equal(t, []byte{0x1F, 0x9A, 0x0A}, got)

	v, n, err := readInt(got, 5)
	require.NoError(t, err)
	require.Equal(t, uint64(1337), v)
	require.Equal(t, 3, n)
}

func TestWriteIntSmallFitsInPrefix(t *testing.T) {
	got := writeInt(nil, 7, 0x80, 15)
	require.Equal(t, []byte{0x8F}, got)
}

func headerList(pairs ...string) []*HeaderField {
	var hs []*HeaderField
	for i := 0; i < len(pairs); i += 2 {
		hf := AcquireHeaderField()
		hf.Set(pairs[i], pairs[i+1])
		hs = append(hs, hf)
	}
	return hs
}

func namesAndValues(t *testing.T, hs []*HeaderField) map[string]string {
	t.Helper()
	out := make(map[string]string, len(hs))
	for _, hf := range hs {
		out[hf.Name()] = hf.Value()
	}
	return out
}

func testEncodeDecodeRoundTrip(t *testing.T, opts Options) {
	t.Helper()

	encCtx := NewContext(opts.TableSize)
	decCtx := NewContext(opts.TableSize)

	requests := [][]string{
		{":method", "GET", ":scheme", "http", ":path", "/", ":authority", "www.example.com"},
		{":method", "GET", ":scheme", "http", ":path", "/", ":authority", "www.example.com", "cache-control", "no-cache"},
		{":method", "GET", ":scheme", "https", ":path", "/index.html", ":authority", "www.example.com"},
	}

	for _, pairs := range requests {
		headers := headerList(pairs...)
		wire := Encode(encCtx, opts, headers)

		decoded, err := Decode(decCtx, wire)
		require.NoError(t, err)

		want := namesAndValues(t, headers)
		got := namesAndValues(t, decoded)
		require.Equal(t, want, got)

		for _, hf := range headers {
			ReleaseHeaderField(hf)
		}
		for _, hf := range decoded {
			ReleaseHeaderField(hf)
		}
	}
}

func TestHPACKRoundTripNaive(t *testing.T) {
	testEncodeDecodeRoundTrip(t, NaiveOptions())
}

func TestHPACKRoundTripLinear(t *testing.T) {
	testEncodeDecodeRoundTrip(t, LinearOptions())
}

func TestHPACKRoundTripStatic(t *testing.T) {
	testEncodeDecodeRoundTrip(t, StaticOptions())
}

func TestHPACKRoundTripDiff(t *testing.T) {
	testEncodeDecodeRoundTrip(t, DiffOptions())
}

func TestHPACKRoundTripShorter(t *testing.T) {
	testEncodeDecodeRoundTrip(t, ShorterOptions())
}

func TestHPACKRoundTripWithHuffman(t *testing.T) {
	testEncodeDecodeRoundTrip(t, DiffOptions().WithHuffman())
}

func TestHPACKNeverIndexedHeaderNotStored(t *testing.T) {
	ctx := NewContext(int(DefaultHeaderTableSize))
	opts := NaiveOptions()

	hf := AcquireHeaderField()
	defer ReleaseHeaderField(hf)
	hf.Set("authorization", "secret-token")
	hf.SetSensitive(true)

	wire := Encode(ctx, opts, []*HeaderField{hf})
	require.Equal(t, 0, ctx.TableSize())

	decCtx := NewContext(int(DefaultHeaderTableSize))
	decoded, err := Decode(decCtx, wire)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	require.True(t, decoded[0].Sensitive())
	require.Equal(t, "secret-token", decoded[0].Value())
	ReleaseHeaderField(decoded[0])
}

func TestHPACKDynamicTableEviction(t *testing.T) {
	ctx := NewContext(64)

	idx1, ok1 := ctx.AddToTable([]byte("name-one"), []byte("value-one"))
	require.True(t, ok1)
	require.Equal(t, 0, idx1)

	idx2, ok2 := ctx.AddToTable([]byte("a"), []byte("b"))
	require.True(t, ok2)
	require.Equal(t, 0, idx2)

	// the second (smaller) insert should have evicted the first once
	// their combined cost exceeded the 64-byte limit.
	require.LessOrEqual(t, ctx.TableSize(), 64)
}

func TestHPACKChangeTableSizeEvicts(t *testing.T) {
	ctx := NewContext(int(DefaultHeaderTableSize))
	ctx.AddToTable([]byte("content-type"), []byte("text/plain"))
	require.Greater(t, ctx.TableSize(), 0)

	ctx.ChangeTableSize(0)
	require.Equal(t, 0, ctx.TableSize())
}
