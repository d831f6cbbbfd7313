package h2c

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/require"
)

func TestFlowControllerAvailable(t *testing.T) {
	f := NewFlowController(65535, 65535)
	require.Equal(t, int64(65535), f.Available())

	f.Receive(20000)
	require.Equal(t, int64(45535), f.Available())
}

func TestFlowControllerApplyWindowUpdate(t *testing.T) {
	f := NewFlowController(65535, 65535)
	f.Receive(65535)
	require.Equal(t, int64(0), f.Available())

	f.ApplyWindowUpdate(30000)
	require.Equal(t, int64(30000), f.Available())
}

// CreateWindowUpdate is only withheld once current_window reaches
// threshold or max_window (spec.md §4.F); below both it always reports
// an increment.
func TestFlowControllerCreateWindowUpdateBelowThreshold(t *testing.T) {
	f := NewFlowController(65535, 40000)
	require.Equal(t, uint32(65535), f.CreateWindowUpdate())

	f.Receive(20000) // current window 20000, still below the threshold
	require.Equal(t, uint32(45535), f.CreateWindowUpdate())
}

func TestFlowControllerCreateWindowUpdateAtThreshold(t *testing.T) {
	f := NewFlowController(65535, 40000)
	f.Receive(40000) // current window reaches the threshold exactly
	require.Equal(t, uint32(0), f.CreateWindowUpdate())
}

func TestFlowControllerCreateWindowUpdateAtMaxWindow(t *testing.T) {
	f := NewFlowController(100, 200) // threshold above max_window
	f.Receive(100)                   // current window reaches max_window
	require.Equal(t, uint32(0), f.CreateWindowUpdate())
}

// TestStreamQueueDataChunking exercises S6: a 70000-byte DATA write with
// remote window 65535 and max_frame_size 16384 emits three 16384-byte
// frames plus a final 16383-byte frame that exhausts the window; the
// remaining 4465 bytes stay buffered.
func TestStreamQueueDataChunking(t *testing.T) {
	s := NewStream(1, 65535, 65535, 16384, StreamEvents{}, nil)
	s.state = StreamOpen

	payload := make([]byte, 70000)
	chunks, compressed, err := s.QueueData(payload, true)
	require.NoError(t, err)
	require.False(t, compressed)

	require.Len(t, chunks, 4)
	for i := 0; i < 3; i++ {
		require.Len(t, chunks[i], 16384)
	}
	require.Len(t, chunks[3], 65535-3*16384)
	require.Len(t, s.PendingData(), 70000-65535)
}

// TestStreamQueueDataBufferedOnSmallWindow exercises S6's second case: a
// remote window of only 10000 bytes emits frames totaling 10000 bytes,
// the remainder stays buffered until a WINDOW_UPDATE arrives.
func TestStreamQueueDataBufferedOnSmallWindow(t *testing.T) {
	s := NewStream(1, 65535, 10000, 16384, StreamEvents{}, nil)
	s.state = StreamOpen

	payload := make([]byte, 70000)
	chunks, compressed, err := s.QueueData(payload, true)
	require.NoError(t, err)
	require.False(t, compressed)

	var total int
	for _, c := range chunks {
		total += len(c)
	}
	require.Equal(t, 10000, total)
	require.Len(t, s.PendingData(), 60000)

	s.remote.ApplyWindowUpdate(20000)
	more, endStream, moreCompressed := s.ReleasePending()
	var moreTotal int
	for _, c := range more {
		moreTotal += len(c)
	}
	require.Equal(t, 20000, moreTotal)
	require.False(t, endStream)
	require.False(t, moreCompressed)
	require.Len(t, s.PendingData(), 40000)
}

// TestStreamQueueDataWithCodecCompresses exercises SPEC_FULL.md §2.1:
// installing a DataCompressor makes QueueData deflate the payload
// before chunking, and ReleasePending's buffered remainder stays
// compressed without being deflated a second time.
func TestStreamQueueDataWithCodecCompresses(t *testing.T) {
	s := NewStream(1, 65535, 65535, 16384, StreamEvents{}, nil)
	s.state = StreamOpen
	s.SetDataCodec(NewDataCompressor(flate.DefaultCompression))

	payload := bytes.Repeat([]byte("compress me please "), 200)
	chunks, compressed, err := s.QueueData(payload, true)
	require.NoError(t, err)
	require.True(t, compressed)

	var wire []byte
	for _, c := range chunks {
		wire = append(wire, c...)
	}
	wire = append(wire, s.PendingData()...)

	got, err := s.dataCodec.Inflate(wire)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}
