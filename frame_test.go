package h2c

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// roundTrip serializes fr via a FrameHeader, parses the resulting wire
// bytes back, and returns the decoded frame for the caller to inspect.
func roundTrip(t *testing.T, fr Frame, streamID uint32) Frame {
	t.Helper()

	fh := AcquireFrameHeader()
	defer ReleaseFrameHeader(fh)
	fh.SetStream(streamID)
	fh.SetBody(fr)

	buf := AcquireByteBuffer()
	defer ReleaseByteBuffer(buf)
	fh.WriteTo(buf)

	out, err := Parse(buf)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Equal(t, fr.Type(), out.Type())
	require.Equal(t, streamID, out.Stream())
	return out.Body()
}

func TestDataFrameRoundTrip(t *testing.T) {
	d := AcquireFrame(FrameData).(*DataFrame)
	d.SetData([]byte("payload"))
	d.SetEndStream(true)

	got := roundTrip(t, d, 1).(*DataFrame)
	require.Equal(t, "payload", string(got.Data()))
	require.True(t, got.EndStream())
	require.False(t, got.Compressed())
}

func TestDataFramePadded(t *testing.T) {
	d := AcquireFrame(FrameData).(*DataFrame)
	d.SetData([]byte("x"))
	d.SetPadding(true)

	got := roundTrip(t, d, 3).(*DataFrame)
	require.Equal(t, "x", string(got.Data()))
}

func TestHeadersFrameRoundTrip(t *testing.T) {
	h := AcquireFrame(FrameHeaders).(*HeadersFrame)
	h.SetHeaders([]byte("hpack-block"))
	h.SetEndHeaders(true)
	h.SetEndStream(true)
	h.SetStreamDependency(5)
	h.SetExclusive(true)
	h.SetWeight(100)

	got := roundTrip(t, h, 7).(*HeadersFrame)
	require.Equal(t, "hpack-block", string(got.Headers()))
	require.True(t, got.EndHeaders())
	require.True(t, got.EndStream())
	require.True(t, got.Exclusive())
	require.Equal(t, uint32(5), got.StreamDependency())
	require.Equal(t, uint16(100), got.Weight())
}

func TestHeadersFrameNoPriority(t *testing.T) {
	h := AcquireFrame(FrameHeaders).(*HeadersFrame)
	h.SetHeaders([]byte("block"))

	got := roundTrip(t, h, 1).(*HeadersFrame)
	require.False(t, got.HasPriority())
	require.Equal(t, "block", string(got.Headers()))
}

func TestPriorityFrameRoundTrip(t *testing.T) {
	p := AcquireFrame(FramePriority).(*PriorityFrame)
	p.SetStreamDependency(9)
	p.SetExclusive(false)
	p.SetWeight(256)

	got := roundTrip(t, p, 11).(*PriorityFrame)
	require.Equal(t, uint32(9), got.StreamDependency())
	require.Equal(t, uint16(256), got.Weight())
	require.False(t, got.Exclusive())
}

func TestRstStreamFrameRoundTrip(t *testing.T) {
	r := AcquireFrame(FrameRstStream).(*RstStreamFrame)
	r.SetCode(CancelError)

	got := roundTrip(t, r, 3).(*RstStreamFrame)
	require.Equal(t, CancelError, got.Code())
}

func TestSettingsFrameRoundTrip(t *testing.T) {
	s := AcquireFrame(FrameSettings).(*SettingsFrame)
	s.Settings.InitialWindowSize = 100000
	s.Settings.EnablePush = false

	got := roundTrip(t, s, 0).(*SettingsFrame)
	require.False(t, got.IsAck())
	require.Equal(t, uint32(100000), got.Settings.InitialWindowSize)
	require.False(t, got.Settings.EnablePush)
}

func TestSettingsFrameAck(t *testing.T) {
	s := AcquireFrame(FrameSettings).(*SettingsFrame)
	s.SetAck(true)

	got := roundTrip(t, s, 0).(*SettingsFrame)
	require.True(t, got.IsAck())
}

func TestPushPromiseFrameRoundTrip(t *testing.T) {
	pp := AcquireFrame(FramePushPromise).(*PushPromiseFrame)
	pp.SetPromisedStreamID(4)
	pp.SetHeaders([]byte("promise-block"))
	pp.SetEndHeaders(true)

	got := roundTrip(t, pp, 1).(*PushPromiseFrame)
	require.Equal(t, uint32(4), got.PromisedStreamID())
	require.Equal(t, "promise-block", string(got.Headers()))
	require.True(t, got.EndHeaders())
}

func TestPingFrameRoundTrip(t *testing.T) {
	p := AcquireFrame(FramePing).(*PingFrame)
	p.SetData([]byte("12345678"))
	p.SetAck(true)

	got := roundTrip(t, p, 0).(*PingFrame)
	require.Equal(t, "12345678", string(got.Data()))
	require.True(t, got.Ack())
}

func TestGoAwayFrameRoundTrip(t *testing.T) {
	ga := AcquireFrame(FrameGoAway).(*GoAwayFrame)
	ga.SetLastStreamID(41)
	ga.SetCode(EnhanceYourCalm)
	ga.SetData([]byte("bye"))

	got := roundTrip(t, ga, 0).(*GoAwayFrame)
	require.Equal(t, uint32(41), got.LastStreamID())
	require.Equal(t, EnhanceYourCalm, got.Code())
	require.Equal(t, "bye", string(got.Data()))
}

func TestWindowUpdateFrameRoundTrip(t *testing.T) {
	wu := AcquireFrame(FrameWindowUpdate).(*WindowUpdateFrame)
	wu.SetIncrement(65535)

	got := roundTrip(t, wu, 9).(*WindowUpdateFrame)
	require.Equal(t, uint32(65535), got.Increment())
}

func TestWindowUpdateFrameZeroIncrementRejected(t *testing.T) {
	wu := AcquireFrame(FrameWindowUpdate).(*WindowUpdateFrame)
	wu.SetIncrement(0)

	fh := AcquireFrameHeader()
	defer ReleaseFrameHeader(fh)
	fh.SetStream(1)
	fh.SetBody(wu)

	buf := AcquireByteBuffer()
	defer ReleaseByteBuffer(buf)
	fh.WriteTo(buf)

	_, err := Parse(buf)
	require.Error(t, err)
}

func TestContinuationFrameRoundTrip(t *testing.T) {
	c := AcquireFrame(FrameContinuation).(*ContinuationFrame)
	c.SetHeaders([]byte("more-headers"))
	c.SetEndHeaders(true)

	got := roundTrip(t, c, 1).(*ContinuationFrame)
	require.Equal(t, "more-headers", string(got.Headers()))
	require.True(t, got.EndHeaders())
}

func TestAltSvcFrameRoundTrip(t *testing.T) {
	a := AcquireFrame(FrameAltSvc).(*AltSvcFrame)
	a.SetMaxAge(3600)
	a.SetPort(443)
	a.SetProto([]byte("h2-16"))
	a.SetHost([]byte("example.com"))
	a.SetOrigin([]byte("origin-data"))

	got := roundTrip(t, a, 0).(*AltSvcFrame)
	require.Equal(t, uint32(3600), got.MaxAge())
	require.Equal(t, uint16(443), got.Port())
	require.Equal(t, "h2-16", string(got.Proto()))
	require.Equal(t, "example.com", string(got.Host()))
	require.Equal(t, "origin-data", string(got.Origin()))
}

func TestBlockedFrameRoundTrip(t *testing.T) {
	b := AcquireFrame(FrameBlocked).(*BlockedFrame)

	roundTrip(t, b, 5)
}

func TestParseIncompleteReturnsNil(t *testing.T) {
	buf := NewByteBuffer([]byte{0, 0, 5, 0, 0, 0, 0, 0, 1})
	defer ReleaseByteBuffer(buf)

	fh, err := Parse(buf)
	require.NoError(t, err)
	require.Nil(t, fh)
}

func TestParseOversizeFrameRejected(t *testing.T) {
	d := AcquireFrame(FrameData).(*DataFrame)
	big := make([]byte, DefaultMaxFrameSize+1)
	d.SetData(big)

	fh := AcquireFrameHeader()
	fh.SetBody(d)

	buf := AcquireByteBuffer()
	defer ReleaseByteBuffer(buf)
	fh.WriteTo(buf)
	ReleaseFrameHeader(fh)

	_, err := Parse(buf)
	require.ErrorIs(t, err, ErrPayloadExceeds)
}
