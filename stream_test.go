package h2c

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newHeadersFrame(endStream bool) *HeadersFrame {
	h := AcquireFrame(FrameHeaders).(*HeadersFrame)
	h.SetHeaders([]byte("headers"))
	h.SetEndHeaders(true)
	h.SetEndStream(endStream)
	return h
}

func newDataFrame(payload string, endStream bool) *DataFrame {
	d := AcquireFrame(FrameData).(*DataFrame)
	d.SetData([]byte(payload))
	d.SetEndStream(endStream)
	return d
}

// TestStreamS5Scenario exercises spec.md S5: idle -> open on HEADERS
// without END_STREAM, -> half_closed_local on sending DATA with
// END_STREAM, -> closed on receiving DATA with END_STREAM.
func TestStreamS5Scenario(t *testing.T) {
	var active, halfClosed, closed int
	events := StreamEvents{
		Active:    func() { active++ },
		HalfClose: func() { halfClosed++ },
		Close:     func(err error) { closed++; require.NoError(t, err) },
	}
	s := NewStream(1, 65535, 65535, 16384, events, nil)

	require.NoError(t, s.Transition(newHeadersFrame(false), false))
	require.Equal(t, StreamOpen, s.State())
	require.Equal(t, 1, active)

	require.NoError(t, s.Transition(newDataFrame("request body", true), true))
	require.Equal(t, StreamHalfClosedLocal, s.State())
	require.Equal(t, 1, halfClosed)

	require.NoError(t, s.Transition(newDataFrame("response body", true), false))
	require.Equal(t, StreamClosed, s.State())
	require.Equal(t, 1, closed)
}

func TestStreamPushPromiseReservation(t *testing.T) {
	var reserved int
	events := StreamEvents{Reserved: func() { reserved++ }}

	local := NewStream(2, 65535, 65535, 16384, events, nil)
	require.NoError(t, local.Transition(AcquireFrame(FramePushPromise).(*PushPromiseFrame), true))
	require.Equal(t, StreamReservedLocal, local.State())

	remote := NewStream(4, 65535, 65535, 16384, events, nil)
	require.NoError(t, remote.Transition(AcquireFrame(FramePushPromise).(*PushPromiseFrame), false))
	require.Equal(t, StreamReservedRemote, remote.State())

	require.Equal(t, 2, reserved)
}

func TestStreamPushPromiseRejectedOnNonIdle(t *testing.T) {
	s := NewStream(1, 65535, 65535, 16384, StreamEvents{}, nil)
	require.NoError(t, s.Transition(newHeadersFrame(false), false))

	err := s.Transition(AcquireFrame(FramePushPromise).(*PushPromiseFrame), false)
	require.Error(t, err)
}

// TestStreamDataRejectedInWrongDirection exercises the half-closed-local
// stream rejecting an outbound DATA frame.
func TestStreamDataRejectedInWrongDirection(t *testing.T) {
	s := NewStream(1, 65535, 65535, 16384, StreamEvents{}, nil)
	require.NoError(t, s.Transition(newHeadersFrame(false), false))
	require.NoError(t, s.Transition(newDataFrame("body", true), true))
	require.Equal(t, StreamHalfClosedLocal, s.State())

	err := s.Transition(newDataFrame("more", false), true)
	require.Error(t, err)
}

func TestStreamPriorityEventCallback(t *testing.T) {
	var gotWeight uint16
	var gotDep uint32
	var gotExclusive bool
	events := StreamEvents{
		Priority: func(weight uint16, dependency uint32, exclusive bool) {
			gotWeight, gotDep, gotExclusive = weight, dependency, exclusive
		},
	}
	s := NewStream(3, 65535, 65535, 16384, events, nil)

	p := AcquireFrame(FramePriority).(*PriorityFrame)
	p.SetStreamDependency(1)
	p.SetExclusive(true)
	p.SetWeight(220)

	require.NoError(t, s.Transition(p, false))
	require.Equal(t, uint16(220), gotWeight)
	require.Equal(t, uint32(1), gotDep)
	require.True(t, gotExclusive)
}

func TestStreamWindowUpdateApplied(t *testing.T) {
	var gotIncrement uint32
	events := StreamEvents{Window: func(v uint32) { gotIncrement = v }}
	s := NewStream(1, 65535, 10000, 16384, events, nil)

	before := s.RemoteFlow().Available()

	wu := AcquireFrame(FrameWindowUpdate).(*WindowUpdateFrame)
	wu.SetIncrement(5000)
	require.NoError(t, s.Transition(wu, false))

	require.Equal(t, uint32(5000), gotIncrement)
	require.Equal(t, before+5000, s.RemoteFlow().Available())
}

func TestStreamClosedStateIsTerminal(t *testing.T) {
	closes := 0
	events := StreamEvents{Close: func(err error) { closes++ }}
	s := NewStream(1, 65535, 65535, 16384, events, nil)

	s.closeWith(nil)
	require.Equal(t, StreamClosed, s.State())
	require.Equal(t, 1, closes)

	require.NoError(t, s.Transition(newHeadersFrame(false), false))
	require.Equal(t, StreamClosed, s.State())
	require.Equal(t, 1, closes)
}
