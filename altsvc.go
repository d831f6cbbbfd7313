package h2c

import "github.com/clyra/h2c/h2utils"

// AltSvcFrame advertises an alternative service the client may use for
// future requests (spec.md §4.E: max_age:32, port:16, proto_len:8, proto,
// host_len:8, host, origin). The teacher never implemented this type;
// it's added here since spec.md names it as one of the twelve frame
// types the codec must round-trip.
type AltSvcFrame struct {
	maxAge uint32
	port   uint16
	proto  []byte
	host   []byte
	origin []byte
}

var _ Frame = (*AltSvcFrame)(nil)

func (a *AltSvcFrame) Type() FrameType { return FrameAltSvc }

func (a *AltSvcFrame) Reset() {
	a.maxAge = 0
	a.port = 0
	a.proto = a.proto[:0]
	a.host = a.host[:0]
	a.origin = a.origin[:0]
}

func (a *AltSvcFrame) CopyTo(other *AltSvcFrame) {
	other.maxAge = a.maxAge
	other.port = a.port
	other.proto = append(other.proto[:0], a.proto...)
	other.host = append(other.host[:0], a.host...)
	other.origin = append(other.origin[:0], a.origin...)
}

func (a *AltSvcFrame) MaxAge() uint32     { return a.maxAge }
func (a *AltSvcFrame) SetMaxAge(n uint32) { a.maxAge = n }

func (a *AltSvcFrame) Port() uint16     { return a.port }
func (a *AltSvcFrame) SetPort(p uint16) { a.port = p }

func (a *AltSvcFrame) Proto() []byte     { return a.proto }
func (a *AltSvcFrame) SetProto(b []byte) { a.proto = append(a.proto[:0], b...) }

func (a *AltSvcFrame) Host() []byte     { return a.host }
func (a *AltSvcFrame) SetHost(b []byte) { a.host = append(a.host[:0], b...) }

func (a *AltSvcFrame) Origin() []byte     { return a.origin }
func (a *AltSvcFrame) SetOrigin(b []byte) { a.origin = append(a.origin[:0], b...) }

func (a *AltSvcFrame) Deserialize(fh *FrameHeader) error {
	payload := fh.payload()
	if len(payload) < 7 {
		return ErrMissingBytes
	}

	a.maxAge = h2utils.BytesToUint32(payload)
	a.port = h2utils.BytesToUint16(payload[4:6])
	protoLen := int(payload[6])
	payload = payload[7:]

	if len(payload) < protoLen+1 {
		return ErrMissingBytes
	}
	a.proto = append(a.proto[:0], payload[:protoLen]...)
	payload = payload[protoLen:]

	hostLen := int(payload[0])
	payload = payload[1:]
	if len(payload) < hostLen {
		return ErrMissingBytes
	}
	a.host = append(a.host[:0], payload[:hostLen]...)
	a.origin = append(a.origin[:0], payload[hostLen:]...)

	return nil
}

func (a *AltSvcFrame) Serialize(fh *FrameHeader) {
	payload := make([]byte, 0, 7+len(a.proto)+1+len(a.host)+len(a.origin))
	payload = h2utils.AppendUint32Bytes(payload, a.maxAge)
	payload = h2utils.AppendUint16Bytes(payload, a.port)
	payload = append(payload, byte(len(a.proto)))
	payload = append(payload, a.proto...)
	payload = append(payload, byte(len(a.host)))
	payload = append(payload, a.host...)
	payload = append(payload, a.origin...)
	fh.setPayload(payload)
}
