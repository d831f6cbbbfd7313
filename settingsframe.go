package h2c

// SettingsFrame is the wire envelope for a Settings value (spec.md §3,
// SETTINGS). An ACK carries no payload and sets the ACK flag.
type SettingsFrame struct {
	ack      bool
	Settings Settings
}

var _ Frame = (*SettingsFrame)(nil)

func (s *SettingsFrame) Type() FrameType { return FrameSettings }

func (s *SettingsFrame) Reset() {
	s.ack = false
	s.Settings.Reset()
}

func (s *SettingsFrame) IsAck() bool     { return s.ack }
func (s *SettingsFrame) SetAck(v bool)   { s.ack = v }

func (s *SettingsFrame) Deserialize(fh *FrameHeader) error {
	s.ack = fh.Flags().Has(FlagAck)
	if s.ack {
		if fh.Len() != 0 {
			return protocolError("SETTINGS ack frame carries a non-empty payload")
		}
		return nil
	}
	return s.Settings.Decode(fh.payload())
}

func (s *SettingsFrame) Serialize(fh *FrameHeader) {
	if s.ack {
		fh.SetFlags(fh.Flags().Add(FlagAck))
		fh.setPayload(nil)
		return
	}
	fh.setPayload(s.Settings.Encode(nil))
}
