package h2c

import "github.com/clyra/h2c/h2utils"

// DataFrame carries an HTTP message body octet stream (spec.md §3, DATA).
//
// DATA frames can have the following flags: END_STREAM, PADDED, COMPRESSED.
type DataFrame struct {
	endStream  bool
	hasPadding bool
	compressed bool
	b          []byte
}

var _ Frame = (*DataFrame)(nil)

func (d *DataFrame) Type() FrameType { return FrameData }

func (d *DataFrame) Reset() {
	d.endStream = false
	d.hasPadding = false
	d.compressed = false
	d.b = d.b[:0]
}

// CopyTo copies d's fields to other.
func (d *DataFrame) CopyTo(other *DataFrame) {
	other.hasPadding = d.hasPadding
	other.endStream = d.endStream
	other.compressed = d.compressed
	other.b = append(other.b[:0], d.b...)
}

func (d *DataFrame) SetEndStream(value bool) { d.endStream = value }
func (d *DataFrame) EndStream() bool         { return d.endStream }

// Data returns the byte slice read/to be sent.
func (d *DataFrame) Data() []byte { return d.b }

// SetData resets the data byte slice and sets b.
func (d *DataFrame) SetData(b []byte) { d.b = append(d.b[:0], b...) }

// Padding reports whether the frame will be/was sent padded.
func (d *DataFrame) Padding() bool     { return d.hasPadding }
func (d *DataFrame) SetPadding(v bool) { d.hasPadding = v }

// Compressed reports whether the payload carries deflate-compressed bytes
// under the connection's negotiated COMPRESS_DATA setting (see compress.go).
func (d *DataFrame) Compressed() bool     { return d.compressed }
func (d *DataFrame) SetCompressed(v bool) { d.compressed = v }

// Append appends b to data.
func (d *DataFrame) Append(b []byte) { d.b = append(d.b, b...) }

func (d *DataFrame) Len() int { return len(d.b) }

func (d *DataFrame) Write(b []byte) (int, error) {
	d.Append(b)
	return len(b), nil
}

func (d *DataFrame) Deserialize(fh *FrameHeader) error {
	payload := fh.payload()
	flags := fh.Flags()

	if flags.Has(FlagPadded) {
		var err error
		payload, err = h2utils.CutPadding(payload, len(payload))
		if err != nil {
			return err
		}
	}

	d.endStream = flags.Has(FlagEndStream)
	d.compressed = flags.Has(FlagCompressed)
	d.b = append(d.b[:0], payload...)

	return nil
}

func (d *DataFrame) Serialize(fh *FrameHeader) {
	if d.endStream {
		fh.SetFlags(fh.Flags().Add(FlagEndStream))
	}
	if d.compressed {
		fh.SetFlags(fh.Flags().Add(FlagCompressed))
	}

	payload := d.b
	if d.hasPadding {
		fh.SetFlags(fh.Flags().Add(FlagPadded))
		payload = h2utils.AddPadding(payload)
	}

	fh.setPayload(payload)
}
