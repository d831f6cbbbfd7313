package h2c

import "sync"

// HeaderField is one name/value pair as carried by a header list (spec.md
// §4.A/§4.C). Its Size is the HPACK table-cost formula, name+value+32.
type HeaderField struct {
	name, value []byte
	sensitive   bool
}

func (hf *HeaderField) String() string {
	return string(hf.AppendBytes(nil))
}

var headerFieldPool = sync.Pool{
	New: func() interface{} {
		return &HeaderField{}
	},
}

// AcquireHeaderField returns a reset HeaderField from the pool.
func AcquireHeaderField() *HeaderField {
	hf := headerFieldPool.Get().(*HeaderField)
	hf.Reset()
	return hf
}

// ReleaseHeaderField returns hf to the pool.
func ReleaseHeaderField(hf *HeaderField) {
	hf.Reset()
	headerFieldPool.Put(hf)
}

// Empty reports whether hf carries neither a name nor a value.
func (hf *HeaderField) Empty() bool {
	return len(hf.name) == 0 && len(hf.value) == 0
}

func (hf *HeaderField) Reset() {
	hf.name = hf.name[:0]
	hf.value = hf.value[:0]
	hf.sensitive = false
}

// AppendBytes appends a "name: value" rendering of hf to dst.
func (hf *HeaderField) AppendBytes(dst []byte) []byte {
	dst = append(dst, hf.name...)
	dst = append(dst, ':', ' ')
	dst = append(dst, hf.value...)
	return dst
}

// Size returns the entry's accounting size under the HPACK table-cost
// formula (spec.md §4.C): name octets + value octets + 32.
func (hf *HeaderField) Size() int {
	return len(hf.name) + len(hf.value) + 32
}

func (hf *HeaderField) CopyTo(other *HeaderField) {
	other.name = append(other.name[:0], hf.name...)
	other.value = append(other.value[:0], hf.value...)
	other.sensitive = hf.sensitive
}

func (hf *HeaderField) Set(name, value string)      { hf.SetName(name); hf.SetValue(value) }
func (hf *HeaderField) SetBytes(name, value []byte) { hf.SetNameBytes(name); hf.SetValueBytes(value) }

func (hf *HeaderField) Name() string  { return string(hf.name) }
func (hf *HeaderField) Value() string { return string(hf.value) }

func (hf *HeaderField) NameBytes() []byte  { return hf.name }
func (hf *HeaderField) ValueBytes() []byte { return hf.value }

func (hf *HeaderField) SetName(name string)   { hf.name = append(hf.name[:0], name...) }
func (hf *HeaderField) SetValue(value string) { hf.value = append(hf.value[:0], value...) }

func (hf *HeaderField) SetNameBytes(name []byte)   { hf.name = append(hf.name[:0], name...) }
func (hf *HeaderField) SetValueBytes(value []byte) { hf.value = append(hf.value[:0], value...) }

// IsPseudo reports whether hf's name begins with ':' (a pseudo-header).
func (hf *HeaderField) IsPseudo() bool {
	return len(hf.name) > 0 && hf.name[0] == ':'
}

// Sensitive reports whether hf was marked never-indexed (spec.md §4.D).
func (hf *HeaderField) Sensitive() bool     { return hf.sensitive }
func (hf *HeaderField) SetSensitive(v bool) { hf.sensitive = v }
