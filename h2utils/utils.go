// Package h2utils holds the small byte-order and zero-copy helpers shared
// by the frame codec and the HPACK codec.
package h2utils

import (
	"reflect"
	"unsafe"

	"github.com/valyala/fastrand"
)

// Uint16ToBytes writes n big-endian into b[:2].
func Uint16ToBytes(b []byte, n uint16) {
	_ = b[1]
	b[0] = byte(n >> 8)
	b[1] = byte(n)
}

// BytesToUint16 reads a big-endian uint16 from b[:2].
func BytesToUint16(b []byte) uint16 {
	_ = b[1]
	return uint16(b[0])<<8 | uint16(b[1])
}

// Uint24ToBytes writes n big-endian into b[:3].
func Uint24ToBytes(b []byte, n uint32) {
	_ = b[2] // bound checking
	b[0] = byte(n >> 16)
	b[1] = byte(n >> 8)
	b[2] = byte(n)
}

// BytesToUint24 reads a big-endian 24-bit integer from b[:3].
func BytesToUint24(b []byte) uint32 {
	_ = b[2] // bound checking
	return uint32(b[0])<<16 |
		uint32(b[1])<<8 |
		uint32(b[2])
}

// Uint32ToBytes writes n big-endian into b[:4].
func Uint32ToBytes(b []byte, n uint32) {
	_ = b[3] // bound checking
	b[0] = byte(n >> 24)
	b[1] = byte(n >> 16)
	b[2] = byte(n >> 8)
	b[3] = byte(n)
}

// BytesToUint32 reads a big-endian uint32 from b[:4].
func BytesToUint32(b []byte) uint32 {
	_ = b[3] // bound checking
	n := uint32(b[0])<<24 |
		uint32(b[1])<<16 |
		uint32(b[2])<<8 |
		uint32(b[3])
	return n
}

// AppendUint16Bytes appends n big-endian to dst.
func AppendUint16Bytes(dst []byte, n uint16) []byte {
	return append(dst, byte(n>>8), byte(n))
}

// AppendUint32Bytes appends n big-endian to dst.
func AppendUint32Bytes(dst []byte, n uint32) []byte {
	dst = append(dst, byte(n>>24))
	dst = append(dst, byte(n>>16))
	dst = append(dst, byte(n>>8))
	dst = append(dst, byte(n))
	return dst
}

// EqualsFold reports whether a and b are equal ignoring ASCII case, without
// allocating.
func EqualsFold(a, b []byte) bool {
	n := len(a)
	if n != len(b) {
		return false
	}
	for i := 0; i < n; i++ {
		if a[i]|0x20 != b[i]|0x20 {
			return false
		}
	}
	return true
}

// ToLower lowercases b in place and returns it. HPACK requires literal
// header names to be lowercase on the wire.
func ToLower(b []byte) []byte {
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return b
}

// Resize grows b (reusing its capacity) so that len(b) == neededLen.
func Resize(b []byte, neededLen int) []byte {
	b = b[:cap(b)]

	if n := neededLen - len(b); n > 0 {
		b = append(b, make([]byte, n)...)
	}

	return b[:neededLen]
}

// CutPadding strips the pad-length octet and trailing padding from payload,
// given the frame's declared length (before padding removal).
func CutPadding(payload []byte, length int) ([]byte, error) {
	if len(payload) == 0 {
		return nil, errShortPadding
	}
	pad := int(payload[0])
	if pad+1 > length || len(payload) < length {
		return nil, errShortPadding
	}
	return payload[1 : length-pad], nil
}

// AddPadding prepends a random pad-length octet (1..255) and appends that
// many zero bytes to b, returning the padded slice.
func AddPadding(b []byte) []byte {
	n := int(fastrand.Uint32n(255)) + 1
	nn := len(b)

	b = Resize(b, nn+n+1)
	copy(b[1:], b[:nn])
	b[0] = byte(n)
	for i := nn + 1; i < len(b); i++ {
		b[i] = 0
	}

	return b
}

// FastBytesToString converts b to a string without copying.
func FastBytesToString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

// FastStringToBytes converts s to a []byte without copying. The result
// must not be mutated.
func FastStringToBytes(s string) []byte {
	sh := (*reflect.StringHeader)(unsafe.Pointer(&s))
	bh := reflect.SliceHeader{
		Data: sh.Data,
		Len:  sh.Len,
		Cap:  sh.Len,
	}

	return *(*[]byte)(unsafe.Pointer(&bh))
}
