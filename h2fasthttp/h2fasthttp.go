// Package h2fasthttp adapts h2c's decoded HPACK header lists to and
// from valyala/fasthttp's Request/Response, so a fasthttp handler can
// sit behind an h2c connection unmodified (spec.md's core never touches
// fasthttp itself; this is the outer adapter layer, grounded on the
// teacher's own request.go/response.go header-translation code).
package h2fasthttp

import (
	"strconv"

	"github.com/clyra/h2c"
	"github.com/valyala/fasthttp"
)

// Pseudo-header and common header names (spec.md §4.A), carried over
// from the teacher's strings.go byte-slice constants.
var (
	StringPath      = []byte(":path")
	StringStatus    = []byte(":status")
	StringAuthority = []byte(":authority")
	StringScheme    = []byte(":scheme")
	StringMethod    = []byte(":method")

	StringContentLength = []byte("content-length")
	StringContentType   = []byte("content-type")
	StringUserAgent     = []byte("user-agent")
)

// ALPN token this core negotiates (spec.md §2): the draft-16 protocol
// id, distinct from the final "h2".
const ALPNProto = "h2-16"

// FillRequest populates req from a decoded header list plus the
// request body accumulated from DATA frames. req is reset first. scheme
// defaults to "https" when the peer omitted :scheme (not
// standards-conformant, but keeps single-origin test traffic working);
// when :authority is absent no Host is set.
func FillRequest(headers []*h2c.HeaderField, body []byte, req *fasthttp.Request) error {
	req.Reset()

	var method, path, authority, scheme string

	for _, hf := range headers {
		name := hf.NameBytes()
		switch {
		case string(name) == ":method":
			method = hf.Value()
		case string(name) == ":path":
			path = hf.Value()
		case string(name) == ":authority":
			authority = hf.Value()
		case string(name) == ":scheme":
			scheme = hf.Value()
		case hf.IsPseudo():
			// unknown pseudo-header; ignored.
		default:
			req.Header.Set(hf.Name(), hf.Value())
		}
	}

	if method == "" {
		return h2c.NewError(h2c.ProtocolErrorCode, "missing :method pseudo-header")
	}
	if path == "" {
		return h2c.NewError(h2c.ProtocolErrorCode, "missing :path pseudo-header")
	}

	req.Header.SetMethod(method)
	req.Header.SetRequestURI(path)
	if authority != "" {
		req.Header.SetHost(authority)
	}
	if scheme == "" {
		scheme = "https"
	}
	req.URI().SetScheme(scheme)

	if len(body) > 0 {
		req.SetBody(body)
	}

	return nil
}

// RequestHeaders renders req's method/path/authority/scheme and
// remaining headers as an h2c header list, pseudo-headers first
// (spec.md §4.A: pseudo-headers must precede regular ones).
func RequestHeaders(req *fasthttp.Request, dst []*h2c.HeaderField) []*h2c.HeaderField {
	push := func(name, value string) {
		hf := h2c.AcquireHeaderField()
		hf.Set(name, value)
		dst = append(dst, hf)
	}

	push(":method", string(req.Header.Method()))
	push(":path", string(req.URI().RequestURI()))
	if host := req.URI().Host(); len(host) > 0 {
		push(":authority", string(host))
	}
	scheme := string(req.URI().Scheme())
	if scheme == "" {
		scheme = "https"
	}
	push(":scheme", scheme)

	req.Header.VisitAll(func(k, v []byte) {
		hf := h2c.AcquireHeaderField()
		hf.SetBytes(lowerCopy(k), v)
		dst = append(dst, hf)
	})

	return dst
}

// FillResponse populates res from a decoded header list plus the body
// accumulated from DATA frames.
func FillResponse(headers []*h2c.HeaderField, body []byte, res *fasthttp.Response) error {
	res.Reset()

	for _, hf := range headers {
		if string(hf.NameBytes()) == ":status" {
			code, err := strconv.Atoi(hf.Value())
			if err != nil {
				return h2c.NewError(h2c.ProtocolErrorCode, "malformed :status pseudo-header")
			}
			res.SetStatusCode(code)
			continue
		}
		if hf.IsPseudo() {
			continue
		}
		res.Header.Set(hf.Name(), hf.Value())
	}

	if len(body) > 0 {
		res.SetBody(body)
	}

	return nil
}

// ResponseHeaders renders res's status and headers as an h2c header
// list, :status first.
func ResponseHeaders(res *fasthttp.Response, dst []*h2c.HeaderField) []*h2c.HeaderField {
	status := h2c.AcquireHeaderField()
	status.Set(":status", strconv.Itoa(res.StatusCode()))
	dst = append(dst, status)

	res.Header.VisitAll(func(k, v []byte) {
		hf := h2c.AcquireHeaderField()
		hf.SetBytes(lowerCopy(k), v)
		dst = append(dst, hf)
	})

	return dst
}

// ReleaseHeaders returns every HeaderField in hs to the pool.
func ReleaseHeaders(hs []*h2c.HeaderField) {
	for _, hf := range hs {
		h2c.ReleaseHeaderField(hf)
	}
}

func lowerCopy(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c |= 32
		}
		out[i] = c
	}
	return out
}
