package h2fasthttp

import (
	"testing"

	"github.com/clyra/h2c"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestRequestHeadersRoundTrip(t *testing.T) {
	var req fasthttp.Request
	req.Header.SetMethod("POST")
	req.SetRequestURI("/upload")
	req.URI().SetScheme("https")
	req.URI().SetHost("example.com")
	req.Header.Set("X-Custom", "value")

	hs := RequestHeaders(&req, nil)
	defer ReleaseHeaders(hs)

	var filled fasthttp.Request
	err := FillRequest(hs, []byte("body bytes"), &filled)
	require.NoError(t, err)

	require.Equal(t, "POST", string(filled.Header.Method()))
	require.Equal(t, "/upload", string(filled.URI().RequestURI()))
	require.Equal(t, "example.com", string(filled.URI().Host()))
	require.Equal(t, "body bytes", string(filled.Body()))
	require.Equal(t, "value", string(filled.Header.Peek("X-Custom")))
}

func TestFillRequestMissingMethodErrors(t *testing.T) {
	hs := []*h2c.HeaderField{}
	path := h2c.AcquireHeaderField()
	path.Set(":path", "/")
	hs = append(hs, path)
	defer ReleaseHeaders(hs)

	var req fasthttp.Request
	err := FillRequest(hs, nil, &req)
	require.Error(t, err)
}

func TestFillRequestMissingPathErrors(t *testing.T) {
	hs := []*h2c.HeaderField{}
	method := h2c.AcquireHeaderField()
	method.Set(":method", "GET")
	hs = append(hs, method)
	defer ReleaseHeaders(hs)

	var req fasthttp.Request
	err := FillRequest(hs, nil, &req)
	require.Error(t, err)
}

func TestResponseHeadersRoundTrip(t *testing.T) {
	var res fasthttp.Response
	res.SetStatusCode(404)
	res.Header.Set("Content-Type", "text/plain")

	hs := ResponseHeaders(&res, nil)
	defer ReleaseHeaders(hs)

	require.Equal(t, ":status", hs[0].Name())
	require.Equal(t, "404", hs[0].Value())

	var filled fasthttp.Response
	err := FillResponse(hs, []byte("not found"), &filled)
	require.NoError(t, err)

	require.Equal(t, 404, filled.StatusCode())
	require.Equal(t, "text/plain", string(filled.Header.Peek("Content-Type")))
	require.Equal(t, "not found", string(filled.Body()))
}

func TestFillResponseMalformedStatusErrors(t *testing.T) {
	hs := []*h2c.HeaderField{}
	status := h2c.AcquireHeaderField()
	status.Set(":status", "not-a-number")
	hs = append(hs, status)
	defer ReleaseHeaders(hs)

	var res fasthttp.Response
	err := FillResponse(hs, nil, &res)
	require.Error(t, err)
}
