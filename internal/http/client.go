// Package http builds the tuned HTTP clients used against the validation
// backend.
package http

import (
	"crypto/tls"
	nethttp "net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
)

// NewTransport returns a transport tuned for streaming large video bodies.
// Compression is disabled since the payloads are already compressed, and
// HTTP/2 can be turned off with VIDEOVAL_DISABLE_HTTP2=true when a proxy or
// middlebox mishandles multiplexed streams.
func NewTransport() *nethttp.Transport {
	tr := &nethttp.Transport{
		Proxy:                 nethttp.ProxyFromEnvironment,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   30 * time.Second,
		ExpectContinueTimeout: 5 * time.Second,
		DisableCompression:    true,
		ForceAttemptHTTP2:     true,
	}

	_ = http2.ConfigureTransport(tr)

	if os.Getenv("VIDEOVAL_DISABLE_HTTP2") == "true" {
		tr.ForceAttemptHTTP2 = false
		tr.TLSNextProto = make(map[string]func(string, *tls.Conn) nethttp.RoundTripper)
	}

	return tr
}

// NewClient returns a client over NewTransport with the given cookie jar.
// No overall timeout is set; each operation bounds itself via context, so a
// multi-gigabyte upload is not cut off mid-stream.
func NewClient(jar nethttp.CookieJar) *nethttp.Client {
	return &nethttp.Client{
		Transport: NewTransport(),
		Jar:       jar,
	}
}
