package httputil

import "net/http"

// DefaultUserAgent identifies the storefront to the affiliate API.
const DefaultUserAgent = "kidkazz-storefront/1.0"

// APIHeaders returns headers sent with every affiliate API request.
//
// Accept-Encoding is set explicitly so that brotli can be negotiated;
// ReadBody handles the decoding since net/http only decodes gzip itself.
func APIHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("Accept-Encoding", "gzip, br")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	return h
}
