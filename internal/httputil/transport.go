package httputil

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// Transport is the outbound http.RoundTripper for affiliate API calls:
// UserAgent → RateLimiter → Proxy → Send
type Transport struct {
	Base        http.RoundTripper
	UserAgent   string
	Proxy       *ProxyRotator
	RateLimiter *rate.Limiter
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	req = req.Clone(req.Context())

	ua := t.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", ua)
	}

	if t.RateLimiter != nil {
		if err := t.RateLimiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	transport := t.Base
	if t.Proxy != nil {
		transport = t.Proxy.Next().Transport()
	}
	if transport == nil {
		transport = http.DefaultTransport
	}

	return transport.RoundTrip(req)
}
