package httputil

import (
	"bufio"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
)

// ProxyProvider abstracts a proxy backend.
type ProxyProvider interface {
	Transport() http.RoundTripper
	Name() string
}

// ProxyRotator cycles through multiple proxy providers.
type ProxyRotator struct {
	providers []ProxyProvider
	mu        sync.Mutex
	idx       int
}

// NewProxyRotator creates a rotator from a list of providers.
// Returns nil if no providers are given.
func NewProxyRotator(providers []ProxyProvider) *ProxyRotator {
	if len(providers) == 0 {
		return nil
	}
	return &ProxyRotator{providers: providers}
}

// Next returns the next proxy provider in round-robin order.
func (p *ProxyRotator) Next() ProxyProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	provider := p.providers[p.idx%len(p.providers)]
	p.idx++
	return provider
}

// Len reports the number of providers in rotation.
func (p *ProxyRotator) Len() int {
	if p == nil {
		return 0
	}
	return len(p.providers)
}

// HTTPProxyProvider routes through one HTTP or SOCKS5 proxy URL.
type HTTPProxyProvider struct {
	ProxyURL  *url.URL
	transport http.RoundTripper
	once      sync.Once
}

func (h *HTTPProxyProvider) Name() string { return h.ProxyURL.Redacted() }

func (h *HTTPProxyProvider) Transport() http.RoundTripper {
	h.once.Do(func() {
		base := NewBaseTransport()
		base.Proxy = http.ProxyURL(h.ProxyURL)
		h.transport = base
	})
	return h.transport
}

// LoadProxyFile reads one proxy URL per line. Blank lines and lines
// starting with '#' are skipped.
func LoadProxyFile(path string) ([]ProxyProvider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open proxy file: %w", err)
	}
	defer f.Close()

	var providers []ProxyProvider
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("proxy file %s line %d: invalid proxy URL %q", path, line, raw)
		}
		providers = append(providers, &HTTPProxyProvider{ProxyURL: u})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read proxy file: %w", err)
	}
	return providers, nil
}
