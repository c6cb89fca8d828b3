package integrations

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/dnscache"
)

const (
	httpTimeout   = 30 * time.Second
	dialTimeout   = 10 * time.Second
	keepAlive     = 30 * time.Second
	idleTimeout   = 90 * time.Second
	tlsTimeout    = 10 * time.Second
	defaultMaxCon = 10
	maxErrorBody  = 64 << 10
)

var (
	// ErrNotFound is returned when a resource doesn't exist upstream.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-2xx responses).
	ErrNetwork = errors.New("network error")
)

// StatusError is returned for a non-2xx response. It wraps ErrNotFound or
// ErrNetwork and keeps the start of the response body, which upstream APIs
// use for error payloads.
type StatusError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *StatusError) Error() string { return e.Err.Error() }

func (e *StatusError) Unwrap() error { return e.Err }

// NewHTTPClient creates an HTTP client whose transport opens at most
// maxConns simultaneous connections per host. Host lookups go through a
// shared DNS cache so a batch of requests against one API host resolves it
// once. A non-positive maxConns falls back to 10.
func NewHTTPClient(maxConns int) *http.Client {
	if maxConns <= 0 {
		maxConns = defaultMaxCon
	}
	return &http.Client{
		Timeout:   httpTimeout,
		Transport: newTransport(&dnscache.Resolver{}, maxConns),
	}
}

func newTransport(resolver *dnscache.Resolver, maxConns int) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: keepAlive,
	}
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := resolver.LookupHost(ctx, host)
			if err != nil {
				return nil, err
			}
			var lastErr error
			for _, ip := range ips {
				conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
				if err == nil {
					return conn, nil
				}
				lastErr = err
			}
			return nil, fmt.Errorf("dial %s: %w", addr, lastErr)
		},
		ForceAttemptHTTP2:   true,
		MaxConnsPerHost:     maxConns,
		MaxIdleConns:        maxConns * 2,
		MaxIdleConnsPerHost: maxConns,
		IdleConnTimeout:     idleTimeout,
		TLSHandshakeTimeout: tlsTimeout,
	}
}
