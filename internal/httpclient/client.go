// Package httpclient builds the http.Client used by the extract stage.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

type Config struct {
	// Total timeout for the entire request, headers through body. A context
	// deadline can still cut the request shorter.
	Timeout time.Duration

	// Transport / dial timeouts.
	DialTimeout     time.Duration
	KeepAlive       time.Duration
	TLSHandshake    time.Duration
	ResponseHeader  time.Duration
	IdleConnTimeout time.Duration

	MaxIdleConns int
}

// DefaultConfig returns transport settings suited to a single-shot fetch of a
// modest JSON payload.
func DefaultConfig() Config {
	return Config{
		Timeout:         5 * time.Second,
		DialTimeout:     3 * time.Second,
		KeepAlive:       30 * time.Second,
		TLSHandshake:    3 * time.Second,
		ResponseHeader:  5 * time.Second,
		IdleConnTimeout: 30 * time.Second,
		MaxIdleConns:    4,
	}
}

func New(cfg Config) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}

	tr := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		ForceAttemptHTTP2: true,

		MaxIdleConns:          cfg.MaxIdleConns,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.TLSHandshake,
		ResponseHeaderTimeout: cfg.ResponseHeader,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   cfg.Timeout,
	}
}
