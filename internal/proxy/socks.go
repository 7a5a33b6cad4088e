// Package proxy builds the outbound HTTP client shared by the search and
// compression collaborators, optionally tunnelled through a SOCKS5 proxy.
package proxy

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

const defaultTimeout = 30 * time.Second

// NewClient returns an HTTP client with a sane timeout. When socksAddr is
// non-empty all connections are dialed through that SOCKS5 proxy.
func NewClient(socksAddr string) (*http.Client, error) {
	if socksAddr == "" {
		return &http.Client{Timeout: defaultTimeout}, nil
	}
	return NewSocksClient(socksAddr)
}

// NewSocksClient returns an HTTP client dialing through a SOCKS5 proxy.
func NewSocksClient(socksAddr string) (*http.Client, error) {
	dialer, err := proxy.SOCKS5("tcp", socksAddr, nil, proxy.Direct)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		},
	}

	return &http.Client{
		Transport: transport,
		Timeout:   defaultTimeout,
	}, nil
}
