// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ProxyFactory constructs Proxy values sharing a common configuration
// (spec.md §4.6): version, credentials, timeouts, TLS context, and the
// HTTP persistence knobs. It mirrors the teacher's functional-options
// NewConn(stream, options...) constructor pattern.
type ProxyFactory struct {
	version                 Version
	credentials             *Credentials
	connectTimeout          time.Duration
	tlsConfig               *tls.Config
	persistent              bool
	maxPersistentPerHost    int
	cachedConnectionTimeout time.Duration
	retryAutomatically      bool
	compressedHTTP          bool
	sharedPool              *http.Transport
	log                     *zap.Logger
}

// Option configures a ProxyFactory.
type Option func(*ProxyFactory)

// WithVersion sets the default protocol version new proxies use.
func WithVersion(v Version) Option {
	return func(f *ProxyFactory) { f.version = v }
}

// WithCredentials attaches basic-auth credentials to every proxy.
func WithCredentials(c Credentials) Option {
	return func(f *ProxyFactory) { f.credentials = &c }
}

// WithConnectTimeout bounds the TCP connect phase of each call.
func WithConnectTimeout(d time.Duration) Option {
	return func(f *ProxyFactory) { f.connectTimeout = d }
}

// WithTLSConfig supplies a TLS context for HTTPS endpoints
// (spec.md §6 "contextFactory").
func WithTLSConfig(cfg *tls.Config) Option {
	return func(f *ProxyFactory) { f.tlsConfig = cfg }
}

// WithPersistentConnections enables HTTP keep-alive with up to maxPerHost
// idle connections per host and idleTimeout eviction.
func WithPersistentConnections(maxPerHost int, idleTimeout time.Duration) Option {
	return func(f *ProxyFactory) {
		f.persistent = true
		f.maxPersistentPerHost = maxPerHost
		f.cachedConnectionTimeout = idleTimeout
	}
}

// WithRetryAutomatically wraps the transport in a retrying RoundTripper
// (github.com/hashicorp/go-retryablehttp) that retries failed calls with
// its default policy; calls are not distinguished by idempotency.
func WithRetryAutomatically() Option {
	return func(f *ProxyFactory) { f.retryAutomatically = true }
}

// WithCompressedHTTP negotiates Accept-Encoding: gzip on every call.
func WithCompressedHTTP() Option {
	return func(f *ProxyFactory) { f.compressedHTTP = true }
}

// WithSharedPool reuses one *http.Transport (and its connection pool)
// across every proxy this factory produces, instead of a fresh pool per
// proxy (spec.md §4.6, "Shared pool" mode).
func WithSharedPool(pool *http.Transport) Option {
	return func(f *ProxyFactory) { f.sharedPool = pool }
}

// WithLogger attaches a zap logger; defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(f *ProxyFactory) { f.log = log }
}

// NewProxyFactory builds a ProxyFactory from the given options.
func NewProxyFactory(opts ...Option) *ProxyFactory {
	f := &ProxyFactory{
		version:        V2,
		connectTimeout: 30 * time.Second,
		log:            zap.NewNop(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// GetProxy returns a Proxy bound to url. Per spec.md §4.6 two pooling
// modes exist: when the factory was built WithSharedPool, every proxy
// shares that one *http.Transport; otherwise each GetProxy call builds a
// fresh connection pool sized from the persistent-connection options.
func (f *ProxyFactory) GetProxy(url string) *Proxy {
	transport := f.sharedPool
	if transport == nil {
		transport = f.newTransport()
	}

	var rt http.RoundTripper = transport
	if f.retryAutomatically {
		rt = newRetryingTransport(transport)
	}

	p := &Proxy{
		url:         url,
		version:     f.version,
		credentials: f.credentials,
		httpClient: &http.Client{
			Transport: rt,
		},
		connectTimeout: f.connectTimeout,
		compressed:     f.compressedHTTP,
		log:            f.log,
	}

	return p
}

// newTransport builds the connection pool for a Proxy. connectTimeout
// bounds only the TCP dial (spec.md §6's "TCP connect deadline"); once the
// exchange is underway, cancellation comes from the caller's context, not
// from a blanket http.Client.Timeout.
func (f *ProxyFactory) newTransport() *http.Transport {
	dialer := &net.Dialer{Timeout: f.connectTimeout}

	t := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSClientConfig:     dialTLSConfig(f.tlsConfig),
		DisableKeepAlives:   !f.persistent,
		MaxIdleConnsPerHost: f.maxPersistentPerHost,
		IdleConnTimeout:     f.cachedConnectionTimeout,
	}

	if t.MaxIdleConnsPerHost == 0 {
		t.MaxIdleConnsPerHost = http.DefaultMaxIdleConnsPerHost
	}

	return t
}
