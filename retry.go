// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import (
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// retryingTransport adapts hashicorp/go-retryablehttp into a plain
// http.RoundTripper, so Proxy stays agnostic of whether retries are
// enabled (the retryAutomatically client option, spec.md §6). Found in
// three manifests of the retrieved example pack (cloudposse-atmos,
// go-go-golems-go-go-mcp, julianshen-rubichan); chosen over a hand-rolled
// backoff loop for that reason.
type retryingTransport struct {
	client *retryablehttp.Client
}

// newRetryingTransport builds a RoundTripper that retries failed requests
// with retryablehttp's default retry and exponential backoff policy,
// delegating the actual connection work to base. That policy does not
// look at whether a call is idempotent: every JSON-RPC POST is retried
// alike.
func newRetryingTransport(base http.RoundTripper) http.RoundTripper {
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Transport = base
	rc.Logger = nil

	return &retryingTransport{client: rc}
}

// RoundTrip implements http.RoundTripper.
func (t *retryingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rreq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, err
	}

	return t.client.Do(rreq)
}
