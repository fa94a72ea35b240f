// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
	"go.uber.org/zap"
)

// EncodingJSONRPCServer wraps a Server, negotiating Accept-Encoding and
// gzip-compressing the outgoing body when the client advertises support
// (spec.md §4.5, "otherwise transparent"; original_source/tests/test_server.py's
// TestEncodingJSONRPCServer exercises exactly this negotiation through
// Twisted's ContentDecoderAgent/GzipDecoder). Parallel gzip
// (github.com/klauspost/pgzip) is used instead of compress/gzip, matching
// the example pack's cloudposse-atmos manifest use of the same library.
type EncodingJSONRPCServer struct {
	inner *Server
}

// NewEncodingServer wraps inner with gzip content negotiation.
func NewEncodingServer(inner *Server) *EncodingJSONRPCServer {
	return &EncodingJSONRPCServer{inner: inner}
}

var _ http.Handler = (*EncodingJSONRPCServer)(nil)

// ServeHTTP implements http.Handler.
func (s *EncodingJSONRPCServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.inner.Log.Error("failed to read request body", zap.Error(err))
		s.write(w, r, PrepareParseError())

		return
	}

	s.write(w, r, s.inner.Handle(r.Context(), body))
}

func (s *EncodingJSONRPCServer) write(w http.ResponseWriter, r *http.Request, resp []byte) {
	if len(resp) == 0 {
		return
	}

	if !acceptsGzip(r) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", strconv.Itoa(len(resp)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(resp)

		return
	}

	var buf bytes.Buffer

	gz := pgzip.NewWriter(&buf)
	if _, err := gz.Write(resp); err != nil {
		s.inner.Log.Error("failed to gzip response", zap.Error(err))
		gz.Close()
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", strconv.Itoa(len(resp)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(resp)

		return
	}

	if err := gz.Close(); err != nil {
		s.inner.Log.Error("failed to finalize gzip response", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func acceptsGzip(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		if strings.TrimSpace(enc) == "gzip" {
			return true
		}
	}

	return false
}
