// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// Server binds the protocol engine to the HTTP POST request/response
// cycle (spec.md §4.5). It consumes "a request body as bytes, a method
// lookup table, and a way to write a response body and headers" — the
// HTTP server runtime itself (routing, connection lifecycle, TLS) is an
// external collaborator, supplied here by net/http.Server.
type Server struct {
	Registry *Registry
	Log      *zap.Logger
}

// NewServer returns a Server ready to be mounted as an http.Handler.
func NewServer(registry *Registry, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	return &Server{Registry: registry, Log: log}
}

// compile time check that Server implements http.Handler.
var _ http.Handler = (*Server)(nil)

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.Log.Error("failed to read request body", zap.Error(err))
		s.writeResponse(w, PrepareParseError())

		return
	}

	s.writeResponse(w, s.Handle(r.Context(), body))
}

// Handle runs the decode/validate/dispatch/batch pipeline over body and
// returns the raw response bytes to write, or nil when nothing should be
// written (a notification, or a batch made entirely of notifications).
func (s *Server) Handle(ctx context.Context, body []byte) []byte {
	if IsBatch(body) {
		resp, err := DispatchBatch(ctx, body, s.Registry, s.Log)
		if err != nil {
			s.Log.Error("batch dispatch failed", zap.Error(err))

			return PrepareParseError()
		}

		return resp
	}

	return ProcessRequest(ctx, json.RawMessage(body), s.Registry, s.Log)
}

func (s *Server) writeResponse(w http.ResponseWriter, resp []byte) {
	if len(resp) == 0 {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(resp)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(resp); err != nil {
		s.Log.Error("failed to write response body", zap.Error(err))
	}
}
