// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Grounded on original_source/tests/test_server.py's TestRender: Content-Type
// and Content-Length headers on a successful render.
func TestServerSetsContentHeaders(t *testing.T) {
	srv := NewServer(sampleRegistry(), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"method":"echo","id":1,"params":["ab"]}`))
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("Content-Length"))
	assert.JSONEq(t, `{"error":null,"id":1,"result":"ab"}`, rec.Body.String())
}

func TestServerNotificationWritesNoBody(t *testing.T) {
	srv := NewServer(sampleRegistry(), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"method":"echo","params":["ab"]}`))
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Length"))
}

func TestBasicAuthServerRejectsMissingCredentials(t *testing.T) {
	inner := NewServer(sampleRegistry(), zap.NewNop())
	gated := NewBasicAuthServer(inner, CredentialCheckerFunc(func(user, pass string) bool {
		return user == "alice" && pass == "secret"
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"method":"echo","id":1,"params":["ab"]}`))
	rec := httptest.NewRecorder()

	gated.ServeHTTP(rec, req)

	assert.JSONEq(t, `{"jsonrpc":"2.0","id":null,"error":{"message":"Unauthorized","code":-32600}}`, rec.Body.String())
}

func TestBasicAuthServerAllowsCorrectCredentials(t *testing.T) {
	inner := NewServer(sampleRegistry(), zap.NewNop())
	gated := NewBasicAuthServer(inner, CredentialCheckerFunc(func(user, pass string) bool {
		return user == "alice" && pass == "secret"
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"method":"echo","id":1,"params":["ab"]}`))
	req.SetBasicAuth("alice", "secret")
	rec := httptest.NewRecorder()

	gated.ServeHTTP(rec, req)

	assert.JSONEq(t, `{"error":null,"id":1,"result":"ab"}`, rec.Body.String())
}

func TestEncodingServerCompressesWhenAccepted(t *testing.T) {
	srv := NewEncodingServer(NewServer(sampleRegistry(), zap.NewNop()))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"method":"echo","id":1,"params":["ab"]}`))
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestEncodingServerPassesThroughWithoutAcceptEncoding(t *testing.T) {
	srv := NewEncodingServer(NewServer(sampleRegistry(), zap.NewNop()))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"method":"echo","id":1,"params":["ab"]}`))
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.JSONEq(t, `{"error":null,"id":1,"result":"ab"}`, rec.Body.String())
}
