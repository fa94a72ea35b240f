// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import (
	"net/http"
	"strconv"
)

// CredentialChecker validates an HTTP basic-auth username/password pair.
// The authentication realm itself is an external collaborator (spec.md
// §1); this interface is the boundary the protocol engine consumes.
type CredentialChecker interface {
	CheckCredentials(user, password string) bool
}

// CredentialCheckerFunc adapts a plain function to CredentialChecker.
type CredentialCheckerFunc func(user, password string) bool

// CheckCredentials implements CredentialChecker.
func (f CredentialCheckerFunc) CheckCredentials(user, password string) bool {
	return f(user, password)
}

// BasicAuthServer wraps an http.Handler, surfacing a missing or rejected
// basic-auth credential as a protocol-level error envelope rather than an
// HTTP status code: the response carries message "Unauthorized" and code
// INVALID_REQUEST (spec.md §4.5, §9 Open Question — the code choice is
// admittedly odd but clients depend on it).
type BasicAuthServer struct {
	inner   http.Handler
	checker CredentialChecker
}

// NewBasicAuthServer wraps inner behind a basic-auth gate.
func NewBasicAuthServer(inner http.Handler, checker CredentialChecker) *BasicAuthServer {
	return &BasicAuthServer{inner: inner, checker: checker}
}

var _ http.Handler = (*BasicAuthServer)(nil)

// ServeHTTP implements http.Handler.
func (s *BasicAuthServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, pass, ok := r.BasicAuth()
	if !ok || !s.checker.CheckCredentials(user, pass) {
		body, _ := jsonAPI.Marshal(&wireResponseV2{
			VersionTag: "2.0",
			ID:         NullID(),
			Error:      Errorf(InvalidRequest, "Unauthorized"),
		})

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)

		return
	}

	s.inner.ServeHTTP(w, r)
}
