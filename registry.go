// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import (
	"context"
	"encoding/json"
	"sync"
)

// HandlerFunc is a registered method's implementation. args holds the
// bound, still-raw-JSON arguments in declared-parameter order (see
// ParamSpec.Bind); a handler unmarshals each into its expected type.
// The value may be a *Future, which the dispatcher waits on. Returning a non-nil error of kind *Error propagates that code verbatim
// (spec.md §4.3 step 5); any other error becomes INTERNAL_ERROR.
type HandlerFunc func(ctx context.Context, args []json.RawMessage) (interface{}, error)

// Method pairs a handler with the schema used to bind its arguments.
type Method struct {
	Spec    ParamSpec
	Handler HandlerFunc
}

// Registry is the server-side mapping from public method name to handler,
// "created at server initialization and effectively immutable during
// operation" per spec.md §3. In place of the reference implementation's
// reflective name-prefix attribute scan (spec.md §9, "Method registration
// by name prefix"), methods are registered explicitly.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]Method
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{methods: make(map[string]Method)}
}

// Register adds method under name, matched case-sensitively and exactly
// at dispatch time. Registering the same name twice replaces the prior
// entry.
func (r *Registry) Register(name string, spec ParamSpec, handler HandlerFunc) {
	if spec.Name == "" {
		spec.Name = name
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.methods[name] = Method{Spec: spec, Handler: handler}
}

// Lookup returns the Method registered under name, if any. Safe for
// concurrent use alongside Register, though in practice the registry is
// built once at startup and only read afterward.
func (r *Registry) Lookup(name string) (Method, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.methods[name]

	return m, ok
}
