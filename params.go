// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParamSpec declares a handler's expected parameters, replacing the
// reference implementation's runtime introspection of native call
// signatures (spec.md §9, "Argument-binding introspection"). The
// dispatcher uses this schema to both bind arguments and, on mismatch,
// synthesize the same class of message Python's call machinery produces.
type ParamSpec struct {
	// Name is the exposed method name, used in generated messages, e.g.
	// "jsonrpc_echo" or "jsonrpc_sql".
	Name string

	// Names is the ordered list of parameter names. Required parameters
	// come first, optional ones after.
	Names []string

	// Required is how many of Names must be supplied.
	Required int

	// ImplicitSelf reproduces the reference server's bound-method
	// handlers, which count an implicit leading "self" argument that
	// callers never supply on the wire. Arity messages and counts are
	// offset by one when true.
	ImplicitSelf bool
}

func (p ParamSpec) arity() int {
	n := len(p.Names)
	if p.ImplicitSelf {
		n++
	}

	return n
}

// Params is the decoded, not-yet-bound "params" member of a request.
type Params struct {
	Kind       ParamsKind
	Positional []json.RawMessage
	Named      map[string]json.RawMessage
}

// DecodeParams turns raw "params" bytes (already classified by the codec)
// into a Params value ready for binding.
func DecodeParams(kind ParamsKind, raw json.RawMessage) (Params, error) {
	switch kind {
	case ParamsAbsent:
		return Params{Kind: ParamsAbsent}, nil
	case ParamsPositional:
		var items []json.RawMessage
		if err := jsonAPI.Unmarshal(raw, &items); err != nil {
			return Params{}, Errorf(InvalidRequest, "invalid params array")
		}

		return Params{Kind: ParamsPositional, Positional: items}, nil
	case ParamsNamed:
		var m map[string]json.RawMessage
		if err := jsonAPI.Unmarshal(raw, &m); err != nil {
			return Params{}, Errorf(InvalidRequest, "invalid params object")
		}

		return Params{Kind: ParamsNamed, Named: m}, nil
	default:
		return Params{}, Errorf(InvalidRequest, "params must be an array or object")
	}
}

// Bind matches p against spec, returning the ordered argument list
// (raw JSON per slot, nil for anything unset and optional) or an
// INVALID_PARAMS *Error carrying a Python-flavoured message on mismatch.
func (spec ParamSpec) Bind(p Params) ([]json.RawMessage, *Error) {
	switch p.Kind {
	case ParamsAbsent:
		return spec.bindPositional(nil)
	case ParamsPositional:
		return spec.bindPositional(p.Positional)
	case ParamsNamed:
		return spec.bindNamed(p.Named)
	default:
		return nil, Errorf(InvalidParams, "params must be an array or object")
	}
}

func (spec ParamSpec) bindPositional(given []json.RawMessage) ([]json.RawMessage, *Error) {
	n := len(given)

	if n > len(spec.Names) {
		displayedGiven := n
		if spec.ImplicitSelf {
			displayedGiven++
		}

		return nil, Errorf(InvalidParams, "%s", arityMessage(spec.Name, spec.arity(), displayedGiven))
	}

	if n < spec.Required {
		return nil, Errorf(InvalidParams, "%s", missingArgumentsMessage(spec.Name, spec.Names[n:spec.Required]))
	}

	args := make([]json.RawMessage, len(spec.Names))
	copy(args, given)

	return args, nil
}

func (spec ParamSpec) bindNamed(given map[string]json.RawMessage) ([]json.RawMessage, *Error) {
	known := make(map[string]bool, len(spec.Names))
	for _, n := range spec.Names {
		known[n] = true
	}

	for k := range given {
		if !known[k] {
			return nil, Errorf(InvalidParams, "%s", unexpectedKeywordMessage(spec.Name, k))
		}
	}

	args := make([]json.RawMessage, len(spec.Names))
	var missing []string

	for i, name := range spec.Names {
		if v, ok := given[name]; ok {
			args[i] = v
		} else if i < spec.Required {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, Errorf(InvalidParams, "%s", missingArgumentsMessage(spec.Name, missing))
	}

	return args, nil
}

// arityMessage reproduces Python's TypeError text for too-many/too-few
// positional arguments, e.g.:
//
//	jsonrpc_sql() takes 1 positional argument but 3 were given
//	jsonrpc_echo() takes 2 positional arguments but 3 were given
func arityMessage(name string, want, given int) string {
	return fmt.Sprintf(
		"%s() takes %d %s but %d %s given",
		name, want, pluralArgument(want), given, pluralWasWere(given),
	)
}

// unexpectedKeywordMessage reproduces:
//
//	jsonrpc_echo() got an unexpected keyword argument 'wrongname'
func unexpectedKeywordMessage(name, keyword string) string {
	return fmt.Sprintf("%s() got an unexpected keyword argument %s", name, quote(keyword))
}

// missingArgumentsMessage reproduces:
//
//	jsonrpc_echo() missing 1 required positional argument: 'data'
//	jsonrpc_echo() missing 2 required positional arguments: 'a' and 'b'
//	jsonrpc_echo() missing 3 required positional arguments: 'a', 'b', and 'c'
func missingArgumentsMessage(name string, missing []string) string {
	return fmt.Sprintf(
		"%s() missing %d required %s: %s",
		name, len(missing), pluralArgument(len(missing)), oxfordList(missing),
	)
}

func pluralArgument(n int) string {
	if n == 1 {
		return "positional argument"
	}

	return "positional arguments"
}

func pluralWasWere(n int) string {
	if n == 1 {
		return "was"
	}

	return "were"
}

func quote(s string) string {
	return "'" + s + "'"
}

// oxfordList formats names as Python's TypeError does: a single name is
// bare-quoted, two names join with "and", three or more use a comma list
// with ", and" before the last.
func oxfordList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quote(n)
	}

	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	case 2:
		return quoted[0] + " and " + quoted[1]
	default:
		return strings.Join(quoted[:len(quoted)-1], ", ") + ", and " + quoted[len(quoted)-1]
	}
}
