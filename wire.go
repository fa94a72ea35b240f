// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import "encoding/json"

// wireRequest is the on-the-wire shape of a single JSON-RPC request. It
// covers both V1 and V2: VersionTag is absent on the wire for V1 and always
// "2.0" for V2 (enforced by Codec, not by this struct alone).
type wireRequest struct {
	VersionTag versionTag
	Method     *json.RawMessage
	Params     *json.RawMessage
	ID         *json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler by looking up the four wire
// keys by exact-cased match against a map[string]json.RawMessage, rather
// than through struct-tag reflection. Both encoding/json and jsoniter's
// compatible config fall back to a case-insensitive match on an unmatched
// key, which would silently fold a mis-cased member like "PARAMS" onto
// Params — this type exists so method/params/id/jsonrpc stay strictly
// lowercase, per the wire's case-sensitivity rule.
func (w *wireRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["jsonrpc"]; ok {
		if err := w.VersionTag.UnmarshalJSON(v); err != nil {
			return err
		}
	}

	if v, ok := raw["method"]; ok {
		w.Method = &v
	}

	if v, ok := raw["params"]; ok {
		w.Params = &v
	}

	if v, ok := raw["id"]; ok {
		w.ID = &v
	}

	return nil
}

// wireResponseV1 is the always-present-both-keys V1 response shape: exactly
// one of Result/Error is non-null, the other is the JSON literal null.
type wireResponseV1 struct {
	ID     ID               `json:"id"`
	Result *json.RawMessage `json:"result"`
	Error  *Error           `json:"error"`
}

// wireResponseV2 is the one-field-omitted V2 response shape.
type wireResponseV2 struct {
	VersionTag string           `json:"jsonrpc"`
	ID         ID               `json:"id"`
	Result     *json.RawMessage `json:"result,omitempty"`
	Error      *Error           `json:"error,omitempty"`
}

// wireResponseProbe is used to decode an arbitrary response (client side)
// regardless of which version produced it, so decodeResponse can apply the
// shared mutual-exclusivity rule afterward.
type wireResponseProbe struct {
	VersionTag versionTag       `json:"jsonrpc,omitempty"`
	ID         *json.RawMessage `json:"id"`
	Result     *json.RawMessage `json:"result"`
	Error      *Error           `json:"error"`
	hasResult  bool
	hasError   bool
}

// UnmarshalJSON implements json.Unmarshaler, tracking field presence
// (as opposed to JSON null) so decodeResponse can tell "result omitted"
// apart from "result present but null" — the V1/V2 distinction hinges on
// this.
func (p *wireResponseProbe) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["jsonrpc"]; ok {
		if err := p.VersionTag.UnmarshalJSON(v); err != nil {
			return err
		}
	}

	if v, ok := raw["id"]; ok {
		p.ID = &v
	}

	if v, ok := raw["result"]; ok {
		p.hasResult = true
		p.Result = &v
	}

	if v, ok := raw["error"]; ok {
		p.hasError = true
		if string(v) != "null" {
			var e Error
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			p.Error = &e
		}
	}

	return nil
}

// resultPresent reports whether a non-null result was given.
func (p *wireResponseProbe) resultPresent() bool {
	return p.hasResult && p.Result != nil && string(*p.Result) != "null"
}

// errorPresent reports whether a non-null error was given.
func (p *wireResponseProbe) errorPresent() bool {
	return p.hasError && p.Error != nil
}
