// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import (
	"bytes"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/atomic"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ParamsKind classifies the shape of a decoded "params" member.
type ParamsKind int

const (
	// ParamsAbsent means no "params" member was present.
	ParamsAbsent ParamsKind = iota
	// ParamsPositional means "params" decoded as a JSON array.
	ParamsPositional
	// ParamsNamed means "params" decoded as a JSON object.
	ParamsNamed
	// ParamsInvalid means "params" was present but neither array nor object.
	ParamsInvalid
)

// Envelope is a decoded (but not yet validated) JSON-RPC request.
type Envelope struct {
	Version           Version
	versionPresent    bool
	versionRecognized bool
	versionBareInt    bool

	methodPresent  bool
	methodIsString bool
	Method         string

	Params     json.RawMessage
	ParamsKind ParamsKind

	ID        ID
	idPresent bool
	idValid   bool // true if present and of type string/number
}

// IsNotification reports whether this envelope is a notification: no id
// present at all. Per spec.md §3, only *absence* of id makes a
// notification; a present null id is a different (still id-bearing,
// though unusual) case handled by the validator.
func (e *Envelope) IsNotification() bool {
	return !e.idPresent
}

var globalRequestSeq atomic.Int64

// nextRequestID allocates a process-wide monotonically increasing integer
// id, used only as EncodeRequest's fallback when the caller supplies none.
// Proxy.CallRemote prefers its own per-proxy counter (see client.go) per
// the spec's "Id generation" design note; this package-level one exists so
// EncodeRequest remains usable standalone.
func nextRequestID() int64 {
	return globalRequestSeq.Inc()
}

// EncodeRequest builds the JSON text of a single request envelope.
//
// method must be non-empty. If id is nil, a fresh integer id is drawn from
// a process-wide counter; if id points at an absent ID (NoID()), the "id"
// member is omitted entirely, producing a notification. version selects
// wire form: 2 or 2.0 emits the V2 "jsonrpc":"2.0" tag; any other value
// (including nil, 1, 1.0) omits it.
func EncodeRequest(method string, params interface{}, id *ID, version interface{}) ([]byte, error) {
	if method == "" {
		return nil, Errorf(InvalidRequest, "method must not be empty")
	}

	raw := map[string]interface{}{
		"method": method,
	}

	switch {
	case id == nil:
		raw["id"] = NewNumberID(float64(nextRequestID()))
	case id.IsAbsent():
		// omit "id" — this request is a notification
	default:
		raw["id"] = *id
	}

	if params != nil {
		raw["params"] = params
	}

	if isVersion2(version) {
		raw["jsonrpc"] = "2.0"
	}

	return jsonAPI.Marshal(raw)
}

// isVersion2 reports whether v spells JSON-RPC 2.0 ("2", "2.0", float 2,
// or Version(V2)).
func isVersion2(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case Version:
		return t == V2
	case string:
		return t == "2" || t == "2.0"
	case int:
		return t == 2
	case int64:
		return t == 2
	case float64:
		return t == 2.0
	default:
		return false
	}
}

// DecodeRequest parses raw bytes into an Envelope. It raises ErrParse on
// empty input or malformed JSON; it performs no further validation (that
// is VerifyMethodCall's job).
func DecodeRequest(data []byte) (*Envelope, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, copyErr(ErrParse)
	}

	var wr wireRequest
	if err := jsonAPI.Unmarshal(data, &wr); err != nil {
		return nil, copyErr(ErrParse)
	}

	env := &Envelope{}

	if wr.VersionTag.present {
		env.versionPresent = true
		env.versionBareInt = wr.VersionTag.IsBareInteger()
		ver, ok := wr.VersionTag.Resolve()
		env.Version = ver
		env.versionRecognized = ok
	} else {
		env.Version = V1
		env.versionRecognized = true
	}

	if wr.Method != nil {
		env.methodPresent = true

		var s string
		if err := jsonAPI.Unmarshal(*wr.Method, &s); err == nil {
			env.methodIsString = true
			env.Method = s
		}
	}

	if wr.Params != nil {
		env.ParamsKind, env.Params = classifyParams(*wr.Params)
	} else {
		env.ParamsKind = ParamsAbsent
	}

	if wr.ID != nil {
		env.idPresent = true

		var id ID
		if err := id.UnmarshalJSON(*wr.ID); err == nil {
			env.idValid = true
			env.ID = id
		}
	}

	return env, nil
}

func classifyParams(raw json.RawMessage) (ParamsKind, json.RawMessage) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ParamsInvalid, raw
	}

	switch trimmed[0] {
	case '[':
		return ParamsPositional, raw
	case '{':
		return ParamsNamed, raw
	default:
		return ParamsInvalid, raw
	}
}

// PrepareMethodResponse builds the response envelope for a dispatch
// outcome. It returns (nil, nil) when id is absent (notification — emit
// nothing). outcomeErr, if non-nil, takes precedence over outcome.
func PrepareMethodResponse(outcome interface{}, outcomeErr error, id ID, version Version) ([]byte, error) {
	if id.IsAbsent() {
		return nil, nil
	}

	if outcomeErr != nil {
		jerr := classifyOutcomeError(outcomeErr)

		return encodeResponse(id, version, nil, jerr)
	}

	raw, err := jsonAPI.Marshal(outcome)
	if err != nil {
		jerr := Errorf(InternalError, "failed to encode result: %s", err.Error())

		return encodeResponse(id, version, nil, jerr)
	}

	rawMsg := json.RawMessage(raw)

	return encodeResponse(id, version, &rawMsg, nil)
}

// classifyOutcomeError maps an arbitrary dispatch-time error onto the
// wire's error taxonomy, preserving any *Error verbatim and otherwise
// reporting ErrInternal's generic message, so the text of a non-protocol
// error never reaches the client. Argument-binding failures are
// pre-classified as *Error(InvalidParams) by the dispatcher before they
// ever reach here (see dispatch.go), so this function needs no special
// case for them.
func classifyOutcomeError(err error) *Error {
	if e, ok := AsError(err); ok {
		return e
	}

	return copyErr(ErrInternal)
}

func encodeResponse(id ID, version Version, result *json.RawMessage, jerr *Error) ([]byte, error) {
	if version == V2 {
		resp := wireResponseV2{
			VersionTag: "2.0",
			ID:         id,
			Result:     result,
			Error:      jerr,
		}

		return jsonAPI.Marshal(&resp)
	}

	resp := wireResponseV1{
		ID:     id,
		Result: result,
		Error:  jerr,
	}

	return jsonAPI.Marshal(&resp)
}

// PrepareParseError builds the fixed V2/null-id response mandated for
// unrecoverable parse failures, regardless of the request's own (unknown
// or undecodable) intended version.
func PrepareParseError() []byte {
	resp := wireResponseV2{
		VersionTag: "2.0",
		ID:         NullID(),
		Error:      copyErr(ErrParse),
	}

	out, _ := jsonAPI.Marshal(&resp)

	return out
}

// DecodeResponse parses a client-observed response body into its result
// value (raw JSON, left for the caller to unmarshal into a concrete type)
// or a *Error. It enforces the mutual-exclusivity invariant of §4.1.
func DecodeResponse(data []byte) (json.RawMessage, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, copyErr(ErrParse)
	}

	var probe wireResponseProbe
	if err := jsonAPI.Unmarshal(data, &probe); err != nil {
		return nil, copyErr(ErrParse)
	}

	hasResult := probe.resultPresent()
	hasError := probe.errorPresent()

	version, recognized := probe.VersionTag.Resolve()
	if !recognized {
		version = V1
	}

	switch {
	case hasResult && hasError:
		return nil, Errorf(InvalidRequest, "invalid response: both result and error present")
	case !probe.hasResult && !probe.hasError:
		return nil, Errorf(InvalidRequest, "invalid response: neither result nor error present")
	case hasError:
		probe.Error.Version = version

		return nil, probe.Error
	default:
		if probe.Result == nil {
			return json.RawMessage("null"), nil
		}

		return *probe.Result, nil
	}
}

func copyErr(e *Error) *Error {
	c := *e

	return &c
}
