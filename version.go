// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import "encoding/json"

// Version identifies which JSON-RPC wire dialect a request or response
// follows.
type Version int

const (
	// V1 is JSON-RPC 1.0: no "jsonrpc" tag; a response always carries both
	// "result" and "error" keys (one holds null).
	V1 Version = iota

	// V2 is JSON-RPC 2.0: "jsonrpc":"2.0" tag required, exactly one of
	// "result"/"error" present in a response. In both versions a request
	// without "id" is a notification.
	V2
)

// String implements fmt.Stringer.
func (v Version) String() string {
	switch v {
	case V2:
		return "2.0"
	default:
		return "1.0"
	}
}

// versionTag decodes the "jsonrpc" member of a request or response.
//
// Decoding is tolerant of the common non-conforming spellings seen in the
// wild (the float 2.0, or the strings "2" and "2.0"); a bare JSON number
// with no fractional part (e.g. the integer 2) is rejected, matching the
// reference implementation's decodeRequest/verifyMethodCall split: decode
// accepts it, but call verification does not.
type versionTag struct {
	present bool
	raw     json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *versionTag) UnmarshalJSON(data []byte) error {
	v.present = true
	v.raw = append(v.raw[:0], data...)

	return nil
}

// MarshalJSON implements json.Marshaler. It is never actually called: V2
// envelopes always marshal the literal string "2.0" via a plain field, and
// V1 envelopes omit the tag entirely. It exists so versionTag satisfies
// json.Marshaler for symmetry with UnmarshalJSON.
func (v versionTag) MarshalJSON() ([]byte, error) {
	return json.Marshal(Version(V2).String())
}

// Resolve interprets the decoded tag, returning the detected Version and
// whether the raw bytes were a recognizable 2.0 spelling at all.
func (v versionTag) Resolve() (ver Version, recognized bool) {
	if !v.present {
		return V1, true
	}

	var s string
	if err := json.Unmarshal(v.raw, &s); err == nil {
		switch s {
		case "2.0", "2":
			return V2, true
		default:
			return V2, false
		}
	}

	var f float64
	if err := json.Unmarshal(v.raw, &f); err == nil {
		if f == 2.0 {
			return V2, true
		}

		return V2, false
	}

	return V2, false
}

// IsBareInteger reports whether the raw tag bytes are a JSON integer
// literal with no decimal point, e.g. 2 rather than 2.0 or "2.0". The
// reference validator rejects this form even though decodeRequest accepts
// it, so callers other than the decoder must check this explicitly.
func (v versionTag) IsBareInteger() bool {
	if !v.present {
		return false
	}

	for _, b := range v.raw {
		switch b {
		case '.', '"':
			return false
		}
	}

	return true
}
