// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// idKind distinguishes which of ID's three legal wire forms is set:
// a JSON string, a JSON number, or the absence of an id (a notification).
type idKind int

const (
	idAbsent idKind = iota
	idString
	idNumber
)

// ID is a request identifier: a JSON string, a JSON number, or absent.
// A present-but-null id ("id": null) is represented the same as idNumber
// with a zero value carrying IsNull true, since JSON-RPC 2.0 reserves null
// ids for server-detected parse/invalid-request errors.
type ID struct {
	kind   idKind
	name   string
	number float64
	isNull bool
}

// compile time interface checks.
var (
	_ fmt.Formatter    = ID{}
	_ json.Marshaler   = ID{}
	_ json.Unmarshaler = (*ID)(nil)
)

// NewNumberID returns a new number request ID.
func NewNumberID(v float64) ID { return ID{kind: idNumber, number: v} }

// NewStringID returns a new string request ID.
func NewStringID(v string) ID { return ID{kind: idString, name: v} }

// NullID returns the reserved null id used on responses to requests whose
// own id could not be determined (e.g. a parse error).
func NullID() ID { return ID{kind: idNumber, isNull: true} }

// NoID reports the absence of an id, as used for notifications.
func NoID() ID { return ID{kind: idAbsent} }

// IsAbsent reports whether the id is unset, meaning the request that
// carried it is a notification and must never receive a response.
func (id ID) IsAbsent() bool { return id.kind == idAbsent }

// IsNull reports whether the id is the JSON literal null.
func (id ID) IsNull() bool { return id.isNull }

// Equal reports whether id and other identify the same request.
func (id ID) Equal(other ID) bool {
	if id.kind != other.kind || id.isNull != other.isNull {
		return false
	}

	switch id.kind {
	case idString:
		return id.name == other.name
	case idNumber:
		return id.isNull || id.number == other.number
	default:
		return true
	}
}

// Format writes the ID to the formatter.
//
// If the verb is %q the representation is unambiguous: string forms are
// quoted, number forms are preceded by a #.
func (id ID) Format(f fmt.State, r rune) {
	numF, strF := `%v`, `%s`
	if r == 'q' {
		numF, strF = `#%v`, `%q`
	}

	switch {
	case id.kind == idAbsent:
		fmt.Fprint(f, "<none>")
	case id.isNull:
		fmt.Fprint(f, "null")
	case id.kind == idString:
		fmt.Fprintf(f, strF, id.name)
	default:
		fmt.Fprintf(f, numF, id.number)
	}
}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	switch {
	case id.kind == idAbsent:
		return []byte("null"), nil
	case id.isNull:
		return []byte("null"), nil
	case id.kind == idString:
		return json.Marshal(id.name)
	default:
		return json.Marshal(id.number)
	}
}

// UnmarshalJSON implements json.Unmarshaler. Numbers decode first, then
// strings; null decodes to the reserved null id.
func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ID{}

	if string(data) == "null" {
		id.kind = idNumber
		id.isNull = true

		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		id.kind = idNumber
		id.number = n

		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("id must be a string, number, or null: %w", err)
	}

	id.kind = idString
	id.name = s

	return nil
}
