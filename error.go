// Copyright 2019 The go-language-server Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonrpc

import (
	"encoding/json"
	"fmt"

	"golang.org/x/xerrors"
)

// Error is a JSON-RPC error object, the value carried by a response's
// "error" field.
type Error struct {
	// Code is a number indicating the error type that occurred.
	Code Code `json:"code"`

	// Message is a short description of the error.
	Message string `json:"message"`

	// Data is a primitive or structured value with additional information
	// about the error. Omitted when nil.
	Data *json.RawMessage `json:"data,omitempty"`

	// Version is the protocol version of the response this error was
	// raised from. It is never part of the wire error object itself —
	// DecodeResponse fills it in from the enclosing response envelope —
	// and is left at its zero value (V1) for errors built locally via
	// NewError/Errorf.
	Version Version `json:"-"`

	frame xerrors.Frame
	err   error
}

// JSONRPCError is an alias kept for callers that prefer the fully
// qualified name when embedding this package alongside other rpc engines.
type JSONRPCError = Error

// Error implements error.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

// Format implements fmt.Formatter.
func (e *Error) Format(s fmt.State, c rune) {
	xerrors.FormatError(e, s, c)
}

// FormatError implements xerrors.Formatter.
func (e *Error) FormatError(p xerrors.Printer) (next error) {
	if e.Message == "" {
		p.Printf("code=%v", e.Code)
	} else {
		p.Printf("%s (code=%v)", e.Message, e.Code)
	}
	e.frame.Format(p)

	return e.err
}

// Unwrap implements xerrors.Wrapper.
//
// It returns the error underlying the receiver, which may be nil.
func (e *Error) Unwrap() error {
	return e.err
}

// WithData attaches application data to e and returns e for chaining.
func (e *Error) WithData(v interface{}) *Error {
	if v == nil {
		return e
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return e
	}

	msg := json.RawMessage(raw)
	e.Data = &msg

	return e
}

// NewError builds an Error for the supplied code and message.
func NewError(c Code, args ...interface{}) *Error {
	e := &Error{
		Code:    c,
		Message: fmt.Sprint(args...),
		frame:   xerrors.Caller(1),
	}
	e.err = xerrors.New(e.Message)

	return e
}

// Errorf builds an Error for the supplied code and formatted message.
func Errorf(c Code, format string, args ...interface{}) *Error {
	e := &Error{
		Code:    c,
		Message: fmt.Sprintf(format, args...),
		frame:   xerrors.Caller(1),
	}
	e.err = xerrors.New(e.Message)

	return e
}

// AsError reports whether err is (or wraps) an *Error, returning it if so.
func AsError(err error) (*Error, bool) {
	var e *Error
	if xerrors.As(err, &e) {
		return e, true
	}

	return nil, false
}

// ToError converts an arbitrary error returned by a handler into an *Error,
// wrapping it with InternalError if it isn't already one.
func ToError(err error) *Error {
	if err == nil {
		return nil
	}

	if e, ok := AsError(err); ok {
		return e
	}

	return Errorf(InternalError, "%s", err.Error())
}
