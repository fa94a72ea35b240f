// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

// VerifyMethodCall classifies a decoded Envelope as valid or raises an
// INVALID_REQUEST *Error. It does not check parameter shape against any
// particular handler's arity — argument-binding mismatches are deferred to
// the dispatcher (spec.md §4.2).
func VerifyMethodCall(env *Envelope) *Error {
	if !env.methodPresent || !env.methodIsString {
		return Errorf(InvalidRequest, "Invalid method type")
	}

	if env.ParamsKind == ParamsInvalid {
		return Errorf(InvalidRequest, "Invalid params type")
	}

	if env.versionPresent && (!env.versionRecognized || env.versionBareInt) {
		return Errorf(InvalidRequest, "Invalid jsonrpc version")
	}

	if env.idPresent && !env.idValid {
		return Errorf(InvalidRequest, "Invalid id type")
	}

	return nil
}
