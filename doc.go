// SPDX-FileCopyrightText: 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package jsonrpc implements a JSON-RPC 1.0 and 2.0 engine: request/response
// codec, method dispatch, batch coordination, and an HTTP server and client
// proxy built on top of them.
//
// https://www.jsonrpc.org/specification
// https://www.jsonrpc.org/specification_v1
package jsonrpc // import "github.com/go-jsonrpc/engine"
