// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !gojay
// +build !gojay

package jsonrpc

import "encoding/json"

// marshalBatch encodes assembled batch responses with json-iterator/go,
// the default codec. The gojay build tag swaps in codec_gojay.go's
// faster array-specific encoder instead, mirroring the teacher's
// wire.go/wire_gojay.go split.
func marshalBatch(items []json.RawMessage) ([]byte, error) {
	return jsonAPI.Marshal(items)
}
