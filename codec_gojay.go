// Copyright 2019 The go-language-server Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build gojay
// +build gojay

package jsonrpc

import (
	"encoding/json"

	"github.com/francoispqt/gojay"
)

// batchResponseArray adapts a slice of already-encoded response envelopes
// to gojay's MarshalerJSONArray, used as the fast-path batch-array
// encoder under the gojay build tag — mirroring the teacher's own
// gojay/non-gojay file-pair split (wire_gojay.go next to wire.go,
// message_gojay.go next to message.go).
type batchResponseArray []json.RawMessage

// MarshalJSONArray implements gojay.MarshalerJSONArray.
func (a batchResponseArray) MarshalJSONArray(enc *gojay.Encoder) {
	for _, item := range a {
		enc.AddEmbeddedJSON((*gojay.EmbeddedJSON)(&item))
	}
}

// IsNil implements gojay.MarshalerJSONArray.
func (a batchResponseArray) IsNil() bool { return len(a) == 0 }

// marshalBatch encodes assembled batch responses with gojay instead of
// json-iterator/go, selected at build time via the gojay tag.
func marshalBatch(items []json.RawMessage) ([]byte, error) {
	return gojay.MarshalJSONArray(batchResponseArray(items))
}
