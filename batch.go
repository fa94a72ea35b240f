// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"unicode"

	"go.uber.org/zap"
)

// IsBatch peeks at the first non-whitespace byte of a decoded request body
// to decide between the single-envelope and array-of-envelopes forms,
// grounded on the reference's RequestSet.ParseRequestSet: it reads runes
// until it finds a non-space one rather than relying on json.Unmarshal's
// error behavior to distinguish the two shapes.
func IsBatch(body []byte) bool {
	trimmed := bytes.TrimLeftFunc(body, unicode.IsSpace)

	return len(trimmed) > 0 && trimmed[0] == '['
}

// batchResult pairs a single batch element's encoded response (nil for a
// notification) with its original array position, so the assembler can
// restore order after concurrent dispatch.
type batchResult struct {
	index    int
	response []byte
}

// DispatchBatch fans a JSON array of request envelopes out through
// VerifyMethodCall+Dispatch concurrently (spec.md §4.4: "fan-out is
// concurrent in intent... result assembly preserves positional order"),
// then reassembles the non-notification responses as a single JSON array.
// An empty array input is itself INVALID_REQUEST. A batch made up solely
// of notifications returns (nil, nil): no response body.
func DispatchBatch(ctx context.Context, body []byte, registry *Registry, log *zap.Logger) ([]byte, error) {
	var rawItems []json.RawMessage
	if err := jsonAPI.Unmarshal(body, &rawItems); err != nil {
		return PrepareParseError(), nil
	}

	if len(rawItems) == 0 {
		resp := wireResponseV2{
			VersionTag: "2.0",
			ID:         NullID(),
			Error:      Errorf(InvalidRequest, "Invalid Request"),
		}
		out, _ := jsonAPI.Marshal(&resp)

		return out, nil
	}

	results := make([]batchResult, len(rawItems))

	var wg sync.WaitGroup
	wg.Add(len(rawItems))

	for i, raw := range rawItems {
		go func(i int, raw json.RawMessage) {
			defer wg.Done()

			results[i] = batchResult{index: i, response: ProcessRequest(ctx, raw, registry, log)}
		}(i, raw)
	}

	wg.Wait()

	var assembled []json.RawMessage
	for _, r := range results {
		if r.response == nil {
			continue
		}

		assembled = append(assembled, json.RawMessage(r.response))
	}

	if len(assembled) == 0 {
		return nil, nil
	}

	out, err := marshalBatch(assembled)
	if err != nil {
		return nil, Errorf(InternalError, "failed to assemble batch response: %s", err.Error())
	}

	return out, nil
}

// ProcessRequest runs the full decode->validate->dispatch->encode pipeline
// for one batch element (or for a standalone single request), returning
// nil when the element is a notification (no response bytes).
func ProcessRequest(ctx context.Context, raw json.RawMessage, registry *Registry, log *zap.Logger) []byte {
	env, err := DecodeRequest(raw)
	if err != nil {
		return PrepareParseError()
	}

	if verr := VerifyMethodCall(env); verr != nil {
		if !env.idPresent {
			// Notifications never error to the client (spec.md §7): there
			// is no id to correlate a response with, so drop it silently.
			return nil
		}

		resp, _ := PrepareMethodResponse(nil, verr, responseID(env), env.Version)

		return resp
	}

	if env.IsNotification() {
		_, _ = Dispatch(ctx, env, registry, log)

		return nil
	}

	val, derr := Dispatch(ctx, env, registry, log)
	resp, encErr := PrepareMethodResponse(val, derr, env.ID, env.Version)
	if encErr != nil {
		log.Error("failed to encode response", zap.Error(encErr))
	}

	return resp
}

// responseID returns env.ID when it decoded to a legal string/number id,
// otherwise the reserved null id — used for INVALID_REQUEST responses
// raised when the id field itself was present but malformed.
func responseID(env *Envelope) ID {
	if env.idValid {
		return env.ID
	}

	return NullID()
}
